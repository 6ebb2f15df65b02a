// Package migrate applies SQL migration scripts to a database exactly once,
// in timestamp order, recording each applied script in a tracking table.
// Scripts are plain SQL files named TIMESTAMP_name.sql whose ADD COLUMN
// statements carry an IF NOT EXISTS guard, so re-running a script or
// re-running the whole set is safe.
package migrate

import (
	"fmt"
	"strings"
	"time"
)

// VersionLen is the length of the timestamp prefix in a migration name.
const VersionLen = 14

// ValidateMigrationName validates that a migration name follows the TIMESTAMP_name format.
// The name must be at least 16 characters: 14 digit timestamp + underscore + at least 1 char,
// and the part after the underscore must be lowercase snake_case ([a-z0-9_]).
func ValidateMigrationName(name string) error {
	// Check minimum length for: 14 digit timestamp + underscore + 1 char name
	if len(name) < 16 {
		// Provide more specific error based on what's wrong
		if len(name) < 14 {
			return fmt.Errorf("migration name must start with 14-digit timestamp, too short: %q", name)
		}
		if len(name) == 14 {
			return fmt.Errorf("migration name must have underscore and name after timestamp, too short: %q", name)
		}
		if len(name) == 15 {
			return fmt.Errorf("migration name empty after timestamp underscore: %q", name)
		}
		return fmt.Errorf("migration name too short: %q", name)
	}

	// First 14 characters must be digits (timestamp)
	for i := 0; i < VersionLen; i++ {
		if name[i] < '0' || name[i] > '9' {
			return fmt.Errorf("migration name must start with 14-digit timestamp: %q", name)
		}
	}

	// Character 15 (index 14) must be underscore
	if name[VersionLen] != '_' {
		return fmt.Errorf("migration name must have underscore after timestamp: %q", name)
	}

	// The rest must be lowercase snake_case
	for i := VersionLen + 1; i < len(name); i++ {
		c := name[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '_' {
			return fmt.Errorf("migration name must be lowercase snake_case after timestamp: %q", name)
		}
	}

	return nil
}

// Version returns the 14-digit timestamp prefix of a valid migration name.
func Version(name string) string {
	return name[:VersionLen]
}

// NewName builds a migration name from the current UTC time and a snake_case
// description, e.g. "20260219083455_add_profile_fields_to_users".
func NewName(description string) string {
	return time.Now().UTC().Format("20060102150405") + "_" + description
}

// ParseScriptFilename strips the .sql extension from a script filename and
// validates the remaining migration name.
func ParseScriptFilename(filename string) (string, error) {
	name, ok := strings.CutSuffix(filename, ".sql")
	if !ok {
		return "", fmt.Errorf("migration script must have .sql extension: %q", filename)
	}
	if err := ValidateMigrationName(name); err != nil {
		return "", err
	}
	return name, nil
}
