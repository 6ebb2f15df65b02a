// Package dbstrings provides string manipulation utilities for database
// naming: case conversion and migration name normalization.
package dbstrings

import (
	"strings"
	"unicode"
)

// ToPascalCase converts a snake_case string to PascalCase.
// Examples:
//
//	"user_id" -> "UserId"
//	"created_at" -> "CreatedAt"
//	"id" -> "Id"
func ToPascalCase(s string) string {
	parts := strings.Split(s, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, "")
}

// ToSnakeCase converts a PascalCase or camelCase string to snake_case.
// Examples:
//
//	"UserID" -> "user_id"
//	"CreatedAt" -> "created_at"
//	"AddProfileFields" -> "add_profile_fields"
func ToSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeName converts free-form input into a migration name suitable for
// filenames: lowercase snake_case with nothing but [a-z0-9_]. Spaces and
// hyphens become underscores, camel case gets split, anything else invalid
// is dropped, and runs of underscores collapse.
// Examples:
//
//	"Add Profile Fields" -> "add_profile_fields"
//	"add-phone-number" -> "add_phone_number"
//	"AddCountryToUsers" -> "add_country_to_users"
func NormalizeName(s string) string {
	snake := ToSnakeCase(strings.TrimSpace(s))

	var b strings.Builder
	lastUnderscore := false
	for _, r := range snake {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		case r == '_', r == ' ', r == '-':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "_")
}
