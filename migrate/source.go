package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Script is one migration script: a validated name, its SQL text, and the
// checksum of that text.
type Script struct {
	Name     string
	SQL      string
	Checksum string
}

// NewScript builds a Script from a migration name and SQL text, computing
// the checksum.
func NewScript(name, sql string) Script {
	return Script{Name: name, SQL: sql, Checksum: Checksum(sql)}
}

// LoadDir reads all .sql migration scripts from a directory, sorted by name
// ascending. Files without the .sql extension and subdirectories are
// ignored; a .sql file with an invalid migration name is an error.
func LoadDir(dir string) ([]Script, error) {
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS reads migration scripts from a directory of an fs.FS, which lets
// an application embed its migrations with embed.FS and apply them at
// startup.
func LoadFS(fsys fs.FS, dir string) ([]Script, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var scripts []Script
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		name, err := ParseScriptFilename(entry.Name())
		if err != nil {
			return nil, err
		}

		path := entry.Name()
		if dir != "." {
			path = dir + "/" + entry.Name()
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		scripts = append(scripts, NewScript(name, string(data)))
	}

	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })

	return scripts, nil
}

// LoadFile reads a single migration script from a path, deriving the
// migration name from the filename.
func LoadFile(path string) (Script, error) {
	name, err := ParseScriptFilename(filepath.Base(path))
	if err != nil {
		return Script{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read migration %s: %w", path, err)
	}

	return NewScript(name, string(data)), nil
}
