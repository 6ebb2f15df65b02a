// Package inifile parses the stepsql.ini project file. The dialect is
// deliberately small: [section] headers, key = value lines, and comments
// starting with # or ;. Section and key names are case-insensitive, values
// keep their case, and a later assignment of the same key wins.
package inifile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// File is a parsed INI file.
type File struct {
	sections map[string]map[string]string
}

// Parse reads INI content from r. Malformed lines (a stray token outside any
// section, or a line with no '=') are reported with their line number rather
// than silently dropped, since a typo in stepsql.ini otherwise surfaces as a
// mysteriously missing setting.
func Parse(r io.Reader) (*File, error) {
	f := &File{sections: make(map[string]map[string]string)}
	var current map[string]string

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("line %d: unterminated section header %q", lineno, line)
			}
			name := strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if name == "" {
				return nil, fmt.Errorf("line %d: empty section name", lineno)
			}
			if f.sections[name] == nil {
				f.sections[name] = make(map[string]string)
			}
			current = f.sections[name]
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value, got %q", lineno, line)
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: key %q before any [section]", lineno, strings.TrimSpace(key))
		}
		current[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	return f, scanner.Err()
}

// ParseFile reads and parses an INI file from disk.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Get returns the value for a key in a section, or "" when either is absent.
// Section and key lookups are case-insensitive.
func (f *File) Get(section, key string) string {
	return f.sections[strings.ToLower(section)][strings.ToLower(key)]
}

// HasSection reports whether the file declares the named section.
func (f *File) HasSection(section string) bool {
	_, ok := f.sections[strings.ToLower(section)]
	return ok
}
