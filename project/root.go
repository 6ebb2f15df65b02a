// Package project locates the stepsql project root. A project is any
// directory containing a stepsql.ini; migration repositories are not
// required to be Go modules.
package project

import (
	"errors"
	"os"
	"path/filepath"
)

const ConfigFileName = "stepsql.ini"

var ErrNotInProject = errors.New("not in a stepsql project (no stepsql.ini found)")

// FindProjectRoot walks up from the current working directory looking for stepsql.ini.
// Returns the directory containing stepsql.ini, or an error if not found.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindProjectRootFrom(cwd)
}

// FindProjectRootFrom walks up from the given directory looking for stepsql.ini.
// Returns the directory containing stepsql.ini, or an error if not found.
func FindProjectRootFrom(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", ErrNotInProject
		}
		dir = parent
	}
}
