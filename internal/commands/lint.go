package commands

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/migrate"
)

func (c *CLI) newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Check migration scripts without touching a database",
		Long: `Validate script filenames and ordering, and flag destructive statements
(DROP, TRUNCATE, DELETE). stepsql migrations are forward-only and additive;
anything else is reported and exits nonzero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLint()
		},
	}
}

func (c *CLI) runLint() error {
	dir := c.cfg.MigrationsPath()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return usagef("failed to read migrations directory: %v", err)
	}

	// Collect name problems here rather than failing on the first, so one
	// run reports everything.
	var problems []migrate.Problem
	var scripts []migrate.Script
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		sc, err := migrate.LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			problems = append(problems, migrate.Problem{Name: entry.Name(), Message: err.Error()})
			continue
		}
		scripts = append(scripts, sc)
	}

	problems = append(problems, migrate.Lint(scripts)...)

	if len(problems) == 0 {
		c.printf("✓ %d migration(s) clean\n", len(scripts))
		return nil
	}

	for _, p := range problems {
		c.errorf("lint: %s\n", p)
	}
	return usagef("%d problem(s) found", len(problems))
}
