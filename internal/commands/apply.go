package commands

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/migrate"
)

func (c *CLI) newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <file|name>",
		Short: "Apply a single migration script",
		Long: `Apply one migration script, given as a path or as a migration name looked
up in the migrations directory. A script already recorded with matching
content is a no-op; recorded scripts whose content has changed are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runApply(cmd.Context(), args[0])
		},
	}
}

func (c *CLI) runApply(ctx context.Context, arg string) error {
	script, err := c.resolveScript(arg)
	if err != nil {
		return &usageError{err}
	}

	db, dialect, err := c.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	executed, err := migrate.Apply(ctx, db, dialect, script, c.logger(dialect))
	if err != nil {
		return &databaseError{err}
	}

	if executed {
		c.printf("✓ Applied %s\n", script.Name)
	} else {
		c.printf("Already applied: %s\n", script.Name)
	}
	return nil
}

// resolveScript accepts a path to a .sql file, or a migration name (with or
// without the .sql extension) found in the migrations directory.
func (c *CLI) resolveScript(arg string) (migrate.Script, error) {
	if _, err := os.Stat(arg); err == nil {
		return migrate.LoadFile(arg)
	}

	name := strings.TrimSuffix(filepath.Base(arg), ".sql")
	return migrate.LoadFile(filepath.Join(c.cfg.MigrationsPath(), name+".sql"))
}
