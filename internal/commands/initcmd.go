package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/internal/config"
)

const starterINI = `# stepsql project configuration
[project]
name = %s

[migrations]
dir = migrations

[db]
# url = postgres://user@localhost:5432/dbname
# Or export DATABASE_URL instead.

[snapshot]
path = schema.json
# bucket = my-schema-snapshots
# prefix = %s
# region = us-east-1
`

func (c *CLI) newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a stepsql project",
		Long: `Create a starter stepsql.ini and an empty migrations directory in the
current directory (or the directory given with --config).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing stepsql.ini")

	return cmd
}

func (c *CLI) runInit(force bool) error {
	dir := c.cfg.ConfigDir
	iniPath := filepath.Join(dir, config.ConfigFilename)

	if _, err := os.Stat(iniPath); err == nil && !force {
		return usagef("%s already exists in %s\n  Hint: Pass --force to overwrite it", config.ConfigFilename, dir)
	}

	name := filepath.Base(dir)
	content := fmt.Sprintf(starterINI, name, name)
	if err := os.WriteFile(iniPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFilename, err)
	}

	migrationsDir := filepath.Join(dir, "migrations")
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}

	c.printf("✓ Created %s\n", config.ConfigFilename)
	c.printf("✓ Created migrations/\n")
	c.println()
	c.println("Next steps:")
	c.println("  1. Set [db] url in stepsql.ini, or export DATABASE_URL")
	c.println("  2. Create your first migration:")
	c.println("       stepsql new create_users")
	c.println("  3. Apply it:")
	c.println("       stepsql up")

	return nil
}
