package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/dbstrings"
	"github.com/stepsql/stepsql/ddl"
	"github.com/stepsql/stepsql/migrate"
)

func (c *CLI) newNewCmd() *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "new <name> [column:type[:length]...]",
		Short: "Create a timestamped migration script",
		Long: `Create a migration script named TIMESTAMP_name.sql in the migrations
directory. Column specs generate guarded ADD COLUMN statements against the
--table; without specs the script is an empty skeleton.

Types: string, text, integer, bigint, boolean, decimal, float, datetime,
timestamp, binary, json. string takes an optional length (default 255),
decimal takes precision,scale.

Example:
  stepsql new add_profile_fields_to_users full_name country:string:100 phone_number:string:20`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runNew(table, args[0], args[1:])
		},
	}

	cmd.Flags().StringVar(&table, "table", "users", "table the column specs alter")

	return cmd
}

func (c *CLI) runNew(table, rawName string, specs []string) error {
	name := dbstrings.NormalizeName(rawName)
	if name == "" {
		return usagef("invalid migration name %q", rawName)
	}

	content, err := renderMigration(table, name, specs)
	if err != nil {
		return &usageError{err}
	}

	dir := c.cfg.MigrationsPath()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create migrations directory: %w", err)
	}

	filename := migrate.NewName(name) + ".sql"
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err == nil {
		return usagef("migration %s already exists", filename)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write migration: %w", err)
	}

	c.printf("✓ Created %s\n", filepath.Join(c.cfg.Migrations.Dir, filename))
	return nil
}

// renderMigration builds the script body. Statements use bare identifiers
// and portable column types so the same file runs on postgres, mysql, and
// sqlite; the engine strips the guard on dialects without native support.
func renderMigration(table, name string, specs []string) (string, error) {
	var sb strings.Builder
	sb.WriteString("-- ")
	sb.WriteString(name)
	sb.WriteString("\n")

	if len(specs) == 0 {
		sb.WriteString("-- Write additive statements only: CREATE TABLE IF NOT EXISTS,\n")
		sb.WriteString("-- ALTER TABLE ... ADD COLUMN IF NOT EXISTS, CREATE INDEX IF NOT EXISTS.\n")
		return sb.String(), nil
	}

	if table == "" || dbstrings.NormalizeName(table) != table {
		return "", fmt.Errorf("invalid table name %q: must be lowercase snake_case", table)
	}

	for _, spec := range specs {
		col, err := ddl.ParseColumnSpec(spec)
		if err != nil {
			return "", err
		}
		sb.WriteString(fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s;\n",
			table, col.Name, ddl.ColumnType(ddl.Postgres, col)))
	}

	return sb.String(), nil
}
