package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/introspect"
	"github.com/stepsql/stepsql/migrate"
)

func (c *CLI) newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Long: `Apply every pending migration script from the migrations directory, in
timestamp order, each in its own transaction. Already-applied scripts are
skipped. After a successful run the schema snapshot is refreshed when a
snapshot path is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runUp(cmd.Context())
		},
	}
}

func (c *CLI) runUp(ctx context.Context) error {
	scripts, err := migrate.LoadDir(c.cfg.MigrationsPath())
	if err != nil {
		return &usageError{err}
	}

	db, dialect, err := c.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := migrate.Up(ctx, db, dialect, scripts, c.logger(dialect))
	if err != nil {
		return &databaseError{err}
	}

	for _, name := range applied {
		c.printf("✓ Applied %s\n", name)
	}
	if len(applied) == 0 {
		c.println("Nothing to apply, database is up to date")
	} else {
		c.printf("Applied %d migration(s)\n", len(applied))
	}

	if c.cfg.Snapshot.Path != "" {
		if err := c.writeSnapshot(ctx, db, dialect); err != nil {
			return err
		}
	}

	return nil
}

// writeSnapshot introspects the live schema and writes it to the configured
// snapshot path. The tracking table is excluded.
func (c *CLI) writeSnapshot(ctx context.Context, db introspect.Querier, dialect string) error {
	schema, err := introspect.Snapshot(ctx, db, dialect, migrate.TrackingTable)
	if err != nil {
		return &databaseError{fmt.Errorf("failed to snapshot schema: %w", err)}
	}

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize schema: %w", err)
	}
	data = append(data, '\n')

	path := c.cfg.SnapshotPath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.printf("✓ Wrote %s\n", c.cfg.Snapshot.Path)
	return nil
}
