package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/migrate"
)

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check applied migrations against their source scripts",
		Long: `Recompute the checksum of every source script and compare it with the
tracking table. Drift (an applied script whose file changed afterwards) and
missing sources (recorded migrations with no file) exit nonzero.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVerify(cmd.Context())
		},
	}
}

func (c *CLI) runVerify(ctx context.Context) error {
	scripts, err := migrate.LoadDir(c.cfg.MigrationsPath())
	if err != nil {
		return &usageError{err}
	}

	db, dialect, err := c.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := migrate.Verify(ctx, db, dialect, scripts)
	if err != nil {
		return &databaseError{err}
	}

	if report.Clean() {
		c.println("✓ Tracking table and migration sources agree")
		return nil
	}

	for _, d := range report.Drifted {
		c.errorf("drift: %s changed after apply (recorded %.12s, source %.12s)\n", d.Name, d.Recorded, d.Source)
	}
	for _, name := range report.Missing {
		c.errorf("missing source: %s is recorded but has no script file\n", name)
	}

	return usagef("verification failed: %d drifted, %d missing", len(report.Drifted), len(report.Missing))
}
