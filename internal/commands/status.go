package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/migrate"
)

func (c *CLI) newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStatus(cmd.Context())
		},
	}
}

type statusJSON struct {
	Applied []statusRow `json:"applied"`
	Pending []string    `json:"pending"`
}

type statusRow struct {
	Name      string `json:"name"`
	Checksum  string `json:"checksum"`
	AppliedAt string `json:"applied_at"`
}

func (c *CLI) runStatus(ctx context.Context) error {
	scripts, err := migrate.LoadDir(c.cfg.MigrationsPath())
	if err != nil {
		return &usageError{err}
	}

	db, dialect, err := c.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	report, err := migrate.Status(ctx, db, dialect, scripts)
	if err != nil {
		return &databaseError{err}
	}

	if c.jsonOutput {
		out := statusJSON{Applied: []statusRow{}, Pending: []string{}}
		for _, rec := range report.Applied {
			out.Applied = append(out.Applied, statusRow{
				Name:      rec.Name,
				Checksum:  rec.Checksum,
				AppliedAt: rec.AppliedAt.UTC().Format(time.RFC3339),
			})
		}
		for _, sc := range report.Pending {
			out.Pending = append(out.Pending, sc.Name)
		}
		return c.outputJSON(out)
	}

	if len(report.Applied) > 0 {
		c.println("Applied:")
		for _, rec := range report.Applied {
			c.printf("  ✓ %s  (%s)\n", rec.Name, rec.AppliedAt.UTC().Format("2006-01-02 15:04:05"))
		}
	}
	if len(report.Pending) > 0 {
		c.println("Pending:")
		for _, sc := range report.Pending {
			c.printf("  - %s\n", sc.Name)
		}
	}
	if len(report.Applied) == 0 && len(report.Pending) == 0 {
		c.println("No migrations found")
	}

	return nil
}
