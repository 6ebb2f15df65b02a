package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/publish"
)

func (c *CLI) newSnapshotCmd() *cobra.Command {
	var doPublish bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the live schema to schema.json",
		Long: `Introspect the connected database and write its schema to the configured
snapshot path. With --publish the file is also uploaded to the configured S3
bucket using AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY from the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSnapshot(cmd.Context(), doPublish)
		},
	}

	cmd.Flags().BoolVar(&doPublish, "publish", false, "upload the snapshot to S3")

	return cmd
}

func (c *CLI) runSnapshot(ctx context.Context, doPublish bool) error {
	if c.cfg.Snapshot.Path == "" {
		return usagef("no snapshot path configured\n  Hint: Set path under [snapshot] in stepsql.ini")
	}

	db, dialect, err := c.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := c.writeSnapshot(ctx, db, dialect); err != nil {
		return err
	}

	if !doPublish {
		return nil
	}

	if c.cfg.Snapshot.Bucket == "" {
		return usagef("no snapshot bucket configured\n  Hint: Set bucket (and region) under [snapshot] in stepsql.ini")
	}

	publisher, err := publish.NewS3Publisher(c.cfg.Snapshot.Bucket, c.cfg.Snapshot.Prefix, c.cfg.Snapshot.Region)
	if err != nil {
		return &usageError{err}
	}

	data, err := os.ReadFile(c.cfg.SnapshotPath())
	if err != nil {
		return err
	}
	key := filepath.Base(c.cfg.Snapshot.Path)
	if err := publisher.Put(ctx, key, data); err != nil {
		return err
	}

	c.printf("✓ Published %s to s3://%s\n", key, c.cfg.Snapshot.Bucket)
	return nil
}
