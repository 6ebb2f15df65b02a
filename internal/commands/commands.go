// Package commands provides the stepsql command-line interface.
package commands

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stepsql/stepsql/dberr"
	"github.com/stepsql/stepsql/dburl"
	"github.com/stepsql/stepsql/internal/config"
	"github.com/stepsql/stepsql/logging"
	"github.com/stepsql/stepsql/project"
)

// Exit codes.
const (
	ExitSuccess  = 0
	ExitUsage    = 1 // bad arguments, validation failures, drift
	ExitDatabase = 2 // connection, schema, or permission errors
	ExitInternal = 3
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// CLI holds the command-line interface state.
type CLI struct {
	rootCmd *cobra.Command
	cfg     *config.Config

	// Global flags
	configDir  string
	dbURL      string
	dir        string
	jsonOutput bool
	quiet      bool
	debug      bool
}

// New creates a new CLI instance.
func New() *CLI {
	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

// Execute runs the CLI and maps errors to exit codes.
func (c *CLI) Execute() int {
	err := c.rootCmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	c.errorf("Error: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	var ue *usageError
	var de *databaseError
	switch {
	case errors.As(err, &ue):
		return ExitUsage
	case errors.As(err, &de), dberr.IsSchema(err), dberr.IsPermission(err):
		return ExitDatabase
	default:
		return ExitInternal
	}
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stepsql",
		Short: "stepsql - forward-only SQL schema migrations",
		Long: `stepsql applies additive, idempotent SQL migrations to a relational schema.

Migrations are plain SQL files named TIMESTAMP_name.sql, applied in timestamp
order, each exactly once per database. ADD COLUMN statements carry an
IF NOT EXISTS guard so re-running a migration never fails or duplicates
columns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&c.configDir, "config", "", "project directory containing stepsql.ini (default: CWD)")
	cmd.PersistentFlags().StringVar(&c.dbURL, "db-url", "", "database URL (overrides config)")
	cmd.PersistentFlags().StringVar(&c.dir, "dir", "", "migrations directory (overrides config)")
	cmd.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&c.quiet, "quiet", false, "suppress non-essential output")
	cmd.PersistentFlags().BoolVar(&c.debug, "debug", false, "verbose structured logs")

	cmd.AddCommand(c.newInitCmd())
	cmd.AddCommand(c.newNewCmd())
	cmd.AddCommand(c.newUpCmd())
	cmd.AddCommand(c.newApplyCmd())
	cmd.AddCommand(c.newStatusCmd())
	cmd.AddCommand(c.newVerifyCmd())
	cmd.AddCommand(c.newLintCmd())
	cmd.AddCommand(c.newSnapshotCmd())
	cmd.AddCommand(c.newWatchCmd())
	cmd.AddCommand(c.newVersionCmd())

	return cmd
}

func (c *CLI) initConfig() error {
	// Without --config, walk up from CWD so stepsql works from
	// subdirectories of a project, the way git does.
	dir := c.configDir
	if dir == "" {
		if root, err := project.FindProjectRoot(); err == nil {
			dir = root
		}
	}

	cfg, err := config.LoadOrDefault(dir)
	if err != nil {
		return &usageError{err}
	}
	c.cfg = cfg

	// Flags beat everything.
	if c.dbURL != "" {
		c.cfg.DB.URL = c.dbURL
	}
	if c.dir != "" {
		c.cfg.Migrations.Dir = c.dir
	}

	return nil
}

// openDB resolves the configured URL and opens a verified connection.
func (c *CLI) openDB(ctx context.Context) (*sql.DB, string, error) {
	url, err := c.cfg.RequireDBURL()
	if err != nil {
		return nil, "", &usageError{err}
	}

	db, dialect, err := dburl.Open(ctx, url)
	if err != nil {
		return nil, "", &databaseError{fmt.Errorf("failed to connect: %w", err)}
	}
	return db, dialect, nil
}

// logger returns the run-scoped engine logger for a dialect.
func (c *CLI) logger(dialect string) *slog.Logger {
	switch {
	case c.debug:
		return logging.WithRun(logging.DevLogger, dialect)
	case c.quiet:
		return logging.Discard
	default:
		return logging.WithRun(logging.ProdLogger, dialect)
	}
}

// Output helpers.

func (c *CLI) printf(format string, args ...interface{}) {
	if !c.quiet {
		fmt.Printf(format, args...)
	}
}

func (c *CLI) println(args ...interface{}) {
	if !c.quiet {
		fmt.Println(args...)
	}
}

func (c *CLI) errorf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func (c *CLI) outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// usageError marks bad arguments or validation failures (exit code 1).
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...interface{}) error {
	return &usageError{fmt.Errorf(format, args...)}
}

// databaseError marks failures talking to the target database (exit code 2).
type databaseError struct{ err error }

func (e *databaseError) Error() string { return e.err.Error() }
func (e *databaseError) Unwrap() error { return e.err }
