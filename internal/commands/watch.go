package commands

import (
	"context"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces editor write bursts into one re-run.
const watchDebounce = 300 * time.Millisecond

// debouncer coalesces a burst of triggers into a single receive on C.
// C is nil until the first trigger, so it never fires in a select before then.
type debouncer struct {
	timer *time.Timer
	C     <-chan time.Time
}

// trigger arms the timer, restarting the delay if already armed.
func (d *debouncer) trigger(delay time.Duration) {
	if d.timer == nil {
		d.timer = time.NewTimer(delay)
		d.C = d.timer.C
	} else {
		d.timer.Reset(delay)
	}
}

// fired clears the armed state after a receive on C.
func (d *debouncer) fired() {
	d.timer = nil
	d.C = nil
}

// stop releases the timer so an armed debouncer does not outlive its loop.
func (d *debouncer) stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-apply pending migrations when the directory changes",
		Long: `Watch the migrations directory and run 'up' whenever a .sql file is
written, created, or renamed. Intended for local development; stop with
Ctrl-C. Failed runs are reported and watching continues.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runWatch(cmd.Context())
		},
	}
}

func (c *CLI) runWatch(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := c.cfg.MigrationsPath()
	if err := watcher.Add(dir); err != nil {
		return usagef("failed to watch %s: %v", dir, err)
	}

	// Catch up before the first event.
	if err := c.runUp(ctx); err != nil {
		c.errorf("up failed: %v\n", err)
	}
	c.printf("Watching %s (Ctrl-C to stop)\n", c.cfg.Migrations.Dir)

	var deb debouncer
	defer deb.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".sql") {
				continue
			}
			// Watch for atomic saves (rename-over) as well as plain writes.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				deb.trigger(watchDebounce)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.errorf("watch error: %v\n", err)

		case <-deb.C:
			deb.fired()
			if err := c.runUp(ctx); err != nil {
				c.errorf("up failed: %v\n", err)
			}
		}
	}
}
