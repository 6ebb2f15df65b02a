package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.jsonOutput {
				return c.outputJSON(map[string]string{
					"version": Version,
					"commit":  GitCommit,
					"built":   BuildDate,
				})
			}
			c.printf("stepsql %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
			return nil
		},
	}
}
