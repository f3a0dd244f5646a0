package commands

import (
	"github.com/spf13/cobra"
	"github.com/svsamipillai/machine/internal/app"
)

func (c *CLI) newPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune <machine>",
		Short: "Remove stale cache entries for a machine's inputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			rawInputs, _ := cmd.Flags().GetStringArray("input")

			inputs, err := parseInputs(rawInputs)
			if err != nil {
				return err
			}

			return c.app.Prune(cmd.Context(), args[0], inputs, app.PruneOptions{
				File: file,
				TTL:  ttl,
			})
		},
	}

	cmd.Flags().StringP("file", "f", defaultFile, "Path to the machines file")
	cmd.Flags().StringArrayP("input", "i", nil, "Machine input as key=value (repeatable)")
	cmd.Flags().Duration("ttl", 0, "Override the machine's cache freshness window")
	return cmd
}
