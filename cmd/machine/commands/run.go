package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/svsamipillai/machine/internal/app"
	"github.com/svsamipillai/machine/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <machine>",
		Short: "Execute a machine, serving a fresh cached result when one exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			noCache, _ := cmd.Flags().GetBool("no-cache")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			rawInputs, _ := cmd.Flags().GetStringArray("input")

			inputs, err := parseInputs(rawInputs)
			if err != nil {
				return err
			}

			res, err := c.app.Run(cmd.Context(), args[0], inputs, app.RunOptions{
				File:    file,
				NoCache: noCache,
				TTL:     ttl,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "exit: %s\n", res.Outcome.Exit)
			if res.Outcome.Value != nil {
				_, _ = fmt.Fprintf(out, "%v\n", res.Outcome.Value)
			}
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", defaultFile, "Path to the machines file")
	cmd.Flags().StringArrayP("input", "i", nil, "Machine input as key=value (repeatable)")
	cmd.Flags().BoolP("no-cache", "n", false, "Bypass the cache and force execution")
	cmd.Flags().Duration("ttl", 0, "Override the machine's cache freshness window")
	return cmd
}

// parseInputs converts repeated key=value flags into machine inputs.
func parseInputs(raw []string) (domain.Inputs, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	inputs := make(domain.Inputs, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, zerr.With(domain.ErrInvalidInputFlag, "flag", pair)
		}
		inputs[key] = value
	}
	return inputs, nil
}
