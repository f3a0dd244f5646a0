package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the machines defined in the machines file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, _ := cmd.Flags().GetString("file")

			registry, err := c.app.List(file)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range registry.Names() {
				m, err := registry.Get(name)
				if err != nil {
					return err
				}
				if m.Description != "" {
					_, _ = fmt.Fprintf(out, "%s\t%s\n", name, m.Description)
				} else {
					_, _ = fmt.Fprintln(out, name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", defaultFile, "Path to the machines file")
	return cmd
}
