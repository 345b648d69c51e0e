package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPathsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Show resolved install and preference locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}
			set := m.Paths()
			if jsonOutput {
				return writeJSON(cmd, set)
			}

			rows := make([][]string, 0, len(set))
			for _, name := range set.Names() {
				rows = append(rows, []string{name, set[name]})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Name", "Path"}, rows, nil))
			fmt.Fprintf(out, "Read-only: %s\n", yesNo(m.ReadOnly()))
			if err := m.StorageError(); err != nil {
				fmt.Fprintf(out, "Reason: %v\n", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
