package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProxyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "proxy",
		Short: "Print the HTTP proxy configured in the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			proxy := m.AutoProxy()
			if proxy == "" {
				fmt.Fprintln(out, "No HTTP proxy configured")
				return nil
			}
			fmt.Fprintln(out, proxy)
			return nil
		},
	}
}
