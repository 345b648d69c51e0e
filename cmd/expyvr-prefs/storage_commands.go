package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expyvr/internal/paths"
)

func newSaveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Validate and write user preferences and application data",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}
			if err := m.SaveUserPrefs(); err != nil {
				return fmt.Errorf("save user preferences: %w", err)
			}
			if err := m.SaveAppData(); err != nil {
				return fmt.Errorf("save application data: %w", err)
			}
			set := m.Paths()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s\n", set[paths.UserPrefsFile])
			fmt.Fprintf(out, "Wrote %s\n", set[paths.KeyBindingsFile])
			fmt.Fprintf(out, "Wrote %s\n", set[paths.AppDataFile])
			return nil
		},
	}
}

func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete user preferences and key bindings so defaults apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}
			removed, err := m.ResetUserPrefs()
			if err != nil {
				return fmt.Errorf("reset user preferences: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(removed) == 0 {
				fmt.Fprintln(out, "Nothing to reset; defaults already apply")
				return nil
			}
			for _, path := range removed {
				fmt.Fprintf(out, "Removed %s\n", path)
			}
			fmt.Fprintln(out, "User preferences and key bindings reset to defaults")
			return nil
		},
	}
}
