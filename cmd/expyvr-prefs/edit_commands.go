package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var appData bool

	cmd := &cobra.Command{
		Use:   "get <section.key>",
		Short: "Print a single preference value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}
			doc := m.UserPrefs()
			if appData {
				doc = m.AppData()
			}
			value, ok := doc.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%s is not set in %s", args[0], doc.Path)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
			return nil
		},
	}
	cmd.Flags().BoolVar(&appData, "appdata", false, "Read from the application data document")
	return cmd
}

func newSetCommand(ctx *commandContext) *cobra.Command {
	var appData bool

	cmd := &cobra.Command{
		Use:   "set <section.key> <value>",
		Short: "Change a preference value and save it",
		Long: "Change a preference value and save it. The value is read as a TOML value\n" +
			"(numbers, true/false, [lists]) and falls back to a plain string; it must\n" +
			"satisfy the schema check for the key.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}
			location, raw := args[0], args[1]

			doc := m.UserPrefs()
			save := m.SaveUserPrefs
			if appData {
				doc = m.AppData()
				save = m.SaveAppData
				err = doc.SetValue(location, raw)
			} else {
				err = m.Set(location, raw)
			}
			if err != nil {
				return err
			}
			if err := save(); err != nil {
				return fmt.Errorf("save %s: %w", doc.Path, err)
			}

			value, _ := doc.Lookup(location)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s = %s to %s\n", location, formatValue(value), doc.Path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&appData, "appdata", false, "Edit the application data document")
	return cmd
}
