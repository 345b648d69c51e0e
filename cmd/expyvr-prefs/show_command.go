package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"expyvr/internal/prefs"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [general|keys|appdata|<section>]",
		Short: "Print preference values",
		Long: "Print preference values. With no argument the [general] section of the\n" +
			"user preferences is shown; \"keys\" shows the normalised key bindings and\n" +
			"\"appdata\" the application data document.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}
			target := "general"
			if len(args) == 1 {
				target = strings.TrimSpace(args[0])
			}

			var headers []string
			var rows [][]string
			var payload any
			switch target {
			case "keys":
				keys := m.KeyBindings()
				payload = keys
				headers = []string{"Menu item", "Binding"}
				items := make([]string, 0, len(keys))
				for item := range keys {
					items = append(items, item)
				}
				sort.Strings(items)
				for _, item := range items {
					rows = append(rows, []string{item, keys[item]})
				}
			case "appdata":
				doc := m.AppData()
				payload = doc.Data
				headers = []string{"Location", "Value"}
				rows = flattenRows(doc.Data, "")
			default:
				sec, ok := m.UserPrefs().Section(target)
				if !ok {
					return fmt.Errorf("section %q not found in %s", target, m.UserPrefs().Path)
				}
				payload = sec
				headers = []string{"Key", "Value"}
				for _, key := range prefs.SortedKeys(sec) {
					rows = append(rows, []string{key, formatValue(sec[key])})
				}
			}

			if jsonOutput {
				return writeJSON(cmd, payload)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, headers, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func flattenRows(table map[string]any, prefix string) [][]string {
	var rows [][]string
	for _, key := range prefs.SortedKeys(table) {
		location := key
		if prefix != "" {
			location = prefix + "." + key
		}
		if child, ok := table[key].(map[string]any); ok {
			rows = append(rows, flattenRows(child, location)...)
			continue
		}
		rows = append(rows, []string{location, formatValue(table[key])})
	}
	return rows
}
