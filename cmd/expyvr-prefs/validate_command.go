package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expyvr/internal/prefs"
)

type discrepancyView struct {
	Document string `json:"document"`
	Location string `json:"location"`
	Kind     string `json:"kind"`
	Detail   string `json:"detail"`
	Action   string `json:"action"`
}

type validateView struct {
	Valid       bool              `json:"valid"`
	Problems    []discrepancyView `json:"problems"`
	KeyBindings []string          `json:"key_bindings,omitempty"`
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report what validation found in the stored preferences",
		Long: "Report every value in userPrefs.cfg and appData.cfg that did not satisfy\n" +
			"its schema and what repair did about it. Nothing is written; run `save`\n" +
			"to store the repaired documents.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := ctx.ensureManager()
			if err != nil {
				return err
			}

			view := validateView{Problems: []discrepancyView{}}
			for _, doc := range []*prefs.Document{m.UserPrefs(), m.AppData()} {
				view.Problems = append(view.Problems, describeReport(doc)...)
			}
			for _, problem := range m.KeyBindingProblems() {
				view.KeyBindings = append(view.KeyBindings, problem.String())
			}
			view.Valid = len(view.Problems) == 0 && len(view.KeyBindings) == 0

			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			if view.Valid {
				fmt.Fprintln(out, "All preferences valid")
				return nil
			}
			if len(view.Problems) > 0 {
				rows := make([][]string, 0, len(view.Problems))
				for _, p := range view.Problems {
					rows = append(rows, []string{p.Document, p.Location, p.Kind, p.Detail, p.Action})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Document", "Location", "Kind", "Detail", "Action"}, rows, nil))
			}
			for _, line := range view.KeyBindings {
				fmt.Fprintf(out, "Key binding: %s (defaults used)\n", line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func describeReport(doc *prefs.Document) []discrepancyView {
	unresolved := make(map[string]struct{}, len(doc.Report.Unresolved))
	for _, d := range doc.Report.Unresolved {
		unresolved[d.Location()] = struct{}{}
	}

	views := make([]discrepancyView, 0, len(doc.Report.Found.Discrepancies))
	for _, d := range doc.Report.Found.Discrepancies {
		action := "repaired"
		if _, ok := unresolved[d.Location()]; ok {
			action = "left unset"
		}
		views = append(views, discrepancyView{
			Document: doc.Name,
			Location: d.Location(),
			Kind:     string(d.Kind),
			Detail:   d.Detail,
			Action:   action,
		})
	}
	return views
}
