package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"expyvr/internal/configspec"
	"expyvr/internal/platform"
)

func newInstallSpecsCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "install-specs",
		Short:       "Write the bundled schema files into the install directory",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ctx.installDir()
			if dir == "" {
				env, err := platform.Detect()
				if err != nil {
					return fmt.Errorf("detect install directory: %w", err)
				}
				dir = env.InstallDir
			}

			written, err := configspec.InstallDefaults(dir, overwrite)
			if err != nil {
				return fmt.Errorf("install schemas: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(written) == 0 {
				fmt.Fprintf(out, "Schemas already present in %s (use --overwrite to replace them)\n", dir)
				return nil
			}
			for _, path := range written {
				fmt.Fprintf(out, "Wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace schema files that already exist")
	return cmd
}
