package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var installFlag string
	var logLevelFlag string
	var logFormatFlag string

	ctx := newCommandContext(&installFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:           "expyvr-prefs",
		Short:         "Inspect and edit ExpyVR preferences",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureManager()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&installFlag, "install-dir", "", "ExpyVR install directory (default $EXPYVR_HOME or the executable's directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (default $EXPYVR_LOG_LEVEL or warn)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "console", "Log format: console or json")

	rootCmd.AddCommand(newPathsCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newGetCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newValidateCommand(ctx))
	rootCmd.AddCommand(newSaveCommand(ctx))
	rootCmd.AddCommand(newResetCommand(ctx))
	rootCmd.AddCommand(newProxyCommand(ctx))
	rootCmd.AddCommand(newInstallSpecsCommand(ctx))

	return rootCmd
}
