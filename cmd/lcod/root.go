// Package main implements the lcod command-line entry point: run and
// validate compose documents against the registered component set.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lcod-team/lcod-kernel-go/types"
)

var version = "0.0.0-dev"

// newRootCommand constructs the lcod root command, wiring the run and
// validate subcommands.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lcod",
		Short:         "lcod runs and validates component-composition documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("log-level", "l", os.Getenv("LCOD_LOG_LEVEL"), "minimum kernel log level (trace|debug|info|warn|error|fatal)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("lcod version " + version)
		},
	})
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newValidateCommand())

	return cmd
}

func logLevelFlag(cmd *cobra.Command) types.Level {
	s, _ := cmd.Flags().GetString("log-level")
	if s == "" {
		return types.LevelInfo
	}
	return types.ParseLevel(s)
}
