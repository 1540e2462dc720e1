package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Version is the CLI's own version string, set by build flags.
	Version = "0.1.0-dev"

	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "thor",
	Short:        "thor is the interpreter for the thor scripting language",
	Version:      Version,
	SilenceUsage: true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
