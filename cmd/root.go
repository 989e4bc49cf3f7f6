package cmd

import (
	"fmt"
	"os"

	"wavehub/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wavehub",
	Short: "wavehub is a social music-sharing service.",
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
