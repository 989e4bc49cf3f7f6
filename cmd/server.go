package cmd

import (
	"wavehub/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the wavehub HTTP server",
	Long:  `Start the wavehub API server: registration, track upload, catalog browsing, and playlists.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
