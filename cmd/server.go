package cmd

import (
	"BeatWave/server"

	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the BeatWave server",
	Long:  `Start the BeatWave HTTP server: the beat ledger API, the event stream and stored content serving.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
