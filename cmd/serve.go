package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/ecodispatch/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dispatch HTTP API",
	RunE: func(*cobra.Command, []string) error {
		ctx, stop := signalContext()
		defer stop()
		return withService(func(svc *app.Service) error {
			return svc.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
