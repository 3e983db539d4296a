package commands

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/galley/internal/app"
	"github.com/five82/galley/internal/printer"
)

var (
	serveListen  string
	serveRefresh time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recipe feed over HTTP",
	Long: `Load the feed and serve it as JSON until interrupted.

Endpoints:
  GET  /healthz
  GET  /api/state
  GET  /api/recipes?cuisine=&q=
  GET  /api/recipes/{id}
  GET  /api/recipes/{id}/thumbnail
  POST /api/refresh[?wait=true]

Logs are written to stderr.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address, overrides the config file")
	serveCmd.Flags().DurationVar(&serveRefresh, "refresh", 0, "reload the feed on this interval (e.g. 10m)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	opts := appOptions()
	opts.Listen = serveListen
	opts.RefreshEvery = serveRefresh
	opts.LogWriter = os.Stderr

	if err := app.Serve(ctx, opts); err != nil {
		return printer.Error("Server stopped with an error", err.Error(), []string{
			"Check that the listen address is free, or pass --listen",
		})
	}
	return nil
}
