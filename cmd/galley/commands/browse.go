package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/galley/internal/app"
	"github.com/five82/galley/internal/printer"
)

var browseRefresh time.Duration

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse recipes in the terminal",
	Long: `Open the terminal recipe browser. This is also what "galley" runs
with no subcommand.

The feed loads on start; press r to reload and ? for all key bindings.
Logs go to log_file from the config so they do not draw over the screen.`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().DurationVar(&browseRefresh, "refresh", 0, "reload the feed on this interval (e.g. 10m)")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	opts := appOptions()
	opts.RefreshEvery = browseRefresh
	if err := app.Run(ctx, opts); err != nil {
		return printer.Error("Galley stopped with an error", err.Error(), nil)
	}
	return nil
}
