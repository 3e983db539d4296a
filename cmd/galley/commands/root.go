package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/galley/internal/app"
)

var (
	version string
	commit  string
	date    string

	configPath string
	prefsPath  string
	endpoint   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "galley",
	Short: "Galley - recipe feed browser",
	Long: `Galley fetches a JSON recipe feed and lets you browse it.

Run without a subcommand to open the terminal browser. Use "galley list" to
print the feed once, or "galley serve" to expose it over HTTP.`,
	Version: version,
	RunE:    runBrowse,
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ~/.config/galley/config.toml)")
	flags.StringVar(&prefsPath, "prefs", "", "preferences file (default ~/.config/galley/prefs.toml)")
	flags.StringVar(&endpoint, "endpoint", "", "recipe feed URL, overrides the config file")
}

func appOptions() app.Options {
	return app.Options{
		ConfigPath: configPath,
		PrefsPath:  prefsPath,
		Endpoint:   endpoint,
		Version:    version,
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
