package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/galley/internal/app"
	"github.com/five82/galley/internal/printer"
	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/state"
)

const defaultListTimeout = 30 * time.Second

var (
	listJSON    bool
	listCuisine string
	listTimeout time.Duration
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Fetch the feed and print its recipes",
	Long: `Fetch the recipe feed once and print every recipe.

For each recipe, displays:
  • Name
  • Cuisine
  • ID

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listCuisine, "cuisine", "", "only show recipes of this cuisine")
	listCmd.Flags().DurationVar(&listTimeout, "timeout", defaultListTimeout, "give up after this long")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()
	opts := appOptions()
	opts.LogWriter = cmd.ErrOrStderr()
	return listRecipes(ctx, opts, cmd.OutOrStdout())
}

func listRecipes(ctx context.Context, opts app.Options, out io.Writer) error {
	rt, err := app.Build(ctx, opts)
	if err != nil {
		return printer.Error("Failed to load configuration", err.Error(), []string{
			"Fix the config file or pass --config to use another one",
		})
	}
	defer rt.Close()

	waitCtx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	st, err := rt.Service.Fetch(waitCtx).Wait(waitCtx)
	if err != nil {
		return printer.Error("Timed out waiting for recipes", err.Error(), []string{
			"Retry with a longer --timeout",
		})
	}
	if st.Phase == state.Failed {
		return printer.Error(st.Err, fmt.Sprintf("Endpoint: %s", rt.Config.Endpoint), failureSuggestions(st.Kind))
	}

	feed := filterCuisine(st.Feed, listCuisine)
	if listJSON {
		return outputJSON(out, feed)
	}
	printer.Status(st)
	printer.Recipes(feed)
	return nil
}

func filterCuisine(feed recipe.Feed, cuisine string) recipe.Feed {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return feed
	}
	out := make(recipe.Feed, 0, len(feed))
	for _, r := range feed {
		if strings.EqualFold(r.Cuisine, cuisine) {
			out = append(out, r)
		}
	}
	return out
}

func failureSuggestions(kind state.ErrorKind) []string {
	switch kind {
	case state.InvalidEndpoint:
		return []string{"Set endpoint in the config file or pass --endpoint with an http(s) URL"}
	case state.TransportFailure:
		return []string{
			"Check your network connection",
			"Verify the endpoint is reachable",
		}
	case state.EmptyBody, state.DecodeFailure:
		return []string{`Set decode_policy = "skip" to drop malformed recipes`}
	}
	return nil
}

func outputJSON(w io.Writer, feed recipe.Feed) error {
	if feed == nil {
		feed = recipe.Feed{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Recipes recipe.Feed `json:"recipes"`
	}{feed})
}
