package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/galley/internal/app"
	"github.com/five82/galley/internal/printer"
	"github.com/five82/galley/internal/recipe"
	"github.com/five82/galley/internal/state"
)

const feedJSON = `{"recipes":[
	{"cuisine":"Malaysian","name":"Apam Balik","photo_url_large":"https://example.com/1l.jpg",
	 "photo_url_small":"https://example.com/1s.jpg","uuid":"1"},
	{"cuisine":"British","name":"Bakewell Tart","photo_url_large":"","photo_url_small":"","uuid":"2"}
]}`

// setupList points a list run at a test server and captures printer output.
func setupList(t *testing.T, handler http.HandlerFunc) (app.Options, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("log_level = \"off\"\n[thumbnails]\nbackend = \"off\"\n"), 0o600))

	prevNoColor := color.NoColor
	color.NoColor = true
	var out, errOut bytes.Buffer
	restore := printer.SetOutput(&out, &errOut)

	prevJSON, prevCuisine, prevTimeout := listJSON, listCuisine, listTimeout
	t.Cleanup(func() {
		restore()
		color.NoColor = prevNoColor
		listJSON, listCuisine, listTimeout = prevJSON, prevCuisine, prevTimeout
	})
	listTimeout = defaultListTimeout

	return app.Options{ConfigPath: cfg, Endpoint: srv.URL + "/recipes.json"}, &out, &errOut
}

func serveBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}
}

func TestListRecipes_PrintsTable(t *testing.T) {
	opts, out, _ := setupList(t, serveBody(feedJSON))

	require.NoError(t, listRecipes(context.Background(), opts, out))
	text := out.String()
	assert.Contains(t, text, "✓ 2 recipes loaded")
	assert.Contains(t, text, "Apam Balik")
	assert.Contains(t, text, "Bakewell Tart")
}

func TestListRecipes_JSONWithCuisine(t *testing.T) {
	opts, out, _ := setupList(t, serveBody(feedJSON))
	listJSON = true
	listCuisine = "british"

	require.NoError(t, listRecipes(context.Background(), opts, out))

	var got struct {
		Recipes []recipe.Recipe `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got.Recipes, 1)
	assert.Equal(t, "2", got.Recipes[0].ID)
}

func TestListRecipes_ReportsFailure(t *testing.T) {
	opts, out, errOut := setupList(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	err := listRecipes(context.Background(), opts, out)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to load recipes"), err.Error())
	assert.Contains(t, errOut.String(), "Check your network connection")
	assert.Empty(t, out.String())
}

func TestListRecipes_ReportsDecodeFailure(t *testing.T) {
	opts, out, errOut := setupList(t, serveBody(`{"recipes":[{"name":"no id"}]}`))

	err := listRecipes(context.Background(), opts, out)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to parse data"), err.Error())
	assert.Contains(t, errOut.String(), "decode_policy")
}

func TestListRecipes_BadEndpoint(t *testing.T) {
	opts, out, _ := setupList(t, serveBody(feedJSON))
	opts.Endpoint = "not a url"

	err := listRecipes(context.Background(), opts, out)
	require.Error(t, err)
	assert.Equal(t, "Invalid URL", err.Error())
}

func TestFilterCuisine(t *testing.T) {
	feed := recipe.Feed{{ID: "1", Cuisine: "British"}, {ID: "2", Cuisine: "Thai"}}
	assert.Len(t, filterCuisine(feed, ""), 2)
	assert.Len(t, filterCuisine(feed, " thai "), 1)
	assert.Empty(t, filterCuisine(feed, "French"))
}

func TestFailureSuggestions(t *testing.T) {
	assert.NotEmpty(t, failureSuggestions(state.InvalidEndpoint))
	assert.Len(t, failureSuggestions(state.TransportFailure), 2)
	assert.NotEmpty(t, failureSuggestions(state.DecodeFailure))
	assert.Nil(t, failureSuggestions(state.NoError))
}

func TestOutputJSON_EmptyFeed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, outputJSON(&buf, nil))
	assert.JSONEq(t, `{"recipes":[]}`, buf.String())
}
