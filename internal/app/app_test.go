package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/galley/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func build(t *testing.T, body string, opts Options) (*Runtime, *bytes.Buffer) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var logs bytes.Buffer
	opts.ConfigPath = writeConfig(t, body)
	opts.LogWriter = &logs
	rt, err := Build(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })
	return rt, &logs
}

func TestBuild_AppliesOverrides(t *testing.T) {
	rt, _ := build(t, `endpoint = "https://example.com/a.json"`, Options{
		Endpoint: "https://example.com/b.json",
		Listen:   ":9999",
	})

	assert.Equal(t, "https://example.com/b.json", rt.Service.Endpoint())
	assert.Equal(t, ":9999", rt.Config.Listen)
	assert.NotNil(t, rt.Thumbs, "memory previews are on by default")
	assert.Empty(t, rt.LogPath)
}

func TestBuild_PreviewsOff(t *testing.T) {
	rt, _ := build(t, "[thumbnails]\nbackend = \"off\"", Options{})
	assert.Nil(t, rt.Thumbs)
}

func TestBuild_DiskBackendCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "thumbs")
	rt, _ := build(t, "[thumbnails]\nbackend = \"disk\"\ndir = \""+filepath.ToSlash(dir)+"\"", Options{})

	require.NotNil(t, rt.Thumbs)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestBuild_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rt, logs := build(t, "[thumbnails]\nbackend = \"redis\"\nredis_url = \"redis://"+mr.Addr()+"/0\"", Options{})

	require.NotNil(t, rt.Thumbs)
	assert.Len(t, rt.closers, 1)
	assert.NotContains(t, logs.String(), "using memory")
}

func TestBuild_RedisUnavailableFallsBack(t *testing.T) {
	rt, logs := build(t, "[thumbnails]\nbackend = \"redis\"\nredis_url = \"redis://127.0.0.1:1/0\"", Options{})

	require.NotNil(t, rt.Thumbs)
	assert.Empty(t, rt.closers)
	assert.Contains(t, logs.String(), "thumbnail redis cache unavailable, using memory")
}

func TestBuild_LogsToConfiguredFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	logFile := filepath.Join(t.TempDir(), "state", "galley.log")
	path := writeConfig(t, "log_file = \""+filepath.ToSlash(logFile)+"\"")

	rt, err := Build(context.Background(), Options{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, logFile, rt.LogPath)
	require.NoError(t, rt.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INF]")
	assert.Contains(t, string(data), "galley starting")
}

func TestBuild_BadConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, err := Build(context.Background(), Options{ConfigPath: writeConfig(t, `endpoint = [`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestBuild_LogOffDiscards(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	rt, err := Build(context.Background(), Options{ConfigPath: writeConfig(t, `log_level = "off"`)})
	require.NoError(t, err)
	defer rt.Close()
	assert.Empty(t, rt.LogPath)
	assert.Equal(t, config.BackendMemory, rt.Config.Thumbnails.Backend)
}
