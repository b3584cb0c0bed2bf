package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/habedi/findstream/client"
	"github.com/habedi/findstream/config"
	"github.com/habedi/findstream/metrics"
	"github.com/habedi/findstream/search"
	"github.com/rs/zerolog/log"
)

type fakeSource struct {
	mu      sync.Mutex
	streams map[client.Category][]client.Stream
	err     error
	calls   []client.Category
}

func (f *fakeSource) GetAllStreams(ctx context.Context, category client.Category) ([]client.Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, category)
	if f.err != nil {
		return nil, f.err
	}
	return f.streams[category], nil
}

// useSource swaps the Twitch client factory for one returning source (or err).
func useSource(t *testing.T, source search.StreamSource, err error) *bool {
	t.Helper()
	created := false
	previous := newStreamSource
	newStreamSource = func(ctx context.Context, settings config.Settings, m *metrics.Metrics) (search.StreamSource, error) {
		created = true
		if err != nil {
			return nil, err
		}
		return source, nil
	}
	t.Cleanup(func() { newStreamSource = previous })
	return &created
}

// withCredentials supplies credentials through the environment and returns
// a --config flag pointing at a file that does not exist.
func withCredentials(t *testing.T) []string {
	t.Helper()
	t.Setenv(config.EnvClientID, "id")
	t.Setenv(config.EnvClientSecret, "secret")
	t.Setenv(config.EnvConfigPath, "")
	return []string{"--config", filepath.Join(t.TempDir(), "missing.toml")}
}

func runCLI(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	rootCmd := createRootCmd()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func cmdStreams() map[client.Category][]client.Stream {
	return map[client.Category][]client.Stream{
		client.Art: {
			{UserName: "painter", Title: "Pixel art", Language: "en", ViewerCount: 7},
			{UserName: "potter", Title: "Clay", Language: "en", ViewerCount: 2},
		},
		client.Music: {
			{UserName: "pianist", Title: "lofi PIXEL beats", Language: "de", ViewerCount: 30},
		},
	}
}
