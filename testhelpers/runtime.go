package testhelpers

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"gitpusher.dev/gitpusher/internal/config"
	githubpkg "gitpusher.dev/gitpusher/internal/github"
	"gitpusher.dev/gitpusher/internal/runtime"
	"gitpusher.dev/gitpusher/internal/tui"
)

// TestEmail is the author email NewTestContext configures
const TestEmail = "dev@example.com"

// StubGitHub points every runtime GitHub client at a mock server built from mock.
// The original factories are restored when the test ends.
func StubGitHub(t *testing.T, mock *MockGitHubServerConfig) {
	t.Helper()
	client, _, _ := NewMockClient(t, mock)

	prevFactory, prevLookup := runtime.ClientFactory, runtime.TokenLookup
	runtime.ClientFactory = func(context.Context, string, string) (githubpkg.Client, error) {
		return client, nil
	}
	runtime.TokenLookup = func(context.Context, string) (string, error) {
		return "test-token", nil
	}
	t.Cleanup(func() {
		runtime.ClientFactory = prevFactory
		runtime.TokenLookup = prevLookup
	})
}

// RecordRefUpdateSleeps makes ref update retries return immediately and
// records the delays they asked for
func RecordRefUpdateSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	delays := &[]time.Duration{}

	prev := runtime.RefUpdateSleep
	runtime.RefUpdateSleep = func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
	t.Cleanup(func() { runtime.RefUpdateSleep = prev })
	return delays
}

// NewTestContext returns a runtime context in an isolated scene whose console
// output is captured and whose GitHub client talks to mock
func NewTestContext(t *testing.T, mock *MockGitHubServerConfig) (*runtime.Context, *bytes.Buffer) {
	t.Helper()
	scene := NewScene(t, nil)
	t.Setenv("GITPUSHER_NO_INTERACTIVE", "1")
	StubGitHub(t, mock)

	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig("", &out)
	if err != nil {
		t.Fatalf("failed to create splog: %v", err)
	}
	cfg, err := config.Load(filepath.Join(scene.Home, ".gitpusher", "config.yaml"))
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	cfg.Email = TestEmail

	return runtime.NewContext(context.Background(), splog, cfg), &out
}
