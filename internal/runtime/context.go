package runtime

import (
	"context"
	"fmt"
	"io"
	"sync"

	"gitpusher.dev/gitpusher/internal/config"
	"gitpusher.dev/gitpusher/internal/github"
	"gitpusher.dev/gitpusher/internal/pipeline"
	"gitpusher.dev/gitpusher/internal/tui"
)

// ClientFactory creates the GitHub client for a hostname.
// Tests replace it to point commands at a mock server.
var ClientFactory = func(ctx context.Context, hostname, token string) (github.Client, error) {
	return github.NewRealClient(ctx, hostname, token)
}

// TokenLookup finds a token when the config has none
var TokenLookup = github.LookupToken

// RefUpdateSleep waits between ref update retries
var RefUpdateSleep pipeline.Sleeper = pipeline.SleepContext

// Context carries the dependencies of one command invocation.
// It embeds the command's context.Context, so it can be passed to any blocking call.
type Context struct {
	context.Context
	Splog  *tui.Splog
	Config *config.Config

	mu      sync.Mutex
	clients map[string]github.Client
}

// NewContext creates a context with an explicit logger and config
func NewContext(ctx context.Context, splog *tui.Splog, cfg *config.Config) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{
		Context: ctx,
		Splog:   splog,
		Config:  cfg,
		clients: make(map[string]github.Client),
	}
}

// GetContext loads the effective config and opens the log file.
// Console output goes to out.
func GetContext(ctx context.Context, out io.Writer) (*Context, error) {
	cfg, err := config.LoadEffective()
	if err != nil {
		return nil, err
	}

	splog, err := tui.NewSplogWithConfig(tui.GetLogFilePath(), out)
	if err != nil {
		// File logging is best effort
		splog, _ = tui.NewSplogWithConfig("", out)
		splog.Debug("File logging disabled: %v", err)
	}

	return NewContext(ctx, splog, cfg), nil
}

// GitHubClient returns the client for hostname, creating it on first use.
// An empty hostname means the configured one.
func (c *Context) GitHubClient(hostname string) (github.Client, error) {
	if hostname == "" {
		hostname = c.Config.Hostname
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[hostname]; ok {
		return client, nil
	}

	token := c.Config.ResolvedToken()
	if token == "" {
		var err error
		token, err = TokenLookup(c, hostname)
		if err != nil {
			return nil, fmt.Errorf("no GitHub token for %s (set GITHUB_TOKEN, run 'gitpusher config set token ...' or 'gh auth login'): %w", hostname, err)
		}
	}

	client, err := ClientFactory(c, hostname, token)
	if err != nil {
		return nil, err
	}
	c.Splog.Debug("Using GitHub API for %s", hostname)
	c.clients[hostname] = client
	return client, nil
}

// Close releases the log file
func (c *Context) Close() error {
	if c.Splog == nil {
		return nil
	}
	return c.Splog.Close()
}
