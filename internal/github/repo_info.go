package github

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

// DefaultHostname is the public GitHub host
const DefaultHostname = "github.com"

// ghCommandTimeout bounds the `gh auth token` fallback
const ghCommandTimeout = 10 * time.Second

// RepoInfo contains a parsed repository reference
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// String returns owner/repo
func (r RepoInfo) String() string {
	return r.Owner + "/" + r.Repo
}

// ParseRepository parses a repository argument into hostname, owner and repo.
// Accepted forms:
//   - owner/repo
//   - https://github.com/owner/repo(.git)
//   - git@github.com:owner/repo(.git)
//   - https://github.company.com/owner/repo
//
// The hostname defaults to github.com for the short form.
func ParseRepository(arg string) (*RepoInfo, error) {
	arg = strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(arg), "/"), ".git")

	var (
		info *RepoInfo
		err  error
	)
	switch {
	case strings.Contains(arg, "@"):
		info, err = parseSSHRepository(arg)
	case strings.Contains(arg, "://"):
		info, err = parseURLRepository(arg)
	default:
		info, err = repoFromPath(DefaultHostname, arg, true)
	}
	if err != nil {
		return nil, err
	}

	if info.Hostname == "" || info.Owner == "" || info.Repo == "" {
		return nil, fmt.Errorf("%w: failed to parse hostname, owner, or repo from %q", pusherrors.ErrInvalidRepository, arg)
	}
	return info, nil
}

// parseSSHRepository handles git@host:owner/repo and git@host/owner/repo
func parseSSHRepository(arg string) (*RepoInfo, error) {
	_, hostAndPath, _ := strings.Cut(arg, "@")
	sep := strings.IndexAny(hostAndPath, ":/")
	if sep < 0 {
		return nil, fmt.Errorf("%w: SSH URL %q has no path", pusherrors.ErrInvalidRepository, arg)
	}
	return repoFromPath(hostAndPath[:sep], hostAndPath[sep+1:], false)
}

// parseURLRepository handles protocol://host/.../owner/repo
func parseURLRepository(arg string) (*RepoInfo, error) {
	u, err := url.Parse(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pusherrors.ErrInvalidRepository, err)
	}
	return repoFromPath(u.Host, strings.Trim(u.Path, "/"), false)
}

// repoFromPath takes owner and repo from the last two segments of path.
// With exact set the path must be exactly owner/repo.
func repoFromPath(hostname, path string, exact bool) (*RepoInfo, error) {
	parts := strings.Split(path, "/")
	if len(parts) < 2 || (exact && len(parts) != 2) {
		return nil, fmt.Errorf("%w: %q is not owner/repo", pusherrors.ErrInvalidRepository, path)
	}
	return &RepoInfo{
		Hostname: hostname,
		Owner:    parts[len(parts)-2],
		Repo:     parts[len(parts)-1],
	}, nil
}

// NewGitHubClient returns a go-github client authenticated with token.
// Any hostname other than github.com is treated as GitHub Enterprise, whose
// REST API lives under https://{host}/api/v3/.
func NewGitHubClient(ctx context.Context, hostname, token string) (*github.Client, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client := github.NewClient(httpClient)
	if hostname == "" || hostname == DefaultHostname {
		return client, nil
	}

	root := "https://" + hostname + "/"
	enterprise, err := client.WithEnterpriseURLs(root, root)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub Enterprise host %q: %w", hostname, err)
	}
	return enterprise, nil
}

// LookupToken gets a GitHub token from the environment or the gh CLI
func LookupToken(ctx context.Context, hostname string) (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token, nil
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ghCommandTimeout)
		defer cancel()
	}

	args := []string{"auth", "token"}
	if hostname != "" && hostname != DefaultHostname {
		args = append(args, "--hostname", hostname)
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to get GitHub token: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	token := strings.TrimSpace(stdout.String())
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}
