package actions

import (
	"errors"
	"fmt"
	"strings"

	"gitpusher.dev/gitpusher/internal/github"
	"gitpusher.dev/gitpusher/internal/runtime"
	"gitpusher.dev/gitpusher/internal/tui"
)

// resolveRepository parses a repository argument. The short owner/repo form
// targets the configured hostname.
func resolveRepository(ctx *runtime.Context, arg string) (*github.RepoInfo, error) {
	info, err := github.ParseRepository(arg)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(arg, "://") && !strings.Contains(arg, "@") {
		info.Hostname = ctx.Config.Hostname
	}
	return info, nil
}

// webURL returns the browser URL of a path inside a repository
func webURL(info *github.RepoInfo, parts ...string) string {
	url := fmt.Sprintf("https://%s/%s/%s", info.Hostname, info.Owner, info.Repo)
	if len(parts) > 0 {
		url += "/" + strings.Join(parts, "/")
	}
	return url
}

// confirm asks a yes/no question. Without a terminal the answer is yes.
func confirm(ctx *runtime.Context, prompt string) (bool, error) {
	ok, err := tui.PromptConfirm(prompt, true)
	if errors.Is(err, tui.ErrInteractiveDisabled) {
		ctx.Splog.Debug("Not interactive, skipping confirmation: %s", prompt)
		return true, nil
	}
	return ok, err
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
