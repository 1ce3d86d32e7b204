package actions

import (
	"fmt"

	"gitpusher.dev/gitpusher/internal/github"
	"gitpusher.dev/gitpusher/internal/runtime"
	"gitpusher.dev/gitpusher/internal/tui"
	"gitpusher.dev/gitpusher/internal/utils"
)

// ReposListOptions contains options for the repos list command
type ReposListOptions struct {
	Hostname string
}

// ReposListAction prints the first page of the authenticated user's repositories
func ReposListAction(ctx *runtime.Context, opts ReposListOptions) error {
	client, err := ctx.GitHubClient(opts.Hostname)
	if err != nil {
		return err
	}

	repos, err := client.ListRepositories(ctx)
	if err != nil {
		return err
	}
	if len(repos) == 0 {
		ctx.Splog.Info("No repositories found.")
		return nil
	}

	width := 0
	for _, repo := range repos {
		width = max(width, len(repo.FullName))
	}
	for _, repo := range repos {
		visibility := tui.ColorDim("public ")
		if repo.Private {
			visibility = tui.ColorYellow("private")
		}
		ctx.Splog.Info("%-*s  %s  %s", width, repo.FullName, visibility, tui.ColorDim(repo.DefaultBranch))
	}
	return nil
}

// RepoCreateOptions contains options for the repos create command
type RepoCreateOptions struct {
	Hostname    string
	Name        string
	Description string
	Private     bool
	Readme      bool
	Gitignore   string
	License     string
	// Yes skips the confirmation prompt
	Yes bool
	Web bool
}

// RepoCreateAction creates a repository owned by the authenticated user
func RepoCreateAction(ctx *runtime.Context, opts RepoCreateOptions) error {
	if opts.Name == "" {
		return fmt.Errorf("repository name is required")
	}

	visibility := "public"
	if opts.Private {
		visibility = "private"
	}
	if !opts.Yes {
		ok, err := confirm(ctx, fmt.Sprintf("Create %s repository %s?", visibility, opts.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Splog.Info("Repository creation canceled.")
			return nil
		}
	}

	client, err := ctx.GitHubClient(opts.Hostname)
	if err != nil {
		return err
	}

	repo, err := client.CreateRepository(ctx, github.CreateRepoOptions{
		Name:              opts.Name,
		Description:       opts.Description,
		Private:           opts.Private,
		AutoInit:          opts.Readme,
		GitignoreTemplate: opts.Gitignore,
		LicenseTemplate:   opts.License,
	})
	if err != nil {
		return err
	}

	ctx.Splog.Info("%s Created %s repository %s", tui.ColorGreen("✓"), visibility, tui.ColorCyan(repo.FullName))
	if repo.HTMLURL != "" {
		ctx.Splog.Info("%s", repo.HTMLURL)
		if opts.Web {
			if err := utils.OpenBrowser(ctx, repo.HTMLURL); err != nil {
				ctx.Splog.Warn("Could not open a browser: %v", err)
			}
		}
	}
	if !opts.Readme && opts.Gitignore == "" && opts.License == "" {
		ctx.Splog.Tip("The repository has no commits yet. Pushing needs a default branch with at least one commit; use --readme to create one.")
	}
	return nil
}
