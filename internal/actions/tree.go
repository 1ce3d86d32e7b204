package actions

import (
	"gitpusher.dev/gitpusher/internal/runtime"
	"gitpusher.dev/gitpusher/internal/tui"
)

// TreeOptions contains options for the tree command
type TreeOptions struct {
	Repository string
	// Ref is a branch, tag or SHA; empty means the default branch
	Ref string
}

// TreeAction prints the recursive file tree of a repository
func TreeAction(ctx *runtime.Context, opts TreeOptions) error {
	info, err := resolveRepository(ctx, opts.Repository)
	if err != nil {
		return err
	}

	client, err := ctx.GitHubClient(info.Hostname)
	if err != nil {
		return err
	}

	ref := opts.Ref
	if ref == "" {
		ref, err = client.GetDefaultBranch(ctx, info.Owner, info.Repo)
		if err != nil {
			return err
		}
	}

	items, err := client.ListTree(ctx, info.Owner, info.Repo, ref)
	if err != nil {
		return err
	}

	ctx.Splog.Info("%s %s", tui.ColorBold(info.String()), tui.ColorDim("@ "+ref))
	if len(items) == 0 {
		ctx.Splog.Info("(empty)")
		return nil
	}
	ctx.Splog.Page(tui.RenderRepoTree(items))
	return nil
}
