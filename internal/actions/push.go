package actions

import (
	"errors"
	"fmt"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
	"gitpusher.dev/gitpusher/internal/files"
	"gitpusher.dev/gitpusher/internal/pipeline"
	"gitpusher.dev/gitpusher/internal/runtime"
	"gitpusher.dev/gitpusher/internal/tui"
	"gitpusher.dev/gitpusher/internal/utils"
)

// PushOptions contains options for the push command.
// Empty fields fall back to the config file.
type PushOptions struct {
	Repository string
	Paths      []string
	Branch     string
	// Message "-" reads the message from standard input
	Message   string
	Email     string
	Mode      string
	BatchSize int
	Prefix    string
	NoIgnore  bool
	DryRun    bool
	Confirm   bool
	// Web opens the new commit in a browser
	Web bool
}

// PushAction publishes local files to a branch as a single commit
func PushAction(ctx *runtime.Context, opts PushOptions) error {
	info, err := resolveRepository(ctx, opts.Repository)
	if err != nil {
		return err
	}

	tasks, err := files.Collect(opts.Paths, files.Options{
		Prefix:   opts.Prefix,
		NoIgnore: opts.NoIgnore,
		Logger:   ctx.Splog,
	})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return fmt.Errorf("%w: nothing to push in %v", pusherrors.ErrNoFiles, opts.Paths)
	}

	req, batchSize, err := buildPushRequest(ctx, opts, info.Owner, info.Repo, tasks)
	if err != nil {
		return err
	}

	if opts.DryRun {
		return printPushPlan(ctx, req, info.String())
	}

	if opts.Confirm {
		ok, err := confirm(ctx, fmt.Sprintf("Push %s to %s (%s)?", pluralize(len(tasks), "file"), info, req.Branch))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Splog.Info("Push canceled.")
			return nil
		}
	}

	client, err := ctx.GitHubClient(info.Hostname)
	if err != nil {
		return err
	}

	pusher := pipeline.NewPusher(client, pipeline.Options{
		AuthorName: ctx.Config.AuthorName,
		BatchSize:  batchSize,
		Logger:     ctx.Splog,
		Sleep:      runtime.RefUpdateSleep,
	})

	ui := tui.NewPushProgressUI(ctx.Splog)
	ui.Start(fmt.Sprintf("Pushing %s to %s (%s)", pluralize(len(tasks), "file"), info, req.Branch))
	result, err := pusher.Push(ctx, req, pipeline.ReporterFunc(ui.Report))
	ui.Complete(err)
	if err != nil {
		if errors.Is(err, pusherrors.ErrRetriesExhausted) {
			ctx.Splog.Tip("Branch %s kept moving while pushing. Run the push again to retry.", req.Branch)
		}
		return err
	}

	ctx.Splog.Info("%s Pushed %s to %s (%s)", tui.ColorGreen("✓"), pluralize(len(tasks), "file"), info, tui.ColorCyan(result.RefName))
	if result.FromDefaultBranch {
		ctx.Splog.Info("Created branch %s from the default branch.", result.RefName)
	}
	commitURL := webURL(info, "commit", result.CommitSHA)
	ctx.Splog.Info("Commit: %s", commitURL)
	ctx.Splog.Debug("Tree %s, base %s, ref updated after %s", result.TreeSHA, result.BaseCommitSHA, pluralize(result.RefAttempts, "attempt"))

	if opts.Web {
		if err := utils.OpenBrowser(ctx, commitURL); err != nil {
			ctx.Splog.Warn("Could not open a browser: %v", err)
		}
	}
	return nil
}

// buildPushRequest merges flags with config and asks for anything still missing
func buildPushRequest(ctx *runtime.Context, opts PushOptions, owner, repo string, tasks []pipeline.FileTask) (pipeline.PushRequest, int, error) {
	branch := opts.Branch
	if branch == "" {
		branch = ctx.Config.DefaultBranch
	}

	modeName := opts.Mode
	if modeName == "" {
		modeName = ctx.Config.UploadMode
	}
	mode, err := pipeline.ParseUploadMode(modeName)
	if err != nil {
		return pipeline.PushRequest{}, 0, err
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = ctx.Config.BatchSize
	}

	email := opts.Email
	if email == "" {
		email = ctx.Config.ResolvedEmail()
	}
	if email == "" {
		email, err = tui.PromptRequiredInput("Author email:", "Recorded as the commit author. Save it with 'gitpusher config set email ...'")
		if err != nil && !errors.Is(err, tui.ErrInteractiveDisabled) {
			return pipeline.PushRequest{}, 0, err
		}
	}

	message := opts.Message
	if message == utils.StdinArg {
		message, err = utils.ReadFromStdin()
		if err != nil {
			return pipeline.PushRequest{}, 0, fmt.Errorf("failed to read commit message from stdin: %w", err)
		}
	}
	if message == "" {
		message, err = tui.PromptTextInput("Commit message:", pipeline.DefaultCommitMessage)
		switch {
		case errors.Is(err, tui.ErrInteractiveDisabled):
			message = pipeline.DefaultCommitMessage
		case err != nil:
			return pipeline.PushRequest{}, 0, err
		}
	}

	return pipeline.PushRequest{
		Repo:        pipeline.RepoCoordinate{Owner: owner, Name: repo},
		Files:       tasks,
		Message:     message,
		Branch:      branch,
		AuthorEmail: email,
		Mode:        mode,
	}, batchSize, nil
}

// printPushPlan validates req and lists what a push would upload, without network calls
func printPushPlan(ctx *runtime.Context, req pipeline.PushRequest, target string) error {
	if err := pipeline.Validate(req); err != nil {
		return err
	}

	var total int64
	for _, task := range req.Files {
		total += task.Size()
	}

	ctx.Splog.Info("%s would push %s (%d bytes) to %s (%s) in %s mode",
		tui.ColorYellow("Dry run:"), pluralize(len(req.Files), "file"), total, target, req.Branch, req.Mode)
	ctx.Splog.Info("Message: %s", req.Message)
	ctx.Splog.Info("Author:  %s <%s>", ctx.Config.AuthorName, req.AuthorEmail)
	for _, task := range req.Files {
		ctx.Splog.Info("  %s  %s %s", tui.ColorDim(pipeline.LocalBlobSHA(task.Content)[:7]),
			pipeline.NormalizePath(task.Path), tui.ColorDim(fmt.Sprintf("(%d bytes)", task.Size())))
	}
	return nil
}
