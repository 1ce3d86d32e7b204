package cli

import (
	"github.com/spf13/cobra"

	"gitpusher.dev/gitpusher/internal/actions"
	"gitpusher.dev/gitpusher/internal/cli/helpers"
	"gitpusher.dev/gitpusher/internal/runtime"
)

// newPushCmd creates the push command
func newPushCmd() *cobra.Command {
	var opts actions.PushOptions

	cmd := &cobra.Command{
		Use:   "push <owner/repo> <path>...",
		Short: "Push files and directories to a branch as one commit",
		Long: `Push files and directories to a branch as one commit.

A file keeps its base name. A directory keeps its own name and its layout,
so "push owner/repo site" writes site/index.html. Use "." to push the contents
of the current directory at the repository root. .gitignore files inside pushed
directories are honored unless --no-ignore is given.

If the branch does not exist it is created from the default branch.

Examples:
  gitpusher push octo/site public -m "Publish site"
  gitpusher push octo/site notes.md --prefix docs --branch drafts
  gitpusher push https://github.company.com/team/app . --mode concurrent
  git log -1 --format=%B | gitpusher push octo/site dist -m -`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Repository = args[0]
				opts.Paths = args[1:]
				return actions.PushAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Branch, "branch", "b", "", "Target branch (default from config, usually main)")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Commit message, or - to read it from stdin (prompted for on a terminal)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "Commit author email (default from config or git)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "Upload mode: sequential or concurrent")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "Files per batch in concurrent mode")
	cmd.Flags().StringVar(&opts.Prefix, "prefix", "", "Directory in the repository to place the files under")
	cmd.Flags().BoolVar(&opts.NoIgnore, "no-ignore", false, "Push files matched by .gitignore")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print what would be pushed without contacting GitHub")
	cmd.Flags().BoolVar(&opts.Confirm, "confirm", false, "Ask before pushing")
	cmd.Flags().BoolVarP(&opts.Web, "web", "w", false, "Open the commit in a browser after pushing")

	return cmd
}
