package cli

import (
	"github.com/spf13/cobra"

	"gitpusher.dev/gitpusher/internal/actions"
	"gitpusher.dev/gitpusher/internal/cli/helpers"
	"gitpusher.dev/gitpusher/internal/runtime"
)

// newReposCmd creates the repos command
func newReposCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "repos",
		Aliases: []string{"repo"},
		Short:   "List and create your repositories",
	}

	cmd.AddCommand(newReposListCmd())
	cmd.AddCommand(newReposCreateCmd())

	return cmd
}

func newReposListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the first page of your repositories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ReposListAction(ctx, actions.ReposListOptions{})
			})
		},
	}
}

func newReposCreateCmd() *cobra.Command {
	var opts actions.RepoCreateOptions

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a repository",
		Long: `Create a repository owned by the authenticated user.

A new repository has no branches until it has a commit, so pass --readme
(or --gitignore / --license) to be able to push to it right away.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Name = args[0]
				return actions.RepoCreateAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Description, "description", "d", "", "Repository description")
	cmd.Flags().BoolVar(&opts.Private, "private", false, "Make the repository private")
	cmd.Flags().BoolVar(&opts.Readme, "readme", false, "Initialize with a README")
	cmd.Flags().StringVar(&opts.Gitignore, "gitignore", "", "Initialize with a .gitignore template (e.g. Go)")
	cmd.Flags().StringVar(&opts.License, "license", "", "Initialize with a license template (e.g. mit)")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVarP(&opts.Web, "web", "w", false, "Open the new repository in a browser")

	return cmd
}
