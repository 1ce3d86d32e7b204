package cli

import (
	"github.com/spf13/cobra"

	"gitpusher.dev/gitpusher/internal/actions"
	"gitpusher.dev/gitpusher/internal/cli/helpers"
	"gitpusher.dev/gitpusher/internal/runtime"
)

// newTreeCmd creates the tree command
func newTreeCmd() *cobra.Command {
	var opts actions.TreeOptions

	cmd := &cobra.Command{
		Use:   "tree <owner/repo>",
		Short: "Show the file tree of a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				opts.Repository = args[0]
				return actions.TreeAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Ref, "ref", "", "Branch, tag or commit SHA (default: the default branch)")

	return cmd
}
