package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"gitpusher.dev/gitpusher/internal/actions"
	"gitpusher.dev/gitpusher/internal/cli/helpers"
	"gitpusher.dev/gitpusher/internal/config"
	"gitpusher.dev/gitpusher/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and set configuration",
		Long: `Show and set values in ~/.gitpusher/config.yaml (or $GITPUSHER_CONFIG).

Keys: ` + strings.Join(config.Keys(), ", ") + `

The token may reference an environment variable, e.g. '${GITHUB_TOKEN}'.

Examples:
  gitpusher config show
  gitpusher config set email me@example.com
  gitpusher config set upload_mode concurrent`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.ConfigShowAction)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConfigSetAction(ctx, actions.ConfigSetOptions{Key: args[0], Value: args[1]})
			})
		},
	})

	return cmd
}
