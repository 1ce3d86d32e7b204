package cli

import (
	"github.com/spf13/cobra"

	"gitpusher.dev/gitpusher/internal/tui"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gitpusher",
		Short: "Push local files to a GitHub repository as a single commit",
		Long: `GitPusher publishes local files to a GitHub repository through the Git Data API.

Files become blobs, the blobs become a tree on top of the branch head, the tree
becomes one commit, and the branch is moved to it. No local clone is needed.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if noColor, _ := cmd.Flags().GetBool("no-color"); noColor || tui.ColorDisabledByEnv() {
				tui.DisableColor()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Print debug output")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("hostname", "", "GitHub hostname (overrides config, e.g. github.company.com)")

	rootCmd.AddCommand(newPushCmd())
	rootCmd.AddCommand(newReposCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
