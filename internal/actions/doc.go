// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a gitpusher command (push, repos, tree, config)
// and orchestrates operations across the files, pipeline, and github packages.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Config, Splog, and the GitHub client
//   - Actions are stateless; everything they change lives on the remote or in the config file
//   - Actions handle user interaction through the tui package
//
// Dependencies:
//   - files: Local file collection
//   - pipeline: The blob, tree, commit, ref pipeline
//   - tui: User interface and prompts
package actions
