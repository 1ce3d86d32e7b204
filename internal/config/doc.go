// Package config manages gitpusher's user configuration.
//
// It handles:
//   - Reading and writing ~/.gitpusher/config.yaml
//   - Environment variable overrides and ${VAR} expansion in the token field
//   - Falling back to the global git config for the author email
package config
