// Package tui provides the terminal user interface for gitpusher.
//
// It handles:
//   - Interactive prompts (using survey)
//   - Structured logging and status reporting (Splog)
//   - Push progress, as an animated bubbletea bar or plain log lines
//   - Terminal styling and colors (using lipgloss)
package tui
