package tui

import (
	"os"
	"path/filepath"
)

// GetLogFilePath returns the path to the log file.
// If GITPUSHER_LOG_FILE is set, uses that path.
// Otherwise, uses ~/.gitpusher/logs/gitpusher.log
func GetLogFilePath() string {
	if customPath := os.Getenv("GITPUSHER_LOG_FILE"); customPath != "" {
		return customPath
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if we can't get home dir
		return "gitpusher.log"
	}

	logDir := filepath.Join(homeDir, ".gitpusher", "logs")
	logFile := filepath.Join(logDir, "gitpusher.log")

	return logFile
}
