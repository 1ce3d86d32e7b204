//go:build darwin

package utils

import (
	"context"
	"os/exec"
)

// OpenBrowser opens a URL in the default browser on macOS
func OpenBrowser(ctx context.Context, url string) error {
	return exec.CommandContext(ctx, "open", url).Start()
}
