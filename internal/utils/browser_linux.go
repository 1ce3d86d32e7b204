//go:build linux

package utils

import (
	"context"
	"os/exec"
)

// OpenBrowser opens a URL in the default browser on Linux
func OpenBrowser(ctx context.Context, url string) error {
	return exec.CommandContext(ctx, "xdg-open", url).Start()
}
