//go:build windows

package utils

import (
	"context"
	"os/exec"
)

// OpenBrowser opens a URL in the default browser on Windows
func OpenBrowser(ctx context.Context, url string) error {
	return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url).Start()
}
