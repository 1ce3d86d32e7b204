package pipeline

import (
	"strings"
)

// NormalizePath collapses repeated separators and strips leading and trailing ones.
// Backslashes are treated as separators.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")

	parts := strings.Split(path, "/")
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "/")
}

// JoinPath prefixes path with dir and normalizes the result
func JoinPath(dir, path string) string {
	if dir == "" {
		return NormalizePath(path)
	}
	return NormalizePath(dir + "/" + path)
}
