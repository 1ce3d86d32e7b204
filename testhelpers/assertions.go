// Package testhelpers provides testing utilities for gitpusher,
// including a mock GitHub server, a temporary file scene, and custom assertions.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectHeadFiles asserts that the branch head of the mock server contains exactly expected
func ExpectHeadFiles(t *testing.T, config *MockGitHubServerConfig, branch string, expected map[string]string) {
	t.Helper()

	actual := config.HeadFiles(branch)
	require.NotNil(t, actual, "branch %s does not exist", branch)
	require.Equal(t, expected, actual)
}

// ExpectHeadPaths asserts the sorted, comma separated list of paths at a branch head.
// Example: ExpectHeadPaths(t, config, "main", "README.md, site/index.html")
func ExpectHeadPaths(t *testing.T, config *MockGitHubServerConfig, branch string, expected string) {
	t.Helper()

	files := config.HeadFiles(branch)
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	require.Equal(t, expected, strings.Join(paths, ", "))
}
