package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene is a temporary working directory with an isolated home directory,
// so config and log files never touch the real user's files.
type Scene struct {
	Dir  string
	Home string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene. Cleanup is handled by t.TempDir.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	scene := &Scene{
		Dir:  t.TempDir(),
		Home: t.TempDir(),
	}

	t.Setenv("HOME", scene.Home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("GITPUSHER_CONFIG", "")
	t.Setenv("GITPUSHER_LOG_FILE", filepath.Join(scene.Home, "gitpusher.log"))
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITPUSHER_EMAIL", "")
	t.Setenv("GITPUSHER_HOSTNAME", "")

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}
	return scene
}

// NewFileScene creates a scene containing files, keyed by slash-separated path
func NewFileScene(t *testing.T, files map[string]string) *Scene {
	t.Helper()
	return NewScene(t, func(s *Scene) error {
		for path, content := range files {
			if err := s.WriteFile(path, content); err != nil {
				return err
			}
		}
		return nil
	})
}

// Path returns the absolute path of rel inside the scene
func (s *Scene) Path(rel string) string {
	return filepath.Join(s.Dir, filepath.FromSlash(rel))
}

// WriteFile writes content at rel, creating parent directories
func (s *Scene) WriteFile(rel, content string) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}
