// Package files turns command line arguments into the file set of a push.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"gitpusher.dev/gitpusher/internal/pipeline"
)

// Options controls how arguments are collected
type Options struct {
	// Prefix is a target directory prepended to every path
	Prefix string
	// NoIgnore disables .gitignore handling inside walked directories
	NoIgnore bool
	Logger   pipeline.Logger
}

// Collect reads every argument into FileTasks. A file keeps its base name;
// a directory is walked and its files keep their path under the directory's
// own name ("site/css/app.css"). "." contributes its contents at the top level.
func Collect(args []string, opts Options) ([]pipeline.FileTask, error) {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	var tasks []pipeline.FileTask
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}

		if !info.IsDir() {
			task, err := readTask(arg, pipeline.JoinPath(opts.Prefix, filepath.Base(arg)), pipeline.FileKindFile)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, task)
			continue
		}

		walked, err := walkDir(arg, dirPrefix(opts.Prefix, arg), !opts.NoIgnore, log)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, walked...)
	}
	return tasks, nil
}

func dirPrefix(prefix, dir string) string {
	clean := filepath.Clean(dir)
	if clean == "." {
		return pipeline.NormalizePath(prefix)
	}
	if abs, err := filepath.Abs(clean); err == nil {
		clean = abs
	}
	return pipeline.JoinPath(prefix, filepath.Base(clean))
}

func walkDir(root, prefix string, useIgnore bool, log pipeline.Logger) ([]pipeline.FileTask, error) {
	var matcher gitignore.Matcher
	if useIgnore {
		patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read .gitignore files under %s: %w", root, err)
		}
		if len(patterns) > 0 {
			matcher = gitignore.NewMatcher(patterns)
		}
	}

	var tasks []pipeline.FileTask
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if matcher != nil && matcher.Match(strings.Split(rel, "/"), d.IsDir()) {
			log.Debug("Ignoring %s", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !d.Type().IsRegular() {
			log.Debug("Skipping %s: not a regular file", rel)
			return nil
		}

		task, err := readTask(path, pipeline.JoinPath(prefix, rel), pipeline.FileKindDirectory)
		if err != nil {
			return err
		}
		tasks = append(tasks, task)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Slice(tasks, func(i, j int) bool { return tasks[i].Path < tasks[j].Path })
	return tasks, nil
}

func readTask(path, target string, kind pipeline.FileKind) (pipeline.FileTask, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return pipeline.FileTask{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pipeline.FileTask{Content: content, Path: target, Kind: kind}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
