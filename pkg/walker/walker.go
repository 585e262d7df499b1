// Package walker enumerates candidate files below a search root while
// pruning everything the ignore rules exclude.
package walker

import (
	"io/fs"
	"iter"
	"os"
	"path/filepath"

	"aggfiles/pkg/ignore"

	"go.uber.org/zap"
)

// Walker produces file paths below a root directory.
type Walker struct {
	rules  ignore.Matcher
	logger *zap.Logger
}

// New creates a Walker. A nil rules value disables ignore handling.
func New(rules ignore.Matcher, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{rules: rules, logger: logger}
}

// Walk returns a lazy sequence of regular files below root, in
// filepath.WalkDir order. When recursive is false only the direct entries
// of root are produced. Unreadable paths are logged and skipped; the walk
// continues with their siblings. Symlinked directories are not followed.
func (w *Walker) Walk(root string, recursive bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		w.logger.Debug("Starting traversal", zap.String("root", root), zap.Bool("recursive", recursive))

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				w.logger.Warn("Error accessing path during traversal", zap.String("path", path), zap.Error(err))
				if d != nil && d.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path == root {
					return nil
				}
				if !recursive {
					return filepath.SkipDir
				}
				if ok, rule := w.ignored(path, true); ok {
					w.logger.Debug("Skipping ignored directory during traversal",
						append(rule.Fields(), zap.String("directory", path))...)
					return filepath.SkipDir
				}
				return nil
			}

			if !isRegular(path, d) {
				return nil
			}
			if ok, rule := w.ignored(path, false); ok {
				w.logger.Debug("Skipping ignored file during traversal",
					append(rule.Fields(), zap.String("filePath", path))...)
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			w.logger.Warn("Traversal stopped early", zap.String("root", root), zap.Error(err))
		}
	}
}

// isRegular reports whether d is a regular file or a symlink to one.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (w *Walker) ignored(path string, isDir bool) (bool, *ignore.Rule) {
	if w.rules == nil {
		return false, nil
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, nil
	}
	rel, err := filepath.Rel(w.rules.Anchor(), abs)
	if err != nil {
		return false, nil
	}
	return w.rules.MatchesPathWithRule(rel, isDir)
}
