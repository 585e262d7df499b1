// File: pkg/aggregate/traversal.go
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"aggfiles/pkg/pattern"
	"aggfiles/pkg/walker"

	"go.uber.org/zap"
)

// collectLocal enumerates matching files on the local filesystem, pattern
// by pattern, in traversal order.
func (a *Aggregator) collectLocal(matchers []*pattern.Matcher) ([]Candidate, error) {
	dir, err := a.workDir()
	if err != nil {
		return nil, err
	}

	var candidates []Candidate
	for _, m := range matchers {
		before := len(candidates)

		handled, err := a.collectLiteral(dir, m, &candidates)
		if err != nil {
			return nil, err
		}
		if !handled {
			if err := a.collectGlob(dir, m, &candidates); err != nil {
				return nil, err
			}
		}

		a.logger.Debug("Collected files for pattern",
			zap.String("pattern", m.String()),
			zap.Int("newFiles", len(candidates)-before))
	}
	return candidates, nil
}

// collectLiteral handles a pattern naming an existing file or directory.
// An explicitly named file bypasses the ignore rules.
func (a *Aggregator) collectLiteral(dir string, m *pattern.Matcher, candidates *[]Candidate) (bool, error) {
	if !m.Literal() {
		return false, nil
	}
	target := resolve(dir, filepath.FromSlash(m.String()))
	info, err := os.Stat(target)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			a.logger.Warn("Cannot access path", zap.String("path", target), zap.Error(err))
		}
		return false, nil
	}

	if !info.IsDir() {
		*candidates = a.add(*candidates, localCandidate(dir, target, info.Size()))
		return true, nil
	}

	w, err := a.walkerFor(dir, target)
	if err != nil {
		return true, err
	}
	for path := range w.Walk(target, a.args.Recursive) {
		*candidates = a.add(*candidates, localCandidate(dir, path, -1))
	}
	return true, nil
}

// collectGlob walks the pattern's base directory and keeps matching files.
func (a *Aggregator) collectGlob(dir string, m *pattern.Matcher, candidates *[]Candidate) error {
	root := resolve(dir, filepath.FromSlash(m.Base()))
	w, err := a.walkerFor(dir, root)
	if err != nil {
		return err
	}

	for path := range w.Walk(root, a.args.Recursive) {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		if !m.Match(filepath.ToSlash(rel)) {
			continue
		}
		*candidates = a.add(*candidates, localCandidate(dir, path, -1))
	}
	return nil
}

// walkerFor returns a walker whose ignore rules are anchored at dir when
// root lies inside it, or at root otherwise.
func (a *Aggregator) walkerFor(dir, root string) (*walker.Walker, error) {
	anchor := dir
	if !within(dir, root) {
		anchor = root
	}
	rules, err := a.rulesFor(anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to load ignore patterns: %w", err)
	}
	return walker.New(rules, a.logger), nil
}

// localCandidate builds a candidate for path. Size -1 means stat on demand.
func localCandidate(dir, path string, size int64) Candidate {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	key := abs
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		key = resolved
	}

	display := abs
	if within(dir, abs) {
		if rel, err := filepath.Rel(dir, abs); err == nil {
			display = rel
		}
	}

	if size < 0 {
		if info, err := os.Stat(abs); err == nil {
			size = info.Size()
		}
	}

	return Candidate{
		Path: filepath.ToSlash(display),
		Key:  key,
		Size: size,
		load: func(context.Context) ([]byte, error) {
			return os.ReadFile(abs)
		},
	}
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// within reports whether path is dir or lies below it.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
