// File: pkg/aggregate/execute.go
package aggregate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"aggfiles/pkg/ignore"
	"aggfiles/pkg/pattern"
	"aggfiles/pkg/remote"

	"go.uber.org/zap"
)

// Aggregator runs one aggregation. It is not safe for concurrent use.
type Aggregator struct {
	args   *Arguments
	logger *zap.Logger
	remote RemoteSource
	rules  map[string]*ignore.Rules // Loaded ignore rules by anchor directory.
	seen   map[string]struct{}      // Keys of candidates already selected.
}

// Option customises an Aggregator.
type Option func(*Aggregator)

// WithRemote replaces the GitHub client used for --url runs.
func WithRemote(src RemoteSource) Option {
	return func(a *Aggregator) { a.remote = src }
}

// New creates an Aggregator for args.
func New(args *Arguments, logger *zap.Logger, opts ...Option) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Aggregator{
		args:   args,
		logger: logger,
		rules:  make(map[string]*ignore.Rules),
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run is a shortcut for New(args, logger).Run(ctx, out).
func Run(ctx context.Context, args *Arguments, out io.Writer, logger *zap.Logger) (Summary, error) {
	return New(args, logger).Run(ctx, out)
}

// Run selects, reads and writes every matching file to out. Pattern and
// listing errors abort before anything is written; per-file problems become
// placeholder blocks and the run continues.
func (a *Aggregator) Run(ctx context.Context, out io.Writer) (Summary, error) {
	startTime := time.Now()
	var summary Summary

	if len(a.args.Patterns) == 0 {
		return summary, ErrNoPatterns
	}

	matchers, err := pattern.CompileAll(a.args.Patterns)
	if err != nil {
		return summary, err
	}
	summary.Patterns = len(matchers)
	a.logger.Info("Starting aggregation",
		zap.Strings("patterns", a.args.Patterns),
		zap.Bool("recursive", a.args.Recursive),
		zap.String("url", a.args.URL))

	var candidates []Candidate
	if a.args.URL != "" {
		candidates, err = a.collectRemote(ctx, matchers)
	} else {
		candidates, err = a.collectLocal(matchers)
	}
	if err != nil {
		return summary, err
	}
	summary.Matched = len(candidates)

	if len(candidates) == 0 {
		a.logger.Warn("No files matched the supplied patterns", zap.Strings("patterns", a.args.Patterns))
		return summary, nil
	}

	contents := a.processCandidates(ctx, candidates, &summary)

	var treeContent string
	if a.args.Tree && len(contents) > 0 {
		treeContent = GenerateTree(contentPaths(contents))
	}

	if err := WriteCombined(out, treeContent, contents); err != nil {
		return summary, fmt.Errorf("failed to write output: %w", err)
	}

	a.logger.Info("Aggregation completed",
		zap.Int("matchedFiles", summary.Matched),
		zap.Int("emittedFiles", summary.Emitted),
		zap.Int("failedFiles", summary.Failed),
		zap.Int("skippedFiles", summary.Skipped),
		zap.Duration("elapsed", time.Since(startTime)))
	return summary, nil
}

// processCandidates reads every candidate in order and formats its block.
func (a *Aggregator) processCandidates(ctx context.Context, candidates []Candidate, summary *Summary) []FileContent {
	contents := make([]FileContent, 0, len(candidates))
	for _, c := range candidates {
		fc, skip := a.processCandidate(ctx, c)
		if skip {
			summary.Skipped++
			continue
		}
		if fc.Failed {
			summary.Failed++
		} else {
			summary.Emitted++
		}
		contents = append(contents, fc)
	}
	return contents
}

// add records c unless a candidate with the same key was selected before.
func (a *Aggregator) add(candidates []Candidate, c Candidate) []Candidate {
	if _, dup := a.seen[c.Key]; dup {
		a.logger.Debug("Skipping duplicate match", zap.String("file", c.Path))
		return candidates
	}
	a.seen[c.Key] = struct{}{}
	return append(candidates, c)
}

// workDir returns the absolute directory local patterns are resolved against.
func (a *Aggregator) workDir() (string, error) {
	dir := a.args.Dir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return abs, nil
}

// rulesFor returns the ignore rules anchored at anchor, loading them once.
func (a *Aggregator) rulesFor(anchor string) (*ignore.Rules, error) {
	if r, ok := a.rules[anchor]; ok {
		return r, nil
	}
	r, err := ignore.Load(anchor, a.args.ignoreOptions(), a.logger)
	if err != nil {
		return nil, err
	}
	a.rules[anchor] = r
	return r, nil
}

// newRemote returns the configured remote source, creating a GitHub one on first use.
func (a *Aggregator) newRemote() RemoteSource {
	if a.remote == nil {
		a.remote = remote.NewGitHubLister(a.args.GitHubToken, a.logger)
	}
	return a.remote
}

func contentPaths(contents []FileContent) []string {
	paths := make([]string, 0, len(contents))
	for _, c := range contents {
		paths = append(paths, c.Path)
	}
	return paths
}

// WriteCombined writes the optional tree block followed by every file block.
func WriteCombined(out io.Writer, treeContent string, contents []FileContent) error {
	writer := bufio.NewWriter(out)

	if treeContent != "" {
		if _, err := writer.WriteString(treeContent + "\n"); err != nil {
			return fmt.Errorf("failed to write tree content: %w", err)
		}
	}

	for _, content := range contents {
		if _, err := writer.WriteString(content.Content); err != nil {
			return fmt.Errorf("failed to write content of %s: %w", content.Path, err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}
