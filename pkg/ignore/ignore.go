// Package ignore decides which paths are excluded from aggregation. It follows
// gitignore semantics through go-git's gitignore implementation: every
// .gitignore below the anchor directory applies to its own subtree, later
// rules override earlier ones and '!' re-includes a path.
package ignore

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

const (
	// CustomIgnoreFile is the tool specific ignore file read from the anchor directory.
	CustomIgnoreFile = ".aggignore"
	// LegacyIgnoreFile is the older name of CustomIgnoreFile. Both are read;
	// rules in CustomIgnoreFile take precedence.
	LegacyIgnoreFile = "to_ignore"
)

// Matcher is implemented by anything that can tell whether a path is ignored
// and which rule decided it. Paths are relative to Anchor.
type Matcher interface {
	Anchor() string
	MatchesPathWithRule(rel string, isDir bool) (bool, *Rule)
}

// Options controls which rule sources Load reads.
type Options struct {
	NoGitignore    bool     // Skip .gitignore files, .git/info/exclude and core.excludesfile.
	NoCustomIgnore bool     // Skip the .aggignore and to_ignore files.
	GlobalFile     string   // Optional extra ignore file, applied with the lowest precedence.
	Extra          []string // Patterns from the command line, applied with the highest precedence.
}

// Rule is one compiled ignore pattern and where it came from.
type Rule struct {
	Pattern gitignore.Pattern
	Source  string // File the rule was read from, or "flag".
	Line    string // Original pattern line, empty for nested .gitignore rules.
	LineNo  int    // 1-based line number, 0 when unknown.
}

// Rules is an ordered set of ignore rules anchored at a directory.
type Rules struct {
	anchor string
	rules  []*Rule
	logger *zap.Logger
}

// New returns an empty rule set anchored at anchor. The .git directory is
// always ignored.
func New(anchor string, logger *zap.Logger) *Rules {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rules{anchor: anchor, logger: logger}
}

// Load builds the rule set for anchor from every source enabled in opts.
func Load(anchor string, opts Options, logger *zap.Logger) (*Rules, error) {
	absAnchor, err := filepath.Abs(anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ignore anchor: %w", err)
	}
	r := New(absAnchor, logger)

	if opts.GlobalFile != "" {
		if err := r.CompileIgnoreFile(opts.GlobalFile); err != nil {
			return nil, fmt.Errorf("failed to load global ignore file: %w", err)
		}
	}

	if !opts.NoGitignore {
		r.loadGitignores()
	}

	if !opts.NoCustomIgnore {
		for _, name := range []string{LegacyIgnoreFile, CustomIgnoreFile} {
			if err := r.CompileIgnoreFile(filepath.Join(absAnchor, name)); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", name, err)
			}
		}
	}

	if len(opts.Extra) > 0 {
		r.compileLines("flag", opts.Extra)
	}

	r.logger.Debug("Loaded ignore rules",
		zap.String("anchor", absAnchor),
		zap.Int("ruleCount", r.Len()))
	return r, nil
}

// loadGitignores reads the user's core.excludesfile and every .gitignore
// under the anchor. Failures are logged; a broken ignore file should not
// stop the run.
func (r *Rules) loadGitignores() {
	root := osfs.New("/")
	global, err := gitignore.LoadGlobalPatterns(root)
	if err != nil {
		r.logger.Warn("Failed to load global gitignore", zap.Error(err))
	}
	for _, p := range global {
		r.rules = append(r.rules, &Rule{Pattern: p, Source: "core.excludesfile"})
	}

	patterns, err := gitignore.ReadPatterns(osfs.New(r.anchor), nil)
	if err != nil {
		r.logger.Warn("Failed to read .gitignore files", zap.String("anchor", r.anchor), zap.Error(err))
		return
	}
	for _, p := range patterns {
		r.rules = append(r.rules, &Rule{Pattern: p, Source: ".gitignore"})
	}
	r.logger.Debug("Compiled .gitignore patterns", zap.Int("patternCount", len(patterns)))
}

// CompileIgnoreFile reads an ignore file and appends its rules. A missing
// file is not an error.
func (r *Rules) CompileIgnoreFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			r.logger.Debug("Ignore file does not exist and will be skipped", zap.String("filePath", path))
			return nil
		}
		return err
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	r.compileLines(path, lines)
	r.logger.Debug("Compiled ignore file", zap.String("filePath", path), zap.Int("lineCount", len(lines)))
	return nil
}

// CompileIgnoreLines appends rules from in-memory pattern lines.
func (r *Rules) CompileIgnoreLines(lines ...string) {
	r.compileLines("flag", lines)
}

func (r *Rules) compileLines(source string, lines []string) {
	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		if strings.TrimSpace(trimmed) == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		r.rules = append(r.rules, &Rule{
			Pattern: gitignore.ParsePattern(trimmed, nil),
			Source:  source,
			Line:    trimmed,
			LineNo:  i + 1,
		})
	}
}

// Anchor returns the absolute directory rule paths are relative to.
func (r *Rules) Anchor() string { return r.anchor }

// Len returns the number of loaded rules.
func (r *Rules) Len() int { return len(r.rules) }

// MatchesPath reports whether rel (relative to the anchor) is ignored.
func (r *Rules) MatchesPath(rel string, isDir bool) bool {
	matched, _ := r.MatchesPathWithRule(rel, isDir)
	return matched
}

// MatchesPathWithRule is MatchesPath that also returns the deciding rule.
// The rule is nil when nothing matched or the path is inside .git.
func (r *Rules) MatchesPathWithRule(rel string, isDir bool) (bool, *Rule) {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false, nil
	}
	if parts[0] == ".." {
		// Outside the anchor: no rule applies.
		return false, nil
	}
	for _, part := range parts {
		if part == ".git" {
			return true, nil
		}
	}

	for i := len(r.rules) - 1; i >= 0; i-- {
		switch r.rules[i].Pattern.Match(parts, isDir) {
		case gitignore.Exclude:
			return true, r.rules[i]
		case gitignore.Include:
			return false, r.rules[i]
		}
	}
	return false, nil
}

// Fields describes the rule for structured logs.
func (r *Rule) Fields() []zap.Field {
	if r == nil {
		return []zap.Field{zap.String("rule", ".git")}
	}
	fields := []zap.Field{zap.String("source", r.Source)}
	if r.Line != "" {
		fields = append(fields, zap.String("rule", r.Line), zap.Int("lineNo", r.LineNo))
	}
	return fields
}

func splitPath(rel string) []string {
	rel = filepath.ToSlash(filepath.Clean(rel))
	if rel == "." || rel == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(rel, "/"), "/")
}
