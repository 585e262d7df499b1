// Package pattern compiles the file selection patterns accepted on the
// command line. A pattern is either a glob (doublestar syntax: '*', '**',
// '?', '[a-z]' and '{a,b}') or, when prefixed with "re:", a regular
// expression tested against the slash-separated path relative to the
// search root.
package pattern

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RegexPrefix marks a pattern as a regular expression.
const RegexPrefix = "re:"

// ErrBadPattern is returned for patterns that cannot be compiled.
var ErrBadPattern = errors.New("malformed pattern")

// Matcher is a compiled pattern. It is immutable once built.
type Matcher struct {
	raw     string         // Pattern as supplied by the user.
	base    string         // Static directory prefix, "." when there is none.
	glob    string         // Part of the glob below base.
	re      *regexp.Regexp // Set for regex patterns only.
	literal bool           // True when the pattern has no meta characters.
}

// Compile parses raw into a Matcher.
func Compile(raw string) (*Matcher, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty pattern", ErrBadPattern)
	}

	if expr, ok := strings.CutPrefix(raw, RegexPrefix); ok {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrBadPattern, raw, err)
		}
		return &Matcher{raw: raw, base: ".", re: re}, nil
	}

	slashed := filepath.ToSlash(raw)
	if !doublestar.ValidatePattern(slashed) {
		return nil, fmt.Errorf("%w %q: %w", ErrBadPattern, raw, doublestar.ErrBadPattern)
	}

	base, glob := doublestar.SplitPattern(slashed)
	if glob == "" {
		// Trailing slash: "src/" selects everything below src.
		glob = "*"
	}

	return &Matcher{
		raw:     raw,
		base:    path.Clean(base),
		glob:    glob,
		literal: !hasMeta(slashed),
	}, nil
}

// Base returns the static directory the pattern is rooted at, slash separated.
func (m *Matcher) Base() string { return m.base }

// Literal reports whether the pattern contains no glob meta characters.
func (m *Matcher) Literal() bool { return m.literal }

// String returns the pattern as it was supplied.
func (m *Matcher) String() string { return m.raw }

// Match reports whether rel, a slash-separated path relative to Base,
// matches the pattern. A glob without a '/' is tested against the last
// element of rel only, so "*.go" finds files at any depth of a recursive walk.
func (m *Matcher) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if m.re != nil {
		return m.re.MatchString(rel)
	}

	target := rel
	if !strings.Contains(m.glob, "/") {
		target = path.Base(rel)
	}

	// The glob was validated in Compile, so Match cannot fail here.
	ok, _ := doublestar.Match(m.glob, target)
	return ok
}

// CompileAll compiles every pattern, stopping at the first failure.
func CompileAll(raws []string) ([]*Matcher, error) {
	matchers := make([]*Matcher, 0, len(raws))
	for _, raw := range raws {
		m, err := Compile(raw)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, `*?[{\`)
}
