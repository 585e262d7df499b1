package aggregate

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"aggfiles/pkg/ignore"
	"aggfiles/pkg/pattern"
	"aggfiles/pkg/remote"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// collectRemote lists the hosted tree once and matches every pattern against
// it. Patterns are relative to the tree named by the URL; a pattern's static
// base narrows the search to that subdirectory.
func (a *Aggregator) collectRemote(ctx context.Context, matchers []*pattern.Matcher) ([]Candidate, error) {
	ref, err := remote.ParseTreeURL(a.args.URL)
	if err != nil {
		return nil, err
	}

	src := a.newRemote()
	if ref, err = src.ResolveBranch(ctx, ref); err != nil {
		return nil, err
	}
	entries, err := src.List(ctx, ref)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Listed remote tree", zap.String("ref", ref.String()), zap.Int("entryCount", len(entries)))

	// Only command-line ignore patterns apply to remote trees.
	rules := ignore.New("", a.logger)
	rules.CompileIgnoreLines(a.args.IgnorePatterns...)

	var candidates []Candidate
	for _, m := range matchers {
		base := strings.Trim(m.Base(), "/")
		if base == "." {
			base = ""
		}
		match := m.Match

		if m.Literal() {
			lit := path.Clean(strings.Trim(filepath.ToSlash(m.String()), "/"))
			if e, ok := lo.Find(entries, func(e remote.Entry) bool { return e.Path == lit }); ok {
				candidates = a.add(candidates, remoteCandidate(src, ref, e))
				continue
			}
			switch {
			case lit == ".":
				base, match = "", matchAll
			case lo.ContainsBy(entries, func(e remote.Entry) bool { return strings.HasPrefix(e.Path, lit+"/") }):
				// An existing directory: select its files like "lit/" would.
				base, match = lit, matchAll
			}
		}

		for _, e := range entries {
			rel, ok := relativeTo(base, e.Path)
			if !ok {
				continue
			}
			if !a.args.Recursive && strings.Contains(rel, "/") {
				continue
			}
			if rules.MatchesPath(e.Path, false) || ignoredParent(rules, e.Path) {
				continue
			}
			if !match(rel) {
				continue
			}
			candidates = a.add(candidates, remoteCandidate(src, ref, e))
		}
	}
	return candidates, nil
}

func matchAll(string) bool { return true }

func remoteCandidate(src RemoteSource, ref remote.TreeRef, e remote.Entry) Candidate {
	return Candidate{
		Path: e.Path,
		Key:  ref.Key(e.RepoPath),
		Size: int64(e.Size),
		load: func(ctx context.Context) ([]byte, error) {
			return src.Fetch(ctx, ref, e)
		},
	}
}

// relativeTo returns p relative to base when p lies below it.
func relativeTo(base, p string) (string, bool) {
	if base == "" {
		return p, true
	}
	rel, ok := strings.CutPrefix(p, base+"/")
	return rel, ok && rel != ""
}

// ignoredParent reports whether any parent directory of p is ignored.
func ignoredParent(rules *ignore.Rules, p string) bool {
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if rules.MatchesPath(dir, true) {
			return true
		}
	}
	return false
}
