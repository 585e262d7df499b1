// Package remote lists and fetches files from a hosted repository tree
// (GitHub) so they can be aggregated without a local checkout.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// DefaultHTTPTimeout bounds every request made to the hosting service.
const DefaultHTTPTimeout = 30 * time.Second

var (
	// ErrUnsupportedURL is returned for URLs that are not a recognised tree view.
	ErrUnsupportedURL = errors.New("unsupported listing URL")
	// ErrListing is returned when the tree listing cannot be retrieved.
	ErrListing = errors.New("failed to list remote tree")
	// ErrFetch is returned when a single file's content cannot be retrieved.
	ErrFetch = errors.New("failed to fetch remote file")
)

// Entry is a file found in a remote tree.
type Entry struct {
	Path     string // Relative to the TreeRef path.
	RepoPath string // Relative to the repository root.
	SHA      string // Blob SHA.
	Size     int    // Size in bytes as reported by the listing.
}

// Lister reads trees and blobs through the GitHub REST API.
type Lister struct {
	client *github.Client
	logger *zap.Logger
}

// NewLister wraps an existing GitHub client.
func NewLister(client *github.Client, logger *zap.Logger) *Lister {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lister{client: client, logger: logger}
}

// NewGitHubLister creates a Lister talking to api.github.com. The token is
// optional and only raises rate limits.
func NewGitHubLister(token string, logger *zap.Logger) *Lister {
	client := github.NewClient(&http.Client{Timeout: DefaultHTTPTimeout})
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return NewLister(client, logger)
}

// ResolveBranch fills in the default branch when ref has none.
func (l *Lister) ResolveBranch(ctx context.Context, ref TreeRef) (TreeRef, error) {
	if ref.Branch != "" {
		return ref, nil
	}
	repo, _, err := l.client.Repositories.Get(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return ref, fmt.Errorf("%w: %s/%s: %w", ErrListing, ref.Owner, ref.Repo, err)
	}
	ref.Branch = repo.GetDefaultBranch()
	if ref.Branch == "" {
		return ref, fmt.Errorf("%w: %s/%s has no default branch", ErrListing, ref.Owner, ref.Repo)
	}
	l.logger.Debug("Resolved default branch", zap.String("repo", ref.Owner+"/"+ref.Repo), zap.String("branch", ref.Branch))
	return ref, nil
}

// List returns every file below ref.Path, in listing order. The ref must
// carry a branch; see ResolveBranch.
func (l *Lister) List(ctx context.Context, ref TreeRef) ([]Entry, error) {
	l.logger.Debug("Listing remote tree", zap.String("ref", ref.String()))

	tree, _, err := l.client.Git.GetTree(ctx, ref.Owner, ref.Repo, ref.Branch, true)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrListing, ref, err)
	}
	if tree.GetTruncated() {
		l.logger.Warn("Remote tree listing was truncated by the server",
			zap.String("ref", ref.String()),
			zap.Int("entryCount", len(tree.Entries)))
	}

	prefix := ""
	if ref.Path != "" {
		prefix = ref.Path + "/"
	}
	blobs := lo.Filter(tree.Entries, func(e *github.TreeEntry, _ int) bool {
		return e.GetType() == "blob" && strings.HasPrefix(e.GetPath(), prefix)
	})
	if ref.Path != "" && len(blobs) == 0 && !hasDir(tree.Entries, ref.Path) {
		return nil, fmt.Errorf("%w: path %q not found in %s/%s", ErrListing, ref.Path, ref.Owner, ref.Repo)
	}

	entries := make([]Entry, 0, len(blobs))
	for _, b := range blobs {
		entries = append(entries, Entry{
			Path:     strings.TrimPrefix(b.GetPath(), prefix),
			RepoPath: b.GetPath(),
			SHA:      b.GetSHA(),
			Size:     b.GetSize(),
		})
	}

	l.logger.Debug("Listed remote tree", zap.String("ref", ref.String()), zap.Int("fileCount", len(entries)))
	return entries, nil
}

// Fetch downloads the raw content of a single entry.
func (l *Lister) Fetch(ctx context.Context, ref TreeRef, e Entry) ([]byte, error) {
	data, _, err := l.client.Git.GetBlobRaw(ctx, ref.Owner, ref.Repo, e.SHA)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrFetch, e.RepoPath, err)
	}
	return data, nil
}

func hasDir(entries []*github.TreeEntry, dir string) bool {
	return lo.ContainsBy(entries, func(e *github.TreeEntry) bool {
		return e.GetType() == "tree" && path.Clean(e.GetPath()) == dir
	})
}
