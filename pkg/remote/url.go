package remote

import (
	"fmt"
	"net/url"
	"strings"

	giturl "github.com/kubescape/go-git-url"
)

const githubHost = "github.com"

// TreeRef identifies a directory inside a hosted repository.
type TreeRef struct {
	Owner  string
	Repo   string
	Branch string // Empty means the repository's default branch.
	Path   string // Directory inside the repository, slash separated, "" for the root.
}

// String renders the reference as owner/repo@branch:path.
func (r TreeRef) String() string {
	branch := r.Branch
	if branch == "" {
		branch = "HEAD"
	}
	return fmt.Sprintf("%s/%s@%s:%s", r.Owner, r.Repo, branch, r.Path)
}

// Key returns the de-duplication key for a file at repoPath.
func (r TreeRef) Key(repoPath string) string {
	return fmt.Sprintf("%s/%s@%s:%s", r.Owner, r.Repo, r.Branch, repoPath)
}

// ParseTreeURL parses a GitHub repository or tree URL such as
// https://github.com/owner/repo/tree/main/pkg.
func ParseTreeURL(raw string) (TreeRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return TreeRef{}, fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}
	if !strings.EqualFold(strings.TrimPrefix(u.Host, "www."), githubHost) {
		return TreeRef{}, fmt.Errorf("%w: host %q is not %s", ErrUnsupportedURL, u.Host, githubHost)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return TreeRef{}, fmt.Errorf("%w: %q does not name a repository", ErrUnsupportedURL, raw)
	}
	if len(segments) > 2 && segments[2] != "tree" {
		return TreeRef{}, fmt.Errorf("%w: %q is not a tree view", ErrUnsupportedURL, raw)
	}

	gitURL, err := giturl.NewGitURL(raw)
	if err != nil {
		return TreeRef{}, fmt.Errorf("%w: %w", ErrUnsupportedURL, err)
	}

	return TreeRef{
		Owner:  gitURL.GetOwnerName(),
		Repo:   strings.TrimSuffix(gitURL.GetRepoName(), ".git"),
		Branch: gitURL.GetBranchName(),
		Path:   strings.Trim(gitURL.GetPath(), "/"),
	}, nil
}
