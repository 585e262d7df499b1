package aggregate

import (
	"context"
	"errors"
	"strings"

	"aggfiles/pkg/remote"
)

var (
	// ErrNoPatterns is returned when a run has nothing to select files with.
	ErrNoPatterns = errors.New("at least one pattern is required")
	// ErrBinaryContent marks a matched file whose content is not UTF-8 text.
	ErrBinaryContent = errors.New("binary or non-UTF-8 content")
)

// separatorLine frames the header of every file block.
var separatorLine = "# " + strings.Repeat("-", 78)

// Candidate is a matched file waiting to be read.
type Candidate struct {
	Path string // Display path, slash separated.
	Key  string // Canonical identity used for de-duplication.
	Size int64  // Size in bytes, -1 when unknown.
	load func(ctx context.Context) ([]byte, error)
}

// FileContent holds the formatted block of a single file.
type FileContent struct {
	Path    string // Display path of the file.
	Content string // Header plus content, or header plus error placeholder.
	Failed  bool   // True when Content is an error placeholder.
}

// Summary reports what a run did.
type Summary struct {
	Patterns int // Number of patterns compiled.
	Matched  int // Distinct files that matched a pattern.
	Emitted  int // Files whose content was written.
	Failed   int // Files written as an error placeholder.
	Skipped  int // Files left out by the size or line limits.
}

// RemoteSource lists and fetches files of a hosted tree.
type RemoteSource interface {
	ResolveBranch(ctx context.Context, ref remote.TreeRef) (remote.TreeRef, error)
	List(ctx context.Context, ref remote.TreeRef) ([]remote.Entry, error)
	Fetch(ctx context.Context, ref remote.TreeRef, e remote.Entry) ([]byte, error)
}
