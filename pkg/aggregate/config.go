// File: pkg/aggregate/config.go
package aggregate

import "aggfiles/pkg/ignore"

// Arguments holds the configuration options for one aggregation run.
type Arguments struct {
	Patterns         []string // Glob or "re:" patterns selecting the files to print.
	Recursive        bool     // Descend into subdirectories of every search root.
	URL              string   // Hosted tree URL; when set the local filesystem is not read.
	Dir              string   // Directory local patterns are resolved against; empty means the working directory.
	NoGitignore      bool     // Do not apply .gitignore rules.
	NoCustomIgnore   bool     // Do not apply the .aggignore file.
	GlobalIgnoreFile string   // Optional path to an additional ignore file.
	IgnorePatterns   []string // Additional ignore patterns provided via command-line arguments.
	MaxFileSizeKB    int      // Files larger than this are skipped; 0 disables the limit.
	MaxLines         int      // Files with more lines than this are skipped; 0 disables the limit.
	Tree             bool     // Print a tree of the emitted files before their contents.
	GitHubToken      string   // Optional token for the GitHub API.
}

// ignoreOptions translates the ignore related arguments.
func (a *Arguments) ignoreOptions() ignore.Options {
	return ignore.Options{
		NoGitignore:    a.NoGitignore,
		NoCustomIgnore: a.NoCustomIgnore,
		GlobalFile:     a.GlobalIgnoreFile,
		Extra:          a.IgnorePatterns,
	}
}
