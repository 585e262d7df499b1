package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_RootAndNestedGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.log\nbuild/\n")
	writeFile(t, filepath.Join(dir, "src", ".gitignore"), "generated.go\n")

	r, err := Load(dir, Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, r.MatchesPath("debug.log", false))
	assert.True(t, r.MatchesPath("src/deep/trace.log", false))
	assert.True(t, r.MatchesPath("build", true))
	assert.True(t, r.MatchesPath("src/generated.go", false))
	assert.False(t, r.MatchesPath("generated.go", false), "nested rule only applies below src")
	assert.False(t, r.MatchesPath("src/main.go", false))
}

func TestLoad_Negation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.log\n!keep.log\n")

	r, err := Load(dir, Options{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, r.MatchesPath("drop.log", false))
	matched, rule := r.MatchesPathWithRule("keep.log", false)
	assert.False(t, matched)
	require.NotNil(t, rule)
	assert.Equal(t, ".gitignore", rule.Source)
}

func TestLoad_NoGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.log\n")

	r, err := Load(dir, Options{NoGitignore: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, r.MatchesPath("debug.log", false))
}

func TestLoad_CustomIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, CustomIgnoreFile), "# comment\n\nsecrets/\n")

	r, err := Load(dir, Options{NoGitignore: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	matched, rule := r.MatchesPathWithRule("secrets", true)
	assert.True(t, matched)
	require.NotNil(t, rule)
	assert.Equal(t, "secrets/", rule.Line)
	assert.Equal(t, 3, rule.LineNo)

	r, err = Load(dir, Options{NoGitignore: true, NoCustomIgnore: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, r.MatchesPath("secrets", true))
}

func TestLoad_LegacyIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, LegacyIgnoreFile), "*.bak\n")
	writeFile(t, filepath.Join(dir, CustomIgnoreFile), "!keep.bak\n")

	r, err := Load(dir, Options{NoGitignore: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, r.MatchesPath("old.bak", false))
	assert.False(t, r.MatchesPath("keep.bak", false), ".aggignore overrides to_ignore")

	r, err = Load(dir, Options{NoGitignore: true, NoCustomIgnore: true}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, r.MatchesPath("old.bak", false))
}

func TestRule_Fields(t *testing.T) {
	r := New(t.TempDir(), nil)
	r.CompileIgnoreLines("*.log")

	_, rule := r.MatchesPathWithRule("debug.log", false)
	require.NotNil(t, rule)
	fields := rule.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "flag", fields[0].String)
	assert.Equal(t, "*.log", fields[1].String)
	assert.Equal(t, int64(1), fields[2].Integer)

	matched, rule := r.MatchesPathWithRule(".git/HEAD", false)
	assert.True(t, matched)
	assert.Nil(t, rule)
	assert.Equal(t, ".git", rule.Fields()[0].String)
}

func TestLoad_GlobalFileAndExtra(t *testing.T) {
	dir := t.TempDir()
	global := filepath.Join(t.TempDir(), "global-ignore")
	writeFile(t, global, "*.tmp\n")

	r, err := Load(dir, Options{
		NoGitignore: true,
		GlobalFile:  global,
		Extra:       []string{"vendor/", "!important.tmp"},
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.True(t, r.MatchesPath("x.tmp", false))
	assert.False(t, r.MatchesPath("important.tmp", false), "flag patterns override the global file")
	assert.True(t, r.MatchesPath("vendor", true))
	assert.Equal(t, 3, r.Len())
}

func TestLoad_MissingGlobalFileIsIgnored(t *testing.T) {
	r, err := Load(t.TempDir(), Options{
		NoGitignore: true,
		GlobalFile:  filepath.Join(t.TempDir(), "does-not-exist"),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestMatchesPath_GitDirAlwaysIgnored(t *testing.T) {
	r := New(t.TempDir(), nil)
	assert.True(t, r.MatchesPath(".git", true))
	assert.True(t, r.MatchesPath("sub/.git/config", false))
	assert.False(t, r.MatchesPath(".gitignore", false))
}

func TestMatchesPath_OutsideAnchor(t *testing.T) {
	r := New(t.TempDir(), nil)
	r.CompileIgnoreLines("*")
	assert.False(t, r.MatchesPath("../elsewhere/file.go", false))
	assert.False(t, r.MatchesPath(".", true))
	assert.True(t, r.MatchesPath("file.go", false))
}
