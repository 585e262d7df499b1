package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"aggfiles/pkg/aggregate"
	"aggfiles/pkg/pattern"
	"aggfiles/pkg/version"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"a.rs":         "fn a() {}\n",
		"a_test.rs":    "#[test]\n",
		"c.txt":        "text\n",
		"src/sub/d.rs": "fn d() {}\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_AggregatesMatchingFiles(t *testing.T) {
	dir := setupDir(t)

	out, _, err := execute(t, "-C", dir, "*.rs")
	require.NoError(t, err)
	assert.Contains(t, out, "# File: a.rs\n")
	assert.Contains(t, out, "fn a() {}\n")
	assert.NotContains(t, out, "c.txt")
	assert.NotContains(t, out, "d.rs")
}

func TestRoot_FlagsAfterPatterns(t *testing.T) {
	dir := setupDir(t)

	out, _, err := execute(t, "*.rs", "-r", "-C", dir, "-e", "*_test.rs")
	require.NoError(t, err)
	assert.Contains(t, out, "# File: src/sub/d.rs\n")
	assert.NotContains(t, out, "a_test.rs")
}

func TestRoot_RequiresPattern(t *testing.T) {
	stdout, stderr, err := execute(t, "-r")
	require.ErrorIs(t, err, aggregate.ErrNoPatterns)
	assert.Contains(t, stdout+stderr, "Usage:")
}

func TestRoot_MalformedPattern(t *testing.T) {
	dir := setupDir(t)

	out, _, err := execute(t, "-C", dir, "*.rs", "{a,b")
	require.ErrorIs(t, err, pattern.ErrBadPattern)
	assert.Empty(t, out)
}

func TestRoot_NoMatchesIsNotAnError(t *testing.T) {
	dir := setupDir(t)

	out, stderr, err := execute(t, "-C", dir, "*.py")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "No files matched")
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := setupDir(t)
	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("recursive: true\ntree: true\n"), 0o644))

	out, _, err := execute(t, "--config", config, "-C", dir, "d.rs")
	require.NoError(t, err)
	assert.Contains(t, out, "└── src/")
	assert.Contains(t, out, "# File: src/sub/d.rs\n")
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "*.rs")
	assert.Error(t, err)
}

func TestArgumentsFromConfig_DefaultRemotePattern(t *testing.T) {
	flags := NewRootCmd().Flags()
	require.NoError(t, flags.Parse([]string{"--url", "https://github.com/o/r", "-e", "docs/", "-e", "*.md"}))
	v := viper.New()
	require.NoError(t, v.BindPFlags(flags))

	args := argumentsFromConfig(v, nil)
	assert.Equal(t, "https://github.com/o/r", args.URL)
	assert.Equal(t, []string{"docs/", "*.md"}, args.IgnorePatterns)
	assert.Equal(t, []string{defaultRemotePattern}, args.Patterns)
	assert.Equal(t, 1024, args.MaxFileSizeKB)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Version+"\n", out)

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "agg-files version "+version.Version)
}
