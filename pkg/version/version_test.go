package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	s := Info{Version: "1.2.3", GitCommit: "abc", BuildTime: "now", GoVersion: "go1.23", Platform: "linux/amd64"}.String()
	assert.True(t, strings.HasPrefix(s, "agg-files version 1.2.3"))
	assert.Contains(t, s, "(commit: abc)")
	assert.Contains(t, s, "on linux/amd64")
}
