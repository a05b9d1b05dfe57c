package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func stubBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()
	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
	t.Cleanup(func() { readBuildInfo = orig })
}

func restoreVars(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestString(t *testing.T) {
	restoreVars(t)
	stubBuildInfo(t, nil)

	Commit, Date = "unknown", "unknown"
	if got := String(); !strings.HasPrefix(got, "contrastcheck version "+Version+" (") {
		t.Errorf("String() = %q", got)
	}

	Commit, Date = "0123456789abcdef", "2025-01-01T00:00:00Z"
	if got := String(); !strings.Contains(got, "commit: 01234567,") {
		t.Errorf("String() = %q, want shortened commit", got)
	}

	Commit = "abc"
	if got := String(); !strings.Contains(got, "commit: abc,") {
		t.Errorf("String() = %q, want short commit kept", got)
	}
}

func TestBuildInfoFallback(t *testing.T) {
	restoreVars(t)
	Version, Commit, Date = "dev", "unknown", "unknown"
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "fedcba9876543210"},
			{Key: "vcs.time", Value: "2026-03-01T10:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	if got := Short(); got != "v0.4.0" {
		t.Errorf("Short() = %q, want v0.4.0", got)
	}
	got := String()
	for _, want := range []string{"version v0.4.0", "commit: fedcba98-dirty,", "built: 2026-03-01T10:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}

func TestLdflagsWinOverBuildInfo(t *testing.T) {
	restoreVars(t)
	Version, Commit, Date = "v1.0.0", "1111111122222222", "2026-01-01T00:00:00Z"
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffff"}},
	})

	got := String()
	if !strings.Contains(got, "version v1.0.0") || !strings.Contains(got, "commit: 11111111,") {
		t.Errorf("String() = %q", got)
	}
}
