// Package version reports which contrastcheck build is running.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set by the release build:
//
//	-ldflags "-X github.com/jmylchreest/contrastcheck/internal/version.Version=v1.2.3
//	          -X github.com/jmylchreest/contrastcheck/internal/version.Commit=$(git rev-parse HEAD)
//	          -X github.com/jmylchreest/contrastcheck/internal/version.Date=$(date -u +%FT%TZ)"
//
// Builds without ldflags (go install, go run) fall back to the module build info.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// build is the resolved identity of the running binary.
type build struct {
	version  string
	revision string
	time     string
	modified bool
}

func current() build {
	b := build{version: Version, revision: Commit, time: Date}

	info, ok := readBuildInfo()
	if !ok {
		return b
	}
	if b.version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.revision == "unknown" {
				b.revision = s.Value
			}
		case "vcs.time":
			if b.time == "unknown" {
				b.time = s.Value
			}
		case "vcs.modified":
			b.modified = s.Value == "true"
		}
	}
	return b
}

// String is the full line printed by the version command.
func String() string {
	b := current()
	platform := runtime.GOOS + "/" + runtime.GOARCH

	if b.revision == "unknown" || b.time == "unknown" {
		return fmt.Sprintf("contrastcheck version %s (%s, %s)", b.version, runtime.Version(), platform)
	}

	rev := shortCommit(b.revision)
	if b.modified {
		rev += "-dirty"
	}
	return fmt.Sprintf("contrastcheck version %s (commit: %s, built: %s, %s, %s)",
		b.version, rev, b.time, runtime.Version(), platform)
}

// Short is the bare version, used for --version.
func Short() string {
	return current().version
}

func shortCommit(c string) string {
	if len(c) > 8 {
		return c[:8]
	}
	return c
}
