// Package buildinfo reports the nmanet version.
//
// Release builds set the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/nmanet/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/nmanet/pkg/buildinfo.Commit=$(git rev-parse HEAD)" ./cmd/nmanet
//
// Binaries built with go install fall back to the module and VCS data the
// toolchain embeds.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var resolveOnce sync.Once

// resolve fills unset variables from the embedded build info.
func resolve() {
	resolveOnce.Do(func() {
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		fill(bi)
	})
}

func fill(bi *debug.BuildInfo) {
	if Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == "none" {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// ShortCommit returns the first twelve characters of the commit.
func ShortCommit() string {
	resolve()
	if len(Commit) > 12 {
		return Commit[:12]
	}
	return Commit
}

// CacheNamespace prefixes cache keys so that artifacts rendered by one build
// are never served to another. Development builds include the commit.
func CacheNamespace() string {
	resolve()
	if Version == "dev" {
		return "nmanet-dev-" + ShortCommit()
	}
	return "nmanet-" + Version
}

// Template returns the version template for cobra.
func Template() string {
	resolve()
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", Version, ShortCommit(), Date)
}
