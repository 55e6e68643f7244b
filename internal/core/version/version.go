// Package version reports what build of fleetdash is running
package version

import "runtime/debug"

// stamped with
//
//	-ldflags "-X fleetdash/internal/core/version.version=v0.4.0 -X fleetdash/internal/core/version.commit=$(git rev-parse --short HEAD)"
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var readBuild = debug.ReadBuildInfo

// BuildInfo is served by /meta/version and tags warehouse clients
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info prefers linker values and falls back to the vcs stamp go build records
func Info() BuildInfo {
	bi := BuildInfo{Service: "fleetdash-api", Version: version, Commit: commit, Date: date}
	if bi.Commit == "" || bi.Date == "" {
		if b, ok := readBuild(); ok {
			for _, s := range b.Settings {
				switch {
				case s.Key == "vcs.revision" && bi.Commit == "":
					bi.Commit = s.Value
				case s.Key == "vcs.time" && bi.Date == "":
					bi.Date = s.Value
				}
			}
		}
	}
	if bi.Commit == "" {
		bi.Commit = "none"
	}
	if bi.Date == "" {
		bi.Date = "unknown"
	}
	return bi
}
