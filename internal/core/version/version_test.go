package version

import (
	"runtime/debug"
	"testing"

	"fleetdash/internal/platform/testkit"
)

func noBuild() (*debug.BuildInfo, bool) { return nil, false }

func TestInfo_Defaults(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &readBuild, noBuild)

	got := Info()
	if got.Service != "fleetdash-api" {
		t.Fatalf("service = %q", got.Service)
	}
	if got.Version != "dev" || got.Commit != "none" || got.Date != "unknown" {
		t.Fatalf("unexpected defaults: %+v", got)
	}
}

func TestInfo_VCSFallback(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &readBuild, func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "9f1c2e7"},
			{Key: "vcs.time", Value: "2025-09-22T00:06:24Z"},
		}}, true
	})

	got := Info()
	if got.Commit != "9f1c2e7" || got.Date != "2025-09-22T00:06:24Z" {
		t.Fatalf("vcs fallback = %+v", got)
	}
}

func TestInfo_LinkerWins(t *testing.T) {
	testkit.Serial(t)
	testkit.Swap(t, &version, "v0.3.1")
	testkit.Swap(t, &commit, "abc1234")
	testkit.Swap(t, &readBuild, func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ignored"}}}, true
	})

	got := Info()
	if got.Version != "v0.3.1" || got.Commit != "abc1234" {
		t.Fatalf("linker values lost: %+v", got)
	}
}
