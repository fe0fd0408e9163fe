package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	oldVersion, oldCommit := Version, Commit
	defer func() { Version, Commit = oldVersion, oldCommit }()

	tests := []struct {
		version, commit, want string
	}{
		{"dev", "none", "dev (none)"},
		{"v1.2.3", "0123456789abcdef", "v1.2.3 (0123456)"},
	}
	for _, tt := range tests {
		Version, Commit = tt.version, tt.commit
		if got := Short(); got != tt.want {
			t.Errorf("Short() = %q, want %q", got, tt.want)
		}
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} version "+Version) {
		t.Errorf("Template() = %q", got)
	}
	if !strings.Contains(String(), "commit: "+Commit) {
		t.Errorf("String() = %q", String())
	}
}

func TestFillFromBuildInfo(t *testing.T) {
	oldVersion, oldCommit, oldDate := Version, Commit, Date
	defer func() { Version, Commit, Date = oldVersion, oldCommit, oldDate }()

	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeefcafe"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	Version, Commit, Date = "dev", "none", "unknown"
	fillFromBuildInfo(bi)
	if Version != "v0.3.1" || Commit != "deadbeefcafe" || Date != "2026-01-02T03:04:05Z" {
		t.Errorf("got %s/%s/%s", Version, Commit, Date)
	}

	Version, Commit, Date = "v1.0.0", "abc", "today"
	fillFromBuildInfo(bi)
	if Version != "v1.0.0" || Commit != "abc" || Date != "today" {
		t.Errorf("ldflags values overwritten: %s/%s/%s", Version, Commit, Date)
	}

	Version = "dev"
	fillFromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("(devel) should be ignored, got %s", Version)
	}
}
