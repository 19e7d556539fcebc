package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name                string
		version, commit     string
		info                debug.BuildInfo
		wantVer, wantCommit string
		wantDate            string
	}{
		{
			name:    "fills defaults",
			version: "dev", commit: "none",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}, {Key: "vcs.time", Value: "2026-01-02T03:04:05Z"}},
			},
			wantVer: "v0.3.0", wantCommit: "abc", wantDate: "2026-01-02T03:04:05Z",
		},
		{
			name:    "ldflags win",
			version: "v1.0.0", commit: "fff",
			info: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.0"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc"}},
			},
			wantVer: "v1.0.0", wantCommit: "fff", wantDate: "unknown",
		},
		{
			name:    "devel build",
			version: "dev", commit: "none",
			info:    debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			wantVer: "dev", wantCommit: "none", wantDate: "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldV, oldC, oldD := Version, Commit, Date
			defer func() { Version, Commit, Date = oldV, oldC, oldD }()

			Version, Commit, Date = tt.version, tt.commit, "unknown"
			resolve(&tt.info)
			if Version != tt.wantVer || Commit != tt.wantCommit || Date != tt.wantDate {
				t.Errorf("resolve() = %s %s %s, want %s %s %s", Version, Commit, Date, tt.wantVer, tt.wantCommit, tt.wantDate)
			}
		})
	}
}

func TestTemplate(t *testing.T) {
	if got := Template(); !strings.Contains(got, Version) || !strings.HasPrefix(got, "{{.Name}} version") {
		t.Errorf("Template() = %q", got)
	}
	if got := String(); !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("String() = %q", got)
	}
}
