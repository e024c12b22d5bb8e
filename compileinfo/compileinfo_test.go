package compileinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func TestFromBuildInfo(t *testing.T) {
	info := fromBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.18",
		Path:      "github.com/carbocation/heredity/cmd/heredity",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2022-06-01T06:29:53Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	if info.Commit != "abc123" || !info.Modified || info.CommitTime != "2022-06-01T06:29:53Z" {
		t.Fatalf("Unexpected info: %+v", info)
	}

	s := info.String()
	for _, want := range []string{"cmd/heredity", "go1.18", "abc123", "modified"} {
		if !strings.Contains(s, want) {
			t.Fatalf("%q lacks %q", s, want)
		}
	}
}

func TestEmpty(t *testing.T) {
	if s := (CompileInfo{}).String(); !strings.Contains(s, "unavailable") {
		t.Fatalf("Got %q", s)
	}
}
