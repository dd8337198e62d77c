package version

import (
	"strings"
	"testing"
)

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestFull(t *testing.T) {
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "", ""
	if !strings.HasPrefix(Full(), "ksc ") {
		t.Errorf("Full() = %q", Full())
	}

	GitCommit = "abc123"
	BuildDate = "2026-08-29"
	full := Full()
	if !strings.Contains(full, "(abc123)") || !strings.Contains(full, "built 2026-08-29") {
		t.Errorf("Full() = %q", full)
	}
}
