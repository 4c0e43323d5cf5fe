package version

import (
	"strings"
	"testing"
)

func TestGetVersion(t *testing.T) {
	saved := Version
	defer func() { Version = saved }()

	Version = ""
	if got := GetVersion(); got != "dev" {
		t.Errorf("Expected dev for empty version, got %s", got)
	}

	Version = "1.2.3"
	if got := GetVersion(); got != "1.2.3" {
		t.Errorf("Expected 1.2.3, got %s", got)
	}
}

func TestGetFullVersion(t *testing.T) {
	full := GetFullVersion()
	if !strings.Contains(full, "commit: "+Commit) {
		t.Errorf("Full version should contain the commit, got %s", full)
	}
}
