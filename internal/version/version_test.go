package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should not be empty")
	}
	s := String()
	if !strings.HasPrefix(s, "sitebuilder ") {
		t.Errorf("unexpected version line %q", s)
	}
	if !strings.Contains(s, GitCommit) {
		t.Errorf("version line %q should include commit", s)
	}
}
