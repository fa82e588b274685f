package buildinfo

import (
	"strings"
	"testing"
)

func TestShort(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "v1.2.0", "3f2a1c9d8e7b"
	if got := Short(); got != "v1.2.0 (3f2a1c9)" {
		t.Errorf("Short() = %q", got)
	}
	Commit = "none"
	if got := Short(); got != "v1.2.0" {
		t.Errorf("Short() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.HasPrefix(Template(), "{{.Name}} version ") {
		t.Errorf("Template() = %q", Template())
	}
}
