package banner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Assada/regilo/internal/config"
)

func TestRenderIncludesConfiguredFields(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{
		Title:       config.String("regilo"),
		Subtitle:    config.String("process supervisor"),
		Authors:     []string{"alice", "bob"},
		Contributors: []string{"carol"},
	}

	Render(&buf, cfg)
	out := buf.String()

	for _, want := range []string{"regilo", "process supervisor", "authors: alice, bob", "contributors: carol"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestRenderOmitsUnsetFields(t *testing.T) {
	var buf bytes.Buffer
	Render(&buf, &config.Config{})

	out := strings.TrimSpace(buf.String())
	if out != "" {
		t.Fatalf("expected empty banner for a bare config, got %q", out)
	}
}
