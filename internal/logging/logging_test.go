package logging

import (
	"bytes"
	"testing"
)

func TestSetupRejectsInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	err := Setup(&Config{Name: "regilo", Level: "NOPE", Writer: &buf})
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestSetupAcceptsKnownLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(&Config{Name: "regilo", Level: "INFO", Writer: &buf}); err != nil {
		t.Fatalf("Setup: %s", err)
	}
}

func TestNewLogFilterDefaultsToWarn(t *testing.T) {
	f := NewLogFilter()
	if f.MinLevel != "WARN" {
		t.Fatalf("expected default min level WARN, got %s", f.MinLevel)
	}
}

func TestValidateLevelFilterRejectsUnknownLevel(t *testing.T) {
	f := NewLogFilter()
	if ValidateLevelFilter("BOGUS", f) {
		t.Fatal("expected unknown level to be rejected")
	}
	if !ValidateLevelFilter("ERR", f) {
		t.Fatal("expected ERR to be a recognized level")
	}
}

