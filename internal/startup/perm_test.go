package startup

import (
	"os"
	"testing"
)

func TestParseModeEmptyMeansUnset(t *testing.T) {
	mode, ok, err := parseMode("")
	if err != nil {
		t.Fatalf("parseMode: %s", err)
	}
	if ok {
		t.Fatalf("expected ok=false for empty string, got mode %v", mode)
	}
}

func TestParseModeOctal(t *testing.T) {
	mode, ok, err := parseMode("0755")
	if err != nil {
		t.Fatalf("parseMode: %s", err)
	}
	if !ok {
		t.Fatal("expected ok=true for a valid octal string")
	}
	if mode != os.FileMode(0755) {
		t.Fatalf("expected mode 0755, got %o", mode)
	}
}

func TestParseModeRejectsGarbage(t *testing.T) {
	if _, _, err := parseMode("not-octal"); err == nil {
		t.Fatal("expected error for non-octal permissions string")
	}
}

func TestResolveOwnershipUnknownUser(t *testing.T) {
	if _, _, err := resolveOwnership("no-such-user-xyz", "no-such-group-xyz"); err == nil {
		t.Fatal("expected error for unknown owner")
	}
}
