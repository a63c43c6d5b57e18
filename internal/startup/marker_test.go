package startup

import (
	"path/filepath"
	"testing"
)

func TestMarkerRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if markerExists(dir, "abc") {
		t.Fatal("expected marker to not exist before it is written")
	}
	if err := writeMarker(dir, "abc"); err != nil {
		t.Fatalf("writeMarker: %s", err)
	}
	if !markerExists(dir, "abc") {
		t.Fatal("expected marker to exist after it is written")
	}
}

func TestWriteMarkerCreatesStateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	if err := writeMarker(dir, "key"); err != nil {
		t.Fatalf("writeMarker: %s", err)
	}
	if !markerExists(dir, "key") {
		t.Fatal("expected marker to exist under newly created state dir")
	}
}
