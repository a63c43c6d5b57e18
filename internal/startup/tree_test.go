package startup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Assada/regilo/internal/config"
)

func TestEnsureTreeCreatesNestedDirs(t *testing.T) {
	base := t.TempDir()

	spec := config.TreeSpec{
		"data": config.TreeEntry{
			Tree: config.TreeSpec{
				"logs": config.TreeEntry{},
			},
		},
	}

	if err := ensureTree(base, spec); err != nil {
		t.Fatalf("ensureTree: %s", err)
	}

	if info, err := os.Stat(filepath.Join(base, "data", "logs")); err != nil || !info.IsDir() {
		t.Fatalf("expected nested directory to exist, got err=%v", err)
	}
}

func TestEnsureTreeIsIdempotent(t *testing.T) {
	base := t.TempDir()
	spec := config.TreeSpec{"data": config.TreeEntry{}}

	if err := ensureTree(base, spec); err != nil {
		t.Fatalf("first ensureTree: %s", err)
	}
	if err := ensureTree(base, spec); err != nil {
		t.Fatalf("second ensureTree should be idempotent: %s", err)
	}
}

func TestEnsureTreeAppliesPermissions(t *testing.T) {
	base := t.TempDir()
	spec := config.TreeSpec{
		"restricted": config.TreeEntry{Permissions: "0700"},
	}

	if err := ensureTree(base, spec); err != nil {
		t.Fatalf("ensureTree: %s", err)
	}

	info, err := os.Stat(filepath.Join(base, "restricted"))
	if err != nil {
		t.Fatalf("Stat: %s", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Fatalf("expected mode 0700, got %o", info.Mode().Perm())
	}
}
