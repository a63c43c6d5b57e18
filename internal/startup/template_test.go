package startup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Assada/regilo/internal/config"
)

func TestFillTemplateSubstitutesFromDefaults(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.tmpl")
	target := filepath.Join(dir, "out.conf")

	if err := os.WriteFile(source, []byte("host=%HOST%\nport=%port%\n"), 0644); err != nil {
		t.Fatalf("seed source: %s", err)
	}

	err := fillTemplate(source, &config.TemplateTarget{Path: target}, map[string]string{
		"Host": "db.internal",
		"PORT": "5432",
	})
	if err != nil {
		t.Fatalf("fillTemplate: %s", err)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %s", err)
	}
	if string(raw) != "host=db.internal\nport=5432\n" {
		t.Fatalf("unexpected rendered output: %q", raw)
	}
}

func TestFillTemplatePrefersRealEnvironment(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.tmpl")
	target := filepath.Join(dir, "out.conf")

	if err := os.WriteFile(source, []byte("value=%REGILO_TEMPLATE_VAR%\n"), 0644); err != nil {
		t.Fatalf("seed source: %s", err)
	}
	t.Setenv("REGILO_TEMPLATE_VAR", "from-env")

	err := fillTemplate(source, &config.TemplateTarget{Path: target}, map[string]string{
		"REGILO_TEMPLATE_VAR": "from-default",
	})
	if err != nil {
		t.Fatalf("fillTemplate: %s", err)
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %s", err)
	}
	if string(raw) != "value=from-env\n" {
		t.Fatalf("expected real environment to win, got %q", raw)
	}
}

func TestFillTemplateUnresolvedVariable(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.tmpl")
	target := filepath.Join(dir, "out.conf")

	if err := os.WriteFile(source, []byte("value=%NOWHERE_DEFINED%\n"), 0644); err != nil {
		t.Fatalf("seed source: %s", err)
	}

	err := fillTemplate(source, &config.TemplateTarget{Path: target}, nil)
	if err == nil {
		t.Fatal("expected UnresolvedVariable error")
	}
	if _, ok := err.(*UnresolvedVariable); !ok {
		t.Fatalf("expected *UnresolvedVariable, got %T: %s", err, err)
	}
}

func TestFillTemplateAppliesPermissions(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.tmpl")
	target := filepath.Join(dir, "out.conf")

	if err := os.WriteFile(source, []byte("static text\n"), 0644); err != nil {
		t.Fatalf("seed source: %s", err)
	}

	err := fillTemplate(source, &config.TemplateTarget{Path: target, Permissions: "0600"}, nil)
	if err != nil {
		t.Fatalf("fillTemplate: %s", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("Stat: %s", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected mode 0600, got %o", info.Mode().Perm())
	}
}
