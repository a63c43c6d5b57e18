package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFileMergesDefaultsAndFinalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "regilo.json")

	doc := `{
		"services": {
			"web": {"description": "web service", "path": "/bin/web"}
		}
	}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("seed config: %s", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %s", err)
	}

	if StringVal(c.LogLevel) != DefaultLogLevel {
		t.Fatalf("expected default log level, got %q", StringVal(c.LogLevel))
	}
	if len(c.ServiceOrder) != 1 || c.ServiceOrder[0] != "web" {
		t.Fatalf("expected service order [web], got %v", c.ServiceOrder)
	}
	if BoolVal(c.Syslog.Enabled) {
		t.Fatal("expected syslog to default to disabled when no facility is configured")
	}
}

func TestLoadRejectsMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestSyslogFinalizeEnablesWhenFacilityConfigured(t *testing.T) {
	c := &SyslogConfig{Facility: String("LOCAL1")}
	c.Finalize()
	if !BoolVal(c.Enabled) {
		t.Fatal("expected syslog to be enabled once a facility is configured")
	}
}
