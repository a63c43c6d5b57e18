package config

import "testing"

func TestParseTopLevelFields(t *testing.T) {
	c, err := Parse(`{
		"title": "regilo",
		"environment": {"FOO": "bar"},
		"services": {
			"a": {"description": "service a", "path": "/bin/a"}
		}
	}`)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if StringVal(c.Title) != "regilo" {
		t.Fatalf("expected title %q, got %q", "regilo", StringVal(c.Title))
	}
	if c.Environment["FOO"] != "bar" {
		t.Fatalf("expected environment FOO=bar, got %q", c.Environment["FOO"])
	}
	if c.Services["a"] == nil || c.Services["a"].Path != "/bin/a" {
		t.Fatalf("expected service a with path /bin/a, got %+v", c.Services["a"])
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	if _, err := Parse(`{"nonsense_key": true}`); err == nil {
		t.Fatal("expected error for unknown top-level key, got nil")
	}
}

func TestFinalizeFillsDefaults(t *testing.T) {
	c := DefaultConfig().Merge(&Config{})
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize: %s", err)
	}
	if StringVal(c.LogLevel) != DefaultLogLevel {
		t.Fatalf("expected default log level %q, got %q", DefaultLogLevel, StringVal(c.LogLevel))
	}
	if StringVal(c.StartupStatePath) != DefaultStartupStatePath {
		t.Fatalf("expected default state path %q, got %q", DefaultStartupStatePath, StringVal(c.StartupStatePath))
	}
}

func TestFinalizeRejectsUnsatisfiableDependency(t *testing.T) {
	c := DefaultConfig().Merge(&Config{
		Services: map[string]*ServiceSpec{
			"a": {Path: "/bin/a", Needs: []string{"nope"}},
		},
	})
	if err := c.Finalize(); err == nil {
		t.Fatal("expected error for undefined dependency, got nil")
	}
}

func TestFinalizeFillsServiceOrder(t *testing.T) {
	c := DefaultConfig().Merge(&Config{
		Services: map[string]*ServiceSpec{
			"b": {Path: "/bin/b"},
			"a": {Path: "/bin/a"},
			"c": {Path: "/bin/c"},
		},
	})
	if err := c.Finalize(); err != nil {
		t.Fatalf("Finalize: %s", err)
	}
	if len(c.ServiceOrder) != 3 {
		t.Fatalf("expected 3 entries in ServiceOrder, got %d", len(c.ServiceOrder))
	}
}
