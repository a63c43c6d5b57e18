package config

import "testing"

func TestValidateServiceGraphAcceptsDAG(t *testing.T) {
	services := map[string]*ServiceSpec{
		"a": {Path: "/bin/a"},
		"b": {Path: "/bin/b", Needs: []string{"a"}},
		"c": {Path: "/bin/c", Needs: []string{"a", "b"}},
	}
	if err := ValidateServiceGraph(services); err != nil {
		t.Fatalf("expected valid DAG to pass, got %s", err)
	}
}

func TestValidateServiceGraphRejectsUndefinedDependency(t *testing.T) {
	services := map[string]*ServiceSpec{
		"a": {Path: "/bin/a", Needs: []string{"missing"}},
	}
	if err := ValidateServiceGraph(services); err == nil {
		t.Fatal("expected error for undefined dependency, got nil")
	}
}

func TestValidateServiceGraphRejectsCycle(t *testing.T) {
	services := map[string]*ServiceSpec{
		"a": {Path: "/bin/a", Needs: []string{"b"}},
		"b": {Path: "/bin/b", Needs: []string{"a"}},
	}
	if err := ValidateServiceGraph(services); err == nil {
		t.Fatal("expected error for dependency cycle, got nil")
	}
}
