package identity

import "testing"

type task struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
}

func TestKeyStableForEqualInput(t *testing.T) {
	a := task{Type: "exec", Path: "/bin/true"}
	b := task{Type: "exec", Path: "/bin/true"}

	k1, err := Key(a)
	if err != nil {
		t.Fatalf("Key(a): %s", err)
	}
	k2, err := Key(b)
	if err != nil {
		t.Fatalf("Key(b): %s", err)
	}
	if k1 != k2 {
		t.Fatalf("expected equal keys for equal input, got %q and %q", k1, k2)
	}
}

func TestKeyDiffersForDifferentInput(t *testing.T) {
	a := task{Type: "exec", Path: "/bin/true"}
	b := task{Type: "exec", Path: "/bin/false"}

	k1, _ := Key(a)
	k2, _ := Key(b)
	if k1 == k2 {
		t.Fatalf("expected different keys for different input, got %q for both", k1)
	}
}

func TestKeyIsHexSHA256(t *testing.T) {
	k, err := Key(task{Type: "tree"})
	if err != nil {
		t.Fatalf("Key: %s", err)
	}
	if len(k) != 64 {
		t.Fatalf("expected 64 hex chars, got %d (%q)", len(k), k)
	}
}

func TestFlattenOneKeyMapsAsymmetry(t *testing.T) {
	// A single-key map wrapping a nested map is flattened into a sorted
	// pair list; an otherwise-nested map stays an ordinary object.
	oneKey := map[string]interface{}{
		"only": map[string]interface{}{"b": 1, "a": 2},
	}
	flattened := flattenOneKeyMaps(oneKey)
	pairs, ok := flattened.([]interface{})
	if !ok {
		t.Fatalf("expected []interface{} for one-key map, got %T", flattened)
	}
	if len(pairs) != 4 || pairs[0] != "a" || pairs[2] != "b" {
		t.Fatalf("expected sorted alternating pairs, got %v", pairs)
	}

	twoKeys := map[string]interface{}{
		"x": map[string]interface{}{"b": 1, "a": 2},
		"y": 3,
	}
	flattened = flattenOneKeyMaps(twoKeys)
	if _, ok := flattened.(map[string]interface{}); !ok {
		t.Fatalf("expected map[string]interface{} for multi-key map, got %T", flattened)
	}
}
