// Package identity computes the content-addressed identity key used by
// internal/startup to name one-shot startup-task markers (spec section 4.9,
// C9). Spec section 1 lists "the hashing/JSON-canonicalization helper" as an
// external collaborator, not core supervision engineering -- this package is
// deliberately thin: a small pre-pass that reproduces the source's
// documented key-flattening asymmetry (spec section 9), followed by a
// library call for the mechanical part (sorted keys, no whitespace).
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	canonicaljson "github.com/tent/canonical-json-go"
)

// Key returns the hex SHA-256 digest of the canonical JSON encoding of v
// (spec section 4.9): identityKey(task) = lowerHex(SHA-256(canonicalJSON(task))).
//
// v is first round-tripped through encoding/json into a generic
// map[string]interface{}/[]interface{} tree (so struct field tags and
// omitted zero values behave exactly as they would for any other JSON
// consumer of the task descriptor), then flattened by flattenOneKeyMaps
// before canonicaljson.Marshal renders the final bytes.
func Key(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", err
	}

	flattened := flattenOneKeyMaps(generic)

	canon, err := canonicaljson.Marshal(flattened)
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(canon)
	return hex.EncodeToString(sum[:]), nil
}

// flattenOneKeyMaps reproduces the source's documented asymmetry (spec
// section 9): a map used as the *sole* value of a single-key container is
// flattened into the sorted list of its own alternating key/value items,
// while an otherwise-nested map is left as an ordinary object (which
// canonicaljson.Marshal will itself render as a sorted-key object). This
// must be preserved exactly, or every startup-task marker is invalidated on
// upgrade (spec section 9).
func flattenOneKeyMaps(v interface{}) interface{} {
	switch typed := v.(type) {
	case map[string]interface{}:
		if len(typed) == 1 {
			for _, only := range typed {
				if nested, ok := only.(map[string]interface{}); ok {
					return flattenToPairs(nested)
				}
			}
		}
		out := make(map[string]interface{}, len(typed))
		for k, val := range typed {
			out[k] = flattenOneKeyMaps(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, val := range typed {
			out[i] = flattenOneKeyMaps(val)
		}
		return out
	default:
		return typed
	}
}

// flattenToPairs renders m as the sorted alternating key/value list the
// one-key special case requires.
func flattenToPairs(m map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]interface{}, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, flattenOneKeyMaps(m[k]))
	}
	return pairs
}
