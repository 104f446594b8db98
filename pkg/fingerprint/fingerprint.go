// Package fingerprint derives deterministic identifiers from engine data so
// repeated runs over the same snapshot produce identical outputs.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
)

// GroupID derives the stable identity of a duplicate group from its entity
// kind and member ids. Members are sorted before hashing so insertion order
// never leaks into the id; this is what makes persistence idempotent.
func GroupID(entityKind string, members []string) string {
	sorted := make([]string, len(members))
	copy(sorted, members)
	sort.Strings(sorted)

	h := sha256.New()
	h.Write([]byte(entityKind))
	for _, m := range sorted {
		h.Write([]byte{0})
		h.Write([]byte(m))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Generate creates a deterministic fingerprint for arbitrary map data,
// hashing a canonicalized JSON rendering with sorted keys.
func Generate(data map[string]any) string {
	canonical := canonicalize(data)
	hash := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(hash[:])
}

func canonicalize(data any) string {
	switch v := data.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			keyJSON, _ := json.Marshal(k)
			b.Write(keyJSON)
			b.WriteByte(':')
			b.WriteString(canonicalize(v[k]))
		}
		b.WriteByte('}')
		return b.String()
	case []any:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(canonicalize(item))
		}
		b.WriteByte(']')
		return b.String()
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
