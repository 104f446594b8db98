// Package extractor resolves logical fields from raw record maps whose key
// naming is inconsistent across source systems.
package extractor

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extractor looks up values by trying a prioritized list of synonym keys per
// logical field.
type Extractor struct{}

// New creates a new Extractor
func New() *Extractor {
	return &Extractor{}
}

// Value returns the first non-nil value for any of the candidate keys.
// Each key is tried as-is, then as its title-cased/space variant
// ("legal_first_name" also matches "Legal First Name").
func (e *Extractor) Value(fields map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := fields[key]; ok && v != nil {
			return v
		}
		if v, ok := fields[titleVariant(key)]; ok && v != nil {
			return v
		}
	}
	return nil
}

// String returns the first resolvable value rendered as a trimmed string.
func (e *Extractor) String(fields map[string]any, keys ...string) string {
	v := e.Value(fields, keys...)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(toString(v))
}

// Strings returns the first resolvable value as a string slice. Scalars are
// promoted to singleton slices; empty elements are dropped.
func (e *Extractor) Strings(fields map[string]any, keys ...string) []string {
	v := e.Value(fields, keys...)
	if v == nil {
		return nil
	}

	var out []string
	switch arr := v.(type) {
	case []any:
		for _, item := range arr {
			if s := strings.TrimSpace(toString(item)); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, item := range arr {
			if s := strings.TrimSpace(item); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := strings.TrimSpace(toString(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// titleVariant converts a snake_case key to its "Title Cased" spelling.
func titleVariant(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

// toString converts any value to a string
func toString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%v", val)
	case int:
		return fmt.Sprintf("%d", val)
	case int64:
		return fmt.Sprintf("%d", val)
	case bool:
		return fmt.Sprintf("%t", val)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(v)
		return string(b)
	}
}
