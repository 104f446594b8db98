package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	ext := New()

	t.Run("should resolve the first matching key", func(t *testing.T) {
		fields := map[string]any{"first_name": "Maria", "legal_first_name": "María"}
		assert.Equal(t, "María", ext.Value(fields, "legal_first_name", "first_name"))
	})

	t.Run("should fall back through the synonym list", func(t *testing.T) {
		fields := map[string]any{"first_name": "Maria"}
		assert.Equal(t, "Maria", ext.Value(fields, "legal_first_name", "first_name"))
	})

	t.Run("should try the title-cased spelling of each key", func(t *testing.T) {
		fields := map[string]any{"Legal First Name": "Maria"}
		assert.Equal(t, "Maria", ext.Value(fields, "legal_first_name"))
	})

	t.Run("should skip nil values", func(t *testing.T) {
		fields := map[string]any{"email": nil, "email_address": "m@x.com"}
		assert.Equal(t, "m@x.com", ext.Value(fields, "email", "email_address"))
	})

	t.Run("should return nil when nothing resolves", func(t *testing.T) {
		assert.Nil(t, ext.Value(map[string]any{"other": 1}, "email"))
	})
}

func TestString(t *testing.T) {
	ext := New()

	t.Run("should trim resolved strings", func(t *testing.T) {
		fields := map[string]any{"zip": "  78701 "}
		assert.Equal(t, "78701", ext.String(fields, "zip"))
	})

	t.Run("should render numbers as strings", func(t *testing.T) {
		fields := map[string]any{"grade": float64(4)}
		assert.Equal(t, "4", ext.String(fields, "grade"))
	})

	t.Run("should return empty string when nothing resolves", func(t *testing.T) {
		assert.Equal(t, "", ext.String(map[string]any{}, "zip"))
	})
}

func TestStrings(t *testing.T) {
	ext := New()

	t.Run("should resolve json-style arrays", func(t *testing.T) {
		fields := map[string]any{"parent_ids": []any{"p1", " p2 ", ""}}
		assert.Equal(t, []string{"p1", "p2"}, ext.Strings(fields, "parent_ids"))
	})

	t.Run("should resolve string slices", func(t *testing.T) {
		fields := map[string]any{"parent_ids": []string{"p1", "p2"}}
		assert.Equal(t, []string{"p1", "p2"}, ext.Strings(fields, "parent_ids"))
	})

	t.Run("should promote scalars to singleton slices", func(t *testing.T) {
		fields := map[string]any{"campus": "north"}
		assert.Equal(t, []string{"north"}, ext.Strings(fields, "campus"))
	})

	t.Run("should return nil when nothing resolves", func(t *testing.T) {
		assert.Nil(t, ext.Strings(map[string]any{}, "parent_ids"))
	})
}
