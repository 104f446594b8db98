package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinkler(t *testing.T) {
	scorer := NewScorer()

	t.Run("should score identical strings as 1", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.JaroWinkler("martha", "martha"))
	})

	t.Run("should score two empty strings as 1", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.JaroWinkler("", ""))
	})

	t.Run("should score one empty string as 0", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.JaroWinkler("martha", ""))
		assert.Equal(t, 0.0, scorer.JaroWinkler("", "martha"))
	})

	t.Run("should be symmetric", func(t *testing.T) {
		pairs := [][2]string{
			{"martha", "marhta"},
			{"dixon", "dicksonx"},
			{"jellyfish", "smellyfish"},
		}
		for _, p := range pairs {
			assert.Equal(t, scorer.JaroWinkler(p[0], p[1]), scorer.JaroWinkler(p[1], p[0]))
		}
	})

	t.Run("should boost shared prefixes over plain jaro", func(t *testing.T) {
		jaro := scorer.Jaro("martha", "marhta")
		jw := scorer.JaroWinkler("martha", "marhta")
		assert.Greater(t, jw, jaro)
		assert.InDelta(t, 0.9611, jw, 0.001)
	})

	t.Run("should cap the prefix boost at four characters", func(t *testing.T) {
		// Five shared prefix characters score the same boost as four.
		jaro := scorer.Jaro("abcdex", "abcdey")
		jw := scorer.JaroWinkler("abcdex", "abcdey")
		assert.InDelta(t, jaro+4*0.1*(1-jaro), jw, 1e-9)
	})

	t.Run("should score disjoint strings as 0", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.JaroWinkler("abc", "xyz"))
	})

	t.Run("should stay within the unit interval", func(t *testing.T) {
		pairs := [][2]string{
			{"a", "ab"},
			{"maria garcia", "maria g"},
			{"jon", "john"},
		}
		for _, p := range pairs {
			score := scorer.JaroWinkler(p[0], p[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})
}

func TestJaro(t *testing.T) {
	scorer := NewScorer()

	t.Run("should score the classic reference pairs", func(t *testing.T) {
		assert.InDelta(t, 0.9444, scorer.Jaro("martha", "marhta"), 0.001)
		assert.InDelta(t, 0.7667, scorer.Jaro("dixon", "dicksonx"), 0.001)
	})

	t.Run("should return 0 when nothing matches", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Jaro("abc", "def"))
	})
}

func TestJaccard(t *testing.T) {
	scorer := NewScorer()

	t.Run("should compute set overlap ratio", func(t *testing.T) {
		assert.Equal(t, 0.5, scorer.Jaccard([]string{"a", "b", "c"}, []string{"b", "c", "d"}))
		assert.Equal(t, 1.0, scorer.Jaccard([]string{"a", "b"}, []string{"b", "a"}))
	})

	t.Run("should ignore duplicates within one side", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Jaccard([]string{"a", "a", "b"}, []string{"a", "b"}))
	})

	t.Run("should filter empty strings before comparing", func(t *testing.T) {
		assert.Equal(t, 1.0, scorer.Jaccard([]string{"a", ""}, []string{"a"}))
		assert.Equal(t, 0.0, scorer.Jaccard([]string{""}, []string{"a"}))
	})

	t.Run("should return 0 when either set is empty", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Jaccard(nil, []string{"a"}))
		assert.Equal(t, 0.0, scorer.Jaccard([]string{"a"}, nil))
		assert.Equal(t, 0.0, scorer.Jaccard(nil, nil))
	})

	t.Run("should return 0 for disjoint sets", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.Jaccard([]string{"a"}, []string{"b"}))
	})
}
