package matching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestEvaluateCondition(t *testing.T) {
	scorer := NewScorer()

	t.Run("should fail closed with error evidence for unknown kinds", func(t *testing.T) {
		a := &models.CanonicalRecord{ID: "a", Name: "maria garcia"}
		b := &models.CanonicalRecord{ID: "b", Name: "maria garcia"}

		result := scorer.EvaluateCondition(models.RuleCondition{Kind: "regex_match", Field: "name"}, a, b)
		assert.False(t, result.Matched)
		assert.Contains(t, result.Evidence["error"], "regex_match")
	})
}

func TestExactMatchCondition(t *testing.T) {
	scorer := NewScorer()
	cond := models.RuleCondition{Kind: models.ConditionExactMatch, Field: "truth_id"}

	t.Run("should match equal non-empty values", func(t *testing.T) {
		a := &models.CanonicalRecord{TruthID: "TX-100"}
		b := &models.CanonicalRecord{TruthID: "TX-100"}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.True(t, result.Matched)
		assert.Equal(t, "TX-100", result.Evidence["a"])
	})

	t.Run("should not match differing values", func(t *testing.T) {
		a := &models.CanonicalRecord{TruthID: "TX-100"}
		b := &models.CanonicalRecord{TruthID: "TX-200"}

		assert.False(t, scorer.EvaluateCondition(cond, a, b).Matched)
	})

	t.Run("should never match when either side is missing", func(t *testing.T) {
		a := &models.CanonicalRecord{TruthID: ""}
		b := &models.CanonicalRecord{TruthID: ""}

		assert.False(t, scorer.EvaluateCondition(cond, a, b).Matched)
	})
}

func TestSimilarityCondition(t *testing.T) {
	scorer := NewScorer()

	t.Run("should match when score reaches the threshold", func(t *testing.T) {
		cond := models.RuleCondition{Kind: models.ConditionSimilarity, Field: "name", Threshold: 0.9}
		a := &models.CanonicalRecord{Name: "maria garcia"}
		b := &models.CanonicalRecord{Name: "maria garcia"}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.True(t, result.Matched)
		assert.Equal(t, 1.0, result.Evidence["score"])
	})

	t.Run("should not match below the threshold", func(t *testing.T) {
		cond := models.RuleCondition{Kind: models.ConditionSimilarity, Field: "name", Threshold: 0.99}
		a := &models.CanonicalRecord{Name: "maria garcia"}
		b := &models.CanonicalRecord{Name: "mario garcia"}

		assert.False(t, scorer.EvaluateCondition(cond, a, b).Matched)
	})

	t.Run("should not match when either side is empty", func(t *testing.T) {
		cond := models.RuleCondition{Kind: models.ConditionSimilarity, Field: "name", Threshold: 0.0}
		a := &models.CanonicalRecord{Name: ""}
		b := &models.CanonicalRecord{Name: "maria garcia"}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.False(t, result.Matched)
		assert.NotContains(t, result.Evidence, "score")
	})

	t.Run("should compare a space-joined composite of fields", func(t *testing.T) {
		cond := models.RuleCondition{
			Kind:      models.ConditionSimilarity,
			Fields:    []string{"name", "zip"},
			Threshold: 0.9,
		}
		a := &models.CanonicalRecord{Name: "maria garcia", Zip: "78701"}
		b := &models.CanonicalRecord{Name: "maria garcia", Zip: "78701"}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.True(t, result.Matched)
		assert.Equal(t, "maria garcia 78701", result.Evidence["a"])
		assert.Equal(t, "name+zip", result.Evidence["field"])
	})

	t.Run("should drop empty components from the composite", func(t *testing.T) {
		cond := models.RuleCondition{
			Kind:      models.ConditionSimilarity,
			Fields:    []string{"name", "zip"},
			Threshold: 1.0,
		}
		a := &models.CanonicalRecord{Name: "maria garcia"}
		b := &models.CanonicalRecord{Name: "maria garcia"}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.True(t, result.Matched)
		assert.Equal(t, "maria garcia", result.Evidence["a"])
	})
}

func TestDateDeltaCondition(t *testing.T) {
	scorer := NewScorer()
	cond := models.RuleCondition{Kind: models.ConditionDateDelta, Field: "dob", ToleranceDays: 1}

	t.Run("should match dates within tolerance", func(t *testing.T) {
		a := &models.CanonicalRecord{BirthDate: date(2010, 9, 15)}
		b := &models.CanonicalRecord{BirthDate: date(2010, 9, 16)}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.True(t, result.Matched)
		assert.Equal(t, 1, result.Evidence["delta_days"])
	})

	t.Run("should match identical dates", func(t *testing.T) {
		a := &models.CanonicalRecord{BirthDate: date(2010, 9, 15)}
		b := &models.CanonicalRecord{BirthDate: date(2010, 9, 15)}

		assert.True(t, scorer.EvaluateCondition(cond, a, b).Matched)
	})

	t.Run("should not match dates outside tolerance", func(t *testing.T) {
		a := &models.CanonicalRecord{BirthDate: date(2010, 9, 15)}
		b := &models.CanonicalRecord{BirthDate: date(2010, 9, 18)}

		assert.False(t, scorer.EvaluateCondition(cond, a, b).Matched)
	})

	t.Run("should never match when either date is missing", func(t *testing.T) {
		a := &models.CanonicalRecord{BirthDate: date(2010, 9, 15)}
		b := &models.CanonicalRecord{}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.False(t, result.Matched)
		assert.Equal(t, "", result.Evidence["b"])
	})
}

func TestSetOverlapCondition(t *testing.T) {
	scorer := NewScorer()
	cond := models.RuleCondition{Kind: models.ConditionSetOverlap, Field: "linked_ids", OverlapRatio: 0.5}

	t.Run("should match when overlap reaches the ratio", func(t *testing.T) {
		a := &models.CanonicalRecord{LinkedIDs: []string{"p1", "p2"}}
		b := &models.CanonicalRecord{LinkedIDs: []string{"p1", "p2", "p3"}}

		result := scorer.EvaluateCondition(cond, a, b)
		assert.True(t, result.Matched)
		assert.InDelta(t, 0.6667, result.Evidence["overlap"], 0.001)
	})

	t.Run("should not match below the ratio", func(t *testing.T) {
		a := &models.CanonicalRecord{LinkedIDs: []string{"p1", "p2", "p3"}}
		b := &models.CanonicalRecord{LinkedIDs: []string{"p3", "p4", "p5"}}

		assert.False(t, scorer.EvaluateCondition(cond, a, b).Matched)
	})

	t.Run("should never match when either set is empty", func(t *testing.T) {
		a := &models.CanonicalRecord{LinkedIDs: []string{"p1"}}
		b := &models.CanonicalRecord{}

		assert.False(t, scorer.EvaluateCondition(cond, a, b).Matched)
	})

	t.Run("should promote scalar fields to singleton sets", func(t *testing.T) {
		scalar := models.RuleCondition{Kind: models.ConditionSetOverlap, Field: "zip", OverlapRatio: 1.0}
		a := &models.CanonicalRecord{Zip: "78701"}
		b := &models.CanonicalRecord{Zip: "78701"}

		assert.True(t, scorer.EvaluateCondition(scalar, a, b).Matched)
	})
}
