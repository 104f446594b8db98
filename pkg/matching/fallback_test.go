package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

func TestEvaluateFallback(t *testing.T) {
	scorer := NewScorer()
	weights := DefaultFallbackWeights()

	t.Run("should classify exact email plus strong name plus dob as likely", func(t *testing.T) {
		a := &models.CanonicalRecord{ID: "a", Name: "maria garcia", Email: "mgarcia@x.com", BirthDate: date(1980, 3, 2)}
		b := &models.CanonicalRecord{ID: "b", Name: "maria garcia", Email: "mgarcia@x.com", BirthDate: date(1980, 3, 2)}

		// email 0.6 + name 1.0*0.2 + dob 0.1 = 0.9
		outcome := scorer.EvaluateFallback(weights, a, b)
		assert.NotNil(t, outcome)
		assert.Equal(t, FallbackRuleWeighted, outcome.RuleID)
		assert.Equal(t, models.MatchTypeLikely, outcome.MatchType)
		assert.Equal(t, models.SeverityWarning, outcome.Severity)
		assert.InDelta(t, 0.9, outcome.Confidence, 1e-9)
	})

	t.Run("should classify phone plus strong name plus dob as possible", func(t *testing.T) {
		a := &models.CanonicalRecord{ID: "a", Name: "maria garcia", Phone: "+15551234567", BirthDate: date(2010, 9, 15)}
		b := &models.CanonicalRecord{ID: "b", Name: "maria garcia", Phone: "+15551234567", BirthDate: date(2010, 9, 16)}

		// phone 0.3 + name 0.2 + dob 0.1 = 0.6
		outcome := scorer.EvaluateFallback(weights, a, b)
		assert.NotNil(t, outcome)
		assert.Equal(t, models.MatchTypePossible, outcome.MatchType)
		assert.Equal(t, models.SeverityInfo, outcome.Severity)
		assert.InDelta(t, 0.6, outcome.Confidence, 1e-9)
	})

	t.Run("should credit alias-stripped local parts across domains", func(t *testing.T) {
		a := &models.CanonicalRecord{ID: "a", Name: "maria garcia", Email: "mgarcia@x.com", EmailLocal: "mgarcia", Phone: "+15551234567"}
		b := &models.CanonicalRecord{ID: "b", Name: "maria garcia", Email: "mgarcia@y.com", EmailLocal: "mgarcia", Phone: "+15551234567"}

		// phone 0.3 + name 0.2 + alias local 0.1 = 0.6
		outcome := scorer.EvaluateFallback(weights, a, b)
		assert.NotNil(t, outcome)
		assert.Equal(t, true, outcome.Evidence["email_local_alias"])
		assert.Equal(t, models.MatchTypePossible, outcome.MatchType)
	})

	t.Run("should cap the weighted score at 1", func(t *testing.T) {
		bd := date(2010, 9, 15)
		a := &models.CanonicalRecord{
			ID: "a", Name: "maria garcia", Email: "mgarcia@x.com", EmailLocal: "mgarcia",
			Phone: "+15551234567", BirthDate: bd, LinkedIDs: []string{"p1"},
		}
		b := &models.CanonicalRecord{
			ID: "b", Name: "maria garcia", Email: "mgarcia@x.com", EmailLocal: "mgarcia",
			Phone: "+15551234567", BirthDate: bd, LinkedIDs: []string{"p1"},
		}

		outcome := scorer.EvaluateFallback(weights, a, b)
		assert.NotNil(t, outcome)
		assert.Equal(t, 1.0, outcome.Confidence)
		assert.Equal(t, 1.0, outcome.Evidence["weighted_score"])
	})

	t.Run("should return nil for unrelated records", func(t *testing.T) {
		a := &models.CanonicalRecord{ID: "a", Name: "maria garcia", Email: "mgarcia@x.com"}
		b := &models.CanonicalRecord{ID: "b", Name: "robert chen", Email: "rchen@y.com"}

		assert.Nil(t, scorer.EvaluateFallback(weights, a, b))
	})

	t.Run("should not count empty emails as an exact match", func(t *testing.T) {
		a := &models.CanonicalRecord{ID: "a", Name: "maria garcia"}
		b := &models.CanonicalRecord{ID: "b", Name: "maria garcia"}

		// name alone is 0.2, below the possible threshold
		assert.Nil(t, scorer.EvaluateFallback(weights, a, b))
	})

	t.Run("should fire the relationship rule for shared links at a shared campus", func(t *testing.T) {
		a := &models.CanonicalRecord{
			ID: "a", Name: "maria garcia",
			LinkedIDs: []string{"s1", "s2"}, Campuses: []string{"north"},
		}
		b := &models.CanonicalRecord{
			ID: "b", Name: "maria garcia",
			LinkedIDs: []string{"s1", "s2"}, Campuses: []string{"north", "south"},
		}

		// weighted score: name 0.2 + links 0.1 = 0.3, below both thresholds
		outcome := scorer.EvaluateFallback(weights, a, b)
		assert.NotNil(t, outcome)
		assert.Equal(t, FallbackRuleRelationship, outcome.RuleID)
		assert.Equal(t, models.MatchTypePossible, outcome.MatchType)
		assert.Equal(t, true, outcome.Evidence["shared_campus"])
		assert.Equal(t, 0.7, outcome.Confidence)
	})

	t.Run("should not fire the relationship rule without a shared campus", func(t *testing.T) {
		a := &models.CanonicalRecord{
			ID: "a", Name: "maria garcia",
			LinkedIDs: []string{"s1", "s2"}, Campuses: []string{"north"},
		}
		b := &models.CanonicalRecord{
			ID: "b", Name: "maria garcia",
			LinkedIDs: []string{"s1", "s2"}, Campuses: []string{"east"},
		}

		assert.Nil(t, scorer.EvaluateFallback(weights, a, b))
	})

	t.Run("should honor overridden thresholds", func(t *testing.T) {
		loose := weights
		loose.PossibleThreshold = 0.2

		a := &models.CanonicalRecord{ID: "a", Name: "maria garcia"}
		b := &models.CanonicalRecord{ID: "b", Name: "maria garcia"}

		outcome := scorer.EvaluateFallback(loose, a, b)
		assert.NotNil(t, outcome)
		assert.Equal(t, models.MatchTypePossible, outcome.MatchType)
	})
}

func TestClassify(t *testing.T) {
	t.Run("should order pair ids deterministically", func(t *testing.T) {
		c := NewClassifier(nil, DefaultFallbackWeights())
		a := &models.CanonicalRecord{Kind: models.EntityKindParent, ID: "zzz", Name: "maria garcia", Email: "m@x.com"}
		b := &models.CanonicalRecord{Kind: models.EntityKindParent, ID: "aaa", Name: "maria garcia", Email: "m@x.com"}

		m1 := c.Classify(a, b)
		m2 := c.Classify(b, a)
		assert.NotNil(t, m1)
		assert.NotNil(t, m2)
		assert.Equal(t, "aaa", m1.IDA)
		assert.Equal(t, "zzz", m1.IDB)
		assert.Equal(t, m1.IDA, m2.IDA)
		assert.Equal(t, m1.IDB, m2.IDB)
	})

	t.Run("should use the rule set when one is configured", func(t *testing.T) {
		rs := &models.RuleSet{
			EntityKind: models.EntityKindStudent,
			Likely: []models.Rule{{
				ID:         "same_truth_id",
				Conditions: []models.RuleCondition{{Kind: models.ConditionExactMatch, Field: "truth_id"}},
			}},
		}
		c := NewClassifier(rs, DefaultFallbackWeights())
		a := &models.CanonicalRecord{Kind: models.EntityKindStudent, ID: "a", TruthID: "TX-1"}
		b := &models.CanonicalRecord{Kind: models.EntityKindStudent, ID: "b", TruthID: "TX-1"}

		m := c.Classify(a, b)
		assert.NotNil(t, m)
		assert.Equal(t, "same_truth_id", m.RuleID)
	})

	t.Run("should return nil for non-duplicates", func(t *testing.T) {
		c := NewClassifier(nil, DefaultFallbackWeights())
		a := &models.CanonicalRecord{Kind: models.EntityKindStudent, ID: "a", Name: "maria garcia"}
		b := &models.CanonicalRecord{Kind: models.EntityKindStudent, ID: "b", Name: "robert chen"}

		assert.Nil(t, c.Classify(a, b))
	})
}
