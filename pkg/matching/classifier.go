// Package matching implements pair classification for duplicate detection:
// rules are config-driven logic evaluated per record pair, with a weighted
// heuristic fallback per entity kind when no rule set is configured.
package matching

import (
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// Classifier applies the configured rule set, or the fallback heuristic, to
// record pairs of one entity kind.
type Classifier struct {
	scorer  *Scorer
	ruleSet *models.RuleSet // nil means fallback heuristic
	weights FallbackWeights
}

// NewClassifier creates a classifier for one entity kind. ruleSet may be nil,
// in which case the weighted fallback heuristic classifies every pair.
func NewClassifier(ruleSet *models.RuleSet, weights FallbackWeights) *Classifier {
	return &Classifier{
		scorer:  NewScorer(),
		ruleSet: ruleSet,
		weights: weights,
	}
}

// Classify evaluates one unordered record pair and returns the pair match,
// or nil when the pair is not a probable duplicate. The returned match
// carries the stable (sorted) id ordering.
func (c *Classifier) Classify(a, b *models.CanonicalRecord) *models.PairMatch {
	var outcome *RuleOutcome
	if c.ruleSet != nil {
		outcome = c.scorer.EvaluateRuleSet(c.ruleSet, a, b)
	} else {
		outcome = c.scorer.EvaluateFallback(c.weights, a, b)
	}
	if outcome == nil {
		return nil
	}

	match := models.NewPairMatch(a.Kind, a.ID, b.ID)
	match.RuleID = outcome.RuleID
	match.MatchType = outcome.MatchType
	match.Severity = outcome.Severity
	match.Confidence = outcome.Confidence
	match.Evidence = outcome.Evidence
	return match
}
