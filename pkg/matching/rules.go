package matching

import (
	"fmt"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// Tier base confidences for fired rules. The base is refined upward by the
// strongest similarity score observed in the evidence when that is higher.
const (
	likelyBaseConfidence   = 0.95
	possibleBaseConfidence = 0.7
)

// RuleOutcome describes the first rule that fired for a record pair.
type RuleOutcome struct {
	RuleID     string
	MatchType  models.MatchType
	Severity   models.Severity
	Confidence float64
	Evidence   map[string]any
}

// EvaluateRuleSet evaluates the configured rules for a pair: every likely
// rule in order, then every possible rule. A rule fires only when all of its
// conditions match (logical AND); the first fired rule wins. Returns nil
// when no rule fires.
func (s *Scorer) EvaluateRuleSet(rs *models.RuleSet, a, b *models.CanonicalRecord) *RuleOutcome {
	for _, rule := range rs.Likely {
		if outcome := s.evaluateRule(rule, models.MatchTypeLikely, a, b); outcome != nil {
			return outcome
		}
	}
	for _, rule := range rs.Possible {
		if outcome := s.evaluateRule(rule, models.MatchTypePossible, a, b); outcome != nil {
			return outcome
		}
	}
	return nil
}

func (s *Scorer) evaluateRule(rule models.Rule, tier models.MatchType, a, b *models.CanonicalRecord) *RuleOutcome {
	evidence := make(map[string]any, len(rule.Conditions))

	for i, cond := range rule.Conditions {
		result := s.EvaluateCondition(cond, a, b)

		key := conditionField(cond)
		if key == "" {
			key = fmt.Sprintf("condition_%d", i)
		}
		if _, exists := evidence[key]; exists {
			key = fmt.Sprintf("%s_%d", key, i)
		}
		evidence[key] = result.Evidence

		if !result.Matched {
			return nil
		}
	}

	base := possibleBaseConfidence
	if tier == models.MatchTypeLikely {
		base = likelyBaseConfidence
	}

	severity := rule.Severity
	if severity == "" {
		severity = defaultSeverity(tier)
	}

	return &RuleOutcome{
		RuleID:     rule.ID,
		MatchType:  tier,
		Severity:   severity,
		Confidence: refineConfidence(base, evidence),
		Evidence:   evidence,
	}
}

// refineConfidence raises the tier base to the maximum similarity score
// observed in the evidence, when that exceeds the base.
func refineConfidence(base float64, evidence map[string]any) float64 {
	confidence := base
	for _, v := range evidence {
		detail, ok := v.(map[string]any)
		if !ok {
			continue
		}
		if score, ok := detail["score"].(float64); ok && score > confidence {
			confidence = score
		}
	}
	return confidence
}

func defaultSeverity(tier models.MatchType) models.Severity {
	if tier == models.MatchTypeLikely {
		return models.SeverityWarning
	}
	return models.SeverityInfo
}
