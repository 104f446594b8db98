package matching

import (
	"math"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// FallbackWeights are the signal weights and thresholds for the hardcoded
// heuristic used when no rule set is configured for an entity kind. The
// defaults are empirically chosen, not derived from labeled data, so they
// are kept configurable rather than baked in.
type FallbackWeights struct {
	EmailExact         float64 `json:"email_exact"`
	PhoneExact         float64 `json:"phone_exact"`
	NameSimilarity     float64 `json:"name_similarity"`
	BirthDateProximity float64 `json:"birth_date_proximity"`
	LinkOverlap        float64 `json:"link_overlap"`
	AliasLocal         float64 `json:"alias_local"`

	LikelyThreshold   float64 `json:"likely_threshold"`
	PossibleThreshold float64 `json:"possible_threshold"`

	LinkOverlapRatio     float64 `json:"link_overlap_ratio"`
	StrongNameSimilarity float64 `json:"strong_name_similarity"`
}

// DefaultFallbackWeights returns the default heuristic weights.
func DefaultFallbackWeights() FallbackWeights {
	return FallbackWeights{
		EmailExact:           0.6,
		PhoneExact:           0.3,
		NameSimilarity:       0.2,
		BirthDateProximity:   0.1,
		LinkOverlap:          0.1,
		AliasLocal:           0.1,
		LikelyThreshold:      0.8,
		PossibleThreshold:    0.6,
		LinkOverlapRatio:     0.5,
		StrongNameSimilarity: 0.85,
	}
}

// Fallback rule ids
const (
	FallbackRuleWeighted     = "fallback_weighted"
	FallbackRuleRelationship = "fallback_relationship_campus"
)

// EvaluateFallback scores a pair with the weighted heuristic: each signal
// contributes its weight, the sum is capped at 1.0, and the capped score is
// classified against the likely/possible thresholds. Pairs below the numeric
// thresholds can still fire the relationship+campus+name possible rule.
func (s *Scorer) EvaluateFallback(w FallbackWeights, a, b *models.CanonicalRecord) *RuleOutcome {
	evidence := make(map[string]any)
	score := 0.0

	if a.Email != "" && a.Email == b.Email {
		score += w.EmailExact
		evidence["email"] = map[string]any{"a": a.Email, "b": b.Email, "exact": true}
	}

	if a.Phone != "" && a.Phone == b.Phone {
		score += w.PhoneExact
		evidence["phone"] = map[string]any{"a": a.Phone, "b": b.Phone, "exact": true}
	}

	nameSim := 0.0
	if a.Name != "" && b.Name != "" {
		nameSim = s.JaroWinkler(a.Name, b.Name)
		score += nameSim * w.NameSimilarity
		evidence["name"] = map[string]any{"a": a.Name, "b": b.Name, "score": nameSim}
	}

	if a.BirthDate != nil && b.BirthDate != nil {
		days := math.Abs(a.BirthDate.Sub(*b.BirthDate).Hours() / 24)
		if days <= 1 {
			score += w.BirthDateProximity
			evidence["dob"] = map[string]any{"a": formatDate(a.BirthDate), "b": formatDate(b.BirthDate)}
		}
	}

	linkOverlap := s.Jaccard(a.LinkedIDs, b.LinkedIDs)
	if linkOverlap >= w.LinkOverlapRatio {
		score += w.LinkOverlap
		evidence["linked_ids"] = map[string]any{"overlap": linkOverlap}
	}

	if a.EmailLocal != "" && a.EmailLocal == b.EmailLocal {
		score += w.AliasLocal
		evidence["email_local_alias"] = true
	}

	if score > 1.0 {
		score = 1.0
	}
	evidence["weighted_score"] = score

	switch {
	case score >= w.LikelyThreshold:
		return &RuleOutcome{
			RuleID:     FallbackRuleWeighted,
			MatchType:  models.MatchTypeLikely,
			Severity:   models.SeverityWarning,
			Confidence: score,
			Evidence:   evidence,
		}
	case score >= w.PossibleThreshold:
		return &RuleOutcome{
			RuleID:     FallbackRuleWeighted,
			MatchType:  models.MatchTypePossible,
			Severity:   models.SeverityInfo,
			Confidence: score,
			Evidence:   evidence,
		}
	}

	// Shared relationships at the same campus with a strong name match is a
	// possible duplicate even when the weighted score falls short.
	if linkOverlap >= w.LinkOverlapRatio && nameSim >= w.StrongNameSimilarity && sharesCampus(a, b) {
		evidence["shared_campus"] = true
		return &RuleOutcome{
			RuleID:     FallbackRuleRelationship,
			MatchType:  models.MatchTypePossible,
			Severity:   models.SeverityInfo,
			Confidence: possibleBaseConfidence,
			Evidence:   evidence,
		}
	}

	return nil
}

func sharesCampus(a, b *models.CanonicalRecord) bool {
	for _, ca := range a.Campuses {
		for _, cb := range b.Campuses {
			if ca != "" && ca == cb {
				return true
			}
		}
	}
	return false
}
