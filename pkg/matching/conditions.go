package matching

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// ConditionResult is the outcome of evaluating a single condition against a
// record pair: whether it matched plus structured evidence for the finding.
type ConditionResult struct {
	Matched  bool
	Evidence map[string]any
}

// EvaluateCondition evaluates one typed condition against two canonical
// records of the same entity kind. Unknown condition kinds fail closed: the
// condition does not match and the evidence carries the error, so one bad
// rule never aborts the run.
func (s *Scorer) EvaluateCondition(cond models.RuleCondition, a, b *models.CanonicalRecord) ConditionResult {
	switch cond.Kind {
	case models.ConditionExactMatch:
		return s.evalExactMatch(cond, a, b)
	case models.ConditionSimilarity:
		return s.evalSimilarity(cond, a, b)
	case models.ConditionDateDelta:
		return s.evalDateDelta(cond, a, b)
	case models.ConditionSetOverlap:
		return s.evalSetOverlap(cond, a, b)
	default:
		return ConditionResult{
			Matched:  false,
			Evidence: map[string]any{"error": fmt.Sprintf("unknown condition kind %q", cond.Kind)},
		}
	}
}

// evalExactMatch matches iff both resolved values are non-empty and equal.
// A missing value on either side never matches.
func (s *Scorer) evalExactMatch(cond models.RuleCondition, a, b *models.CanonicalRecord) ConditionResult {
	va := a.FieldString(cond.Field)
	vb := b.FieldString(cond.Field)

	matched := va != "" && vb != "" && va == vb
	return ConditionResult{
		Matched: matched,
		Evidence: map[string]any{
			"field": cond.Field,
			"a":     va,
			"b":     vb,
		},
	}
}

// evalSimilarity resolves one field, or a space-joined composite of several,
// per record and matches iff the Jaro-Winkler score reaches the threshold.
func (s *Scorer) evalSimilarity(cond models.RuleCondition, a, b *models.CanonicalRecord) ConditionResult {
	va := resolveComposite(cond, a)
	vb := resolveComposite(cond, b)

	if va == "" || vb == "" {
		return ConditionResult{
			Matched:  false,
			Evidence: map[string]any{"field": conditionField(cond), "a": va, "b": vb},
		}
	}

	score := s.JaroWinkler(va, vb)
	return ConditionResult{
		Matched: score >= cond.Threshold,
		Evidence: map[string]any{
			"field": conditionField(cond),
			"a":     va,
			"b":     vb,
			"score": score,
		},
	}
}

// evalDateDelta matches iff both values parse to dates and the absolute day
// difference is within tolerance.
func (s *Scorer) evalDateDelta(cond models.RuleCondition, a, b *models.CanonicalRecord) ConditionResult {
	da := a.FieldDate(cond.Field)
	db := b.FieldDate(cond.Field)

	if da == nil || db == nil {
		return ConditionResult{
			Matched:  false,
			Evidence: map[string]any{"field": cond.Field, "a": formatDate(da), "b": formatDate(db)},
		}
	}

	days := int(math.Abs(da.Sub(*db).Hours() / 24))
	return ConditionResult{
		Matched: days <= cond.ToleranceDays,
		Evidence: map[string]any{
			"field":      cond.Field,
			"a":          formatDate(da),
			"b":          formatDate(db),
			"delta_days": days,
		},
	}
}

// evalSetOverlap matches iff the Jaccard ratio of the two resolved string
// sets reaches the overlap threshold. Scalars are promoted to singletons.
func (s *Scorer) evalSetOverlap(cond models.RuleCondition, a, b *models.CanonicalRecord) ConditionResult {
	va := a.FieldStrings(cond.Field)
	vb := b.FieldStrings(cond.Field)

	ratio := s.Jaccard(va, vb)
	return ConditionResult{
		Matched: len(va) > 0 && len(vb) > 0 && ratio >= cond.OverlapRatio,
		Evidence: map[string]any{
			"field":   cond.Field,
			"a":       va,
			"b":       vb,
			"overlap": ratio,
		},
	}
}

// resolveComposite returns the condition's field value, or the space-joined
// value of a multi-field composite. Empty components are dropped.
func resolveComposite(cond models.RuleCondition, r *models.CanonicalRecord) string {
	if len(cond.Fields) == 0 {
		return r.FieldString(cond.Field)
	}

	parts := make([]string, 0, len(cond.Fields))
	for _, f := range cond.Fields {
		if v := r.FieldString(f); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func conditionField(cond models.RuleCondition) string {
	if len(cond.Fields) > 0 {
		return strings.Join(cond.Fields, "+")
	}
	return cond.Field
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
