package models

// MatchType is the tier a pair match fired in.
type MatchType string

const (
	MatchTypeLikely   MatchType = "likely"
	MatchTypePossible MatchType = "possible"
)

// Severity labels a match or finding for operator triage.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// SeverityRank orders severities so the top severity of a group can be
// selected deterministically. Higher is more severe.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	}
	return 0
}

// PairMatch is the immutable result of classifying one unordered record pair
// as a probable duplicate. IDA sorts before IDB so the pair has a stable
// identity regardless of evaluation order.
type PairMatch struct {
	Kind       EntityKind     `json:"entity_type"`
	IDA        string         `json:"id_a"`
	IDB        string         `json:"id_b"`
	RuleID     string         `json:"rule_id"`
	MatchType  MatchType      `json:"match_type"`
	Severity   Severity       `json:"severity"`
	Confidence float64        `json:"confidence"`
	Evidence   map[string]any `json:"evidence"`
}

// NewPairMatch builds a pair match with the stable id ordering applied.
func NewPairMatch(kind EntityKind, idA, idB string) *PairMatch {
	if idB < idA {
		idA, idB = idB, idA
	}
	return &PairMatch{Kind: kind, IDA: idA, IDB: idB}
}

// DuplicateGroup is a maximal connected component of records joined
// transitively by pair matches. Computed fresh each run; identity is derived
// from the sorted member ids so identical inputs produce identical groups.
type DuplicateGroup struct {
	GroupID        string         `json:"group_id"`
	Kind           EntityKind     `json:"entity_type"`
	Members        []string       `json:"members"`
	PrimaryID      string         `json:"primary_id"`
	RelatedIDs     []string       `json:"related_ids"`
	TopSeverity    Severity       `json:"top_severity"`
	RuleID         string         `json:"rule_id"`
	MatchTypes     []string       `json:"match_types"`
	Confidences    []float64      `json:"confidences"`
	EvidenceSample map[string]any `json:"evidence_sample"`
}
