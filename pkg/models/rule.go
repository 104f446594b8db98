package models

import (
	"encoding/json"
	"time"
)

// ConditionKind is the closed set of condition types a rule may use.
// EvaluateCondition matches these exhaustively; an unrecognized kind fails
// closed with error evidence rather than aborting the run.
type ConditionKind string

const (
	ConditionExactMatch ConditionKind = "exact_match"
	ConditionSimilarity ConditionKind = "similarity"
	ConditionDateDelta  ConditionKind = "date_delta"
	ConditionSetOverlap ConditionKind = "set_overlap"
)

// RuleCondition is one typed condition inside a rule.
type RuleCondition struct {
	Kind          ConditionKind `json:"kind"`
	Field         string        `json:"field,omitempty"`
	Fields        []string      `json:"fields,omitempty"` // composite, space-joined per record
	Threshold     float64       `json:"threshold,omitempty"`
	ToleranceDays int           `json:"tolerance_days,omitempty"`
	OverlapRatio  float64       `json:"overlap_ratio,omitempty"`
}

// Rule is an ordered list of conditions combined with logical AND.
type Rule struct {
	ID         string          `json:"id"`
	Severity   Severity        `json:"severity"`
	Conditions []RuleCondition `json:"conditions"`
}

// RuleSet holds the configured rules for one entity kind, grouped into the
// likely and possible tiers. Tiers are evaluated in that order and the first
// rule to fire wins for a pair.
type RuleSet struct {
	EntityKind EntityKind `json:"entity_type"`
	Likely     []Rule     `json:"likely"`
	Possible   []Rule     `json:"possible"`
}

// RuleSetRecord is the persisted form of a rule set.
type RuleSetRecord struct {
	ID         string          `json:"id" db:"id"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	Definition json.RawMessage `json:"definition" db:"definition"`
	IsActive   bool            `json:"is_active" db:"is_active"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// CreateRuleSetRequest is the request to create or replace a rule set.
type CreateRuleSetRequest struct {
	EntityType string          `json:"entity_type" validate:"required"`
	Definition json.RawMessage `json:"definition" validate:"required"`
	IsActive   bool            `json:"is_active"`
}
