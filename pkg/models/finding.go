package models

import (
	"time"
)

// IssueTypeDuplicate is the only issue type this engine emits.
const IssueTypeDuplicate = "duplicate"

// Finding is the engine's output contract: one finding per duplicate group,
// consumed by the persistence and reporting collaborators.
type Finding struct {
	RuleID         string         `json:"rule_id"`
	IssueType      string         `json:"issue_type"`
	Entity         string         `json:"entity"`
	RecordID       string         `json:"record_id"` // primary member of the group
	Severity       Severity       `json:"severity"`
	Description    string         `json:"description"`
	Metadata       map[string]any `json:"metadata"`
	RelatedRecords []string       `json:"related_records"`
}

// FindingRecord is the persisted form of a finding. GroupID is the
// idempotence key: re-running the engine on the same snapshot updates the
// same row instead of inserting a new one.
type FindingRecord struct {
	ID             string     `json:"id" db:"id"`
	GroupID        string     `json:"group_id" db:"group_id"`
	RuleID         string     `json:"rule_id" db:"rule_id"`
	IssueType      string     `json:"issue_type" db:"issue_type"`
	EntityType     string     `json:"entity_type" db:"entity_type"`
	RecordID       string     `json:"record_id" db:"record_id"`
	Severity       string     `json:"severity" db:"severity"`
	Description    string     `json:"description" db:"description"`
	Metadata       string     `json:"metadata" db:"metadata"`
	RelatedRecords string     `json:"related_records" db:"related_records"`
	Status         string     `json:"status" db:"status"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolvedBy     *string    `json:"resolved_by,omitempty" db:"resolved_by"`
}

// Finding status constants
const (
	FindingStatusOpen      = "open"
	FindingStatusResolved  = "resolved"
	FindingStatusDismissed = "dismissed"
)
