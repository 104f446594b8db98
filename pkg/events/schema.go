// Package events defines the outbound event contract for duplicate findings.
package events

import (
	"time"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// EventType defines the type of event
type EventType string

const (
	EventTypeFindingCreated  EventType = "finding.created"
	EventTypeFindingResolved EventType = "finding.resolved"
	EventTypeRunCompleted    EventType = "run.completed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType     EventType `json:"event_type"`
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	RunID         string    `json:"run_id,omitempty"`
}

// FindingEvent is emitted for each duplicate group found in a run.
type FindingEvent struct {
	BaseEvent
	Finding models.Finding `json:"finding"`
}

// RunCompletedEvent is emitted once per resolution run.
type RunCompletedEvent struct {
	BaseEvent
	EntityTypes  []string `json:"entity_types"`
	FindingCount int      `json:"finding_count"`
}

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"
