package kafka

import (
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// SnapshotMessage is one roster snapshot published by the ingestion layer:
// a full batch of raw records per entity type for one resolution run.
type SnapshotMessage struct {
	RunID     string          `json:"run_id"`
	Source    string          `json:"source,omitempty"`
	Records   models.Snapshot `json:"records"`
	Timestamp int64           `json:"timestamp"`
}
