package events

import (
	"context"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Emitter publishes finding events to the output topic.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitRun publishes one event per finding plus a run-completed event.
// Events are keyed by group id so repeated runs land on the same partition.
func (e *Emitter) EmitRun(ctx context.Context, runID string, findings []models.Finding) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitRun")
	defer span.End()

	now := time.Now().UTC()
	entityTypes := make(map[string]struct{})

	for _, f := range findings {
		entityTypes[f.Entity] = struct{}{}

		groupID, _ := f.Metadata["group_id"].(string)
		event := FindingEvent{
			BaseEvent: BaseEvent{
				EventType:     EventTypeFindingCreated,
				SchemaVersion: SchemaVersion,
				Timestamp:     now,
				RunID:         runID,
			},
			Finding: f,
		}
		if err := e.producer.Publish(ctx, groupID, event); err != nil {
			return err
		}
	}

	types := make([]string, 0, len(entityTypes))
	for t := range entityTypes {
		types = append(types, t)
	}
	sort.Strings(types)

	completed := RunCompletedEvent{
		BaseEvent: BaseEvent{
			EventType:     EventTypeRunCompleted,
			SchemaVersion: SchemaVersion,
			Timestamp:     now,
			RunID:         runID,
		},
		EntityTypes:  types,
		FindingCount: len(findings),
	}
	if err := e.producer.Publish(ctx, runID, completed); err != nil {
		return err
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id":   runID,
		"findings": len(findings),
	}).Debug("Emitted finding events")

	return nil
}
