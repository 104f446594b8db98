// Package runner orchestrates resolution runs: it loads the active rule sets,
// executes the engine over a snapshot, persists the resulting findings, and
// fans results out to the event stream and the graph mirror.
package runner

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"

	"github.com/Ramsey-B/sorrel/internal/repositories/finding"
	"github.com/Ramsey-B/sorrel/internal/repositories/ruleset"
	"github.com/Ramsey-B/sorrel/pkg/engine"
	"github.com/Ramsey-B/sorrel/pkg/events"
	"github.com/Ramsey-B/sorrel/pkg/graph"
	"github.com/Ramsey-B/sorrel/pkg/kafka"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Runner coordinates one resolution run end to end. The emitter and group
// service are optional; a nil collaborator is skipped so the runner works in
// deployments without Kafka or the graph database.
type Runner struct {
	logger       ectologger.Logger
	engine       *engine.Engine
	ruleSetRepo  *ruleset.Repository
	findingRepo  *finding.Repository
	emitter      *events.Emitter
	groupService *graph.GroupService
}

// NewRunner creates a new run coordinator
func NewRunner(
	logger ectologger.Logger,
	eng *engine.Engine,
	ruleSetRepo *ruleset.Repository,
	findingRepo *finding.Repository,
	emitter *events.Emitter,
	groupService *graph.GroupService,
) *Runner {
	return &Runner{
		logger:       logger,
		engine:       eng,
		ruleSetRepo:  ruleSetRepo,
		findingRepo:  findingRepo,
		emitter:      emitter,
		groupService: groupService,
	}
}

// RunResult summarizes a completed resolution run.
type RunResult struct {
	RunID    string           `json:"run_id"`
	Findings []models.Finding `json:"findings"`
	Groups   int              `json:"groups"`
}

// Run executes the pipeline over a snapshot. Findings are upserted keyed by
// group id, so re-running the same snapshot updates rows in place.
func (r *Runner) Run(ctx context.Context, runID string, snapshot models.Snapshot) (*RunResult, error) {
	ctx, span := tracing.StartSpan(ctx, "runner.Runner.Run")
	defer span.End()

	if runID == "" {
		runID = uuid.New().String()
	}

	log := r.logger.WithContext(ctx).WithFields(map[string]any{"run_id": runID})

	ruleSets, err := r.loadRuleSets(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load rule sets")
		return nil, err
	}

	result := r.engine.Run(ctx, snapshot, ruleSets)

	if err := r.findingRepo.UpsertBatch(ctx, result.Findings); err != nil {
		log.WithError(err).Error("Failed to persist findings")
		return nil, fmt.Errorf("failed to persist findings: %w", err)
	}

	if r.groupService != nil {
		if err := r.groupService.SyncGroups(ctx, result.Groups); err != nil {
			// Graph is a read model; a sync failure does not fail the run.
			log.WithError(err).Error("Failed to sync duplicate groups to graph")
		}
	}

	if r.emitter != nil {
		if err := r.emitter.EmitRun(ctx, runID, result.Findings); err != nil {
			log.WithError(err).Error("Failed to emit run events")
		}
	}

	log.WithFields(map[string]any{
		"findings": len(result.Findings),
		"groups":   len(result.Groups),
	}).Info("Resolution run persisted")

	return &RunResult{
		RunID:    runID,
		Findings: result.Findings,
		Groups:   len(result.Groups),
	}, nil
}

// HandleSnapshot adapts the runner to the Kafka snapshot consumer.
func (r *Runner) HandleSnapshot(ctx context.Context, msg *kafka.SnapshotMessage) error {
	ctx, span := tracing.StartSpan(ctx, "runner.Runner.HandleSnapshot")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"run_id": msg.RunID,
		"source": msg.Source,
	})
	log.Info("Processing snapshot message")

	if _, err := r.Run(ctx, msg.RunID, msg.Records); err != nil {
		return err
	}
	return nil
}

// loadRuleSets fetches the active rule set for each supported entity kind.
// Kinds without a stored rule set map to nil, which selects the fallback
// heuristic in the engine.
func (r *Runner) loadRuleSets(ctx context.Context) (map[models.EntityKind]*models.RuleSet, error) {
	ruleSets := make(map[models.EntityKind]*models.RuleSet)
	for _, kind := range models.Kinds() {
		rs, err := r.ruleSetRepo.GetActiveByEntityType(ctx, string(kind))
		if err != nil {
			return nil, fmt.Errorf("failed to load rule set for %s: %w", kind, err)
		}
		ruleSets[kind] = rs
	}
	return ruleSets, nil
}
