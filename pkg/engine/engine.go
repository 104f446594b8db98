// Package engine runs the batch duplicate-resolution pipeline: raw records
// are normalized into canonical form, blocked into candidate buckets,
// classified pairwise, and clustered into duplicate-group findings. The
// engine performs no I/O; given an in-memory snapshot it returns an
// in-memory result, identically on every run over the same input.
package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/sorrel/pkg/blocking"
	"github.com/Ramsey-B/sorrel/pkg/cluster"
	"github.com/Ramsey-B/sorrel/pkg/extractor"
	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Config contains configuration for the resolution engine
type Config struct {
	FallbackWeights matching.FallbackWeights
}

// DefaultConfig returns default engine configuration
func DefaultConfig() Config {
	return Config{
		FallbackWeights: matching.DefaultFallbackWeights(),
	}
}

// Result holds the output of one resolution run. Findings are the
// reporting contract; Groups carry the full cluster detail for collaborators
// that need member-level structure, like the graph mirror.
type Result struct {
	Findings []models.Finding
	Groups   []models.DuplicateGroup
}

// Engine is the entity-resolution engine. It is stateless across runs: each
// Run recomputes groups from the snapshot it is handed.
type Engine struct {
	logger    ectologger.Logger
	extractor *extractor.Extractor
	cfg       Config
}

// New creates a new resolution engine
func New(logger ectologger.Logger, cfg Config) *Engine {
	return &Engine{
		logger:    logger,
		extractor: extractor.New(),
		cfg:       cfg,
	}
}

// Run resolves duplicates across the snapshot and returns one finding per
// duplicate group. Entity kinds are independent and processed in parallel;
// each kind owns its own blocking index and union-find table. Kinds without
// a configured rule set fall back to the weighted heuristic.
func (e *Engine) Run(ctx context.Context, snapshot models.Snapshot, ruleSets map[models.EntityKind]*models.RuleSet) *Result {
	ctx, span := tracing.StartSpan(ctx, "engine.Engine.Run")
	defer span.End()

	kinds := make([]models.EntityKind, 0, len(snapshot))
	for name := range snapshot {
		kind := models.EntityKind(name)
		if _, ok := models.ProfileFor(kind); !ok {
			e.logger.WithContext(ctx).WithFields(map[string]any{"entity_type": name}).Warn("Skipping unsupported entity type")
			continue
		}
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	results := make([][]models.DuplicateGroup, len(kinds))
	var wg sync.WaitGroup
	for i, kind := range kinds {
		wg.Add(1)
		go func(i int, kind models.EntityKind) {
			defer wg.Done()
			results[i] = e.runKind(ctx, kind, snapshot[string(kind)], ruleSets[kind])
		}(i, kind)
	}
	wg.Wait()

	result := &Result{}
	for _, groups := range results {
		result.Groups = append(result.Groups, groups...)
		result.Findings = append(result.Findings, buildFindings(groups)...)
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"entity_types": len(kinds),
		"groups":       len(result.Groups),
		"findings":     len(result.Findings),
	}).Info("Resolution run complete")

	return result
}

// runKind executes the full pipeline for one entity kind.
func (e *Engine) runKind(ctx context.Context, kind models.EntityKind, raws []models.RawRecord, ruleSet *models.RuleSet) []models.DuplicateGroup {
	ctx, span := tracing.StartSpan(ctx, "engine.Engine.runKind")
	defer span.End()

	profile, _ := models.ProfileFor(kind)

	log := e.logger.WithContext(ctx).WithFields(map[string]any{"entity_type": kind})

	records := make([]*models.CanonicalRecord, 0, len(raws))
	dropped := 0
	for _, raw := range raws {
		rec := normalizeRecord(e.extractor, profile, raw)
		if rec == nil {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	if dropped > 0 {
		log.WithFields(map[string]any{"dropped": dropped}).Debug("Dropped records without a usable id")
	}

	index := blocking.Build(records)
	classifier := matching.NewClassifier(ruleSet, e.cfg.FallbackWeights)

	var matches []*models.PairMatch
	pairs := 0
	index.EachPair(func(a, b *models.CanonicalRecord) {
		pairs++
		if m := classifier.Classify(a, b); m != nil {
			matches = append(matches, m)
		}
	})

	groups := cluster.BuildGroups(records, matches, profile)

	log.WithFields(map[string]any{
		"records": len(records),
		"buckets": index.BucketCount(),
		"pairs":   pairs,
		"matches": len(matches),
		"groups":  len(groups),
	}).Debug("Entity type resolved")

	return groups
}
