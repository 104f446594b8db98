package ruleset

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/sorrel/pkg/database"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/tracing"
)

// Repository handles rule set persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new rule set repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// GetActiveByEntityType returns the active rule set for an entity type,
// parsed into its engine form. Returns nil when none is configured, which
// makes the engine fall back to its heuristic for that type.
func (r *Repository) GetActiveByEntityType(ctx context.Context, entityType string) (*models.RuleSet, error) {
	ctx, span := tracing.StartSpan(ctx, "ruleset.Repository.GetActiveByEntityType")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "entity_type", "definition", "is_active", "created_at", "updated_at")
	sb.From("rule_sets")
	sb.Where(
		sb.Equal("entity_type", entityType),
		sb.Equal("is_active", true),
	)
	sb.Limit(1)

	query, args := sb.Build()
	var record models.RuleSetRecord
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get rule set")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get rule set")
	}

	var ruleSet models.RuleSet
	if err := json.Unmarshal(record.Definition, &ruleSet); err != nil {
		return nil, fmt.Errorf("failed to parse rule set definition for %s: %w", entityType, err)
	}
	ruleSet.EntityKind = models.EntityKind(record.EntityType)
	return &ruleSet, nil
}

// List returns all rule set records
func (r *Repository) List(ctx context.Context) ([]models.RuleSetRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "ruleset.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "entity_type", "definition", "is_active", "created_at", "updated_at")
	sb.From("rule_sets")
	sb.OrderBy("entity_type")

	query, args := sb.Build()
	var records []models.RuleSetRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list rule sets")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list rule sets")
	}

	return records, nil
}

// Upsert creates or replaces the rule set for an entity type
func (r *Repository) Upsert(ctx context.Context, req models.CreateRuleSetRequest) (*models.RuleSetRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "ruleset.Repository.Upsert")
	defer span.End()

	now := time.Now().UTC()
	record := &models.RuleSetRecord{
		ID:         uuid.New().String(),
		EntityType: req.EntityType,
		Definition: req.Definition,
		IsActive:   req.IsActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("rule_sets")
	sb.Cols("id", "entity_type", "definition", "is_active", "created_at", "updated_at")
	sb.Values(record.ID, record.EntityType, string(record.Definition), record.IsActive, record.CreatedAt, record.UpdatedAt)

	query, args := sb.Build()
	query += " ON CONFLICT (entity_type) DO UPDATE SET definition = EXCLUDED.definition, is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"entity_type": req.EntityType}).Error("Failed to upsert rule set")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert rule set")
	}

	return record, nil
}

// Delete removes the rule set for an entity type
func (r *Repository) Delete(ctx context.Context, entityType string) error {
	ctx, span := tracing.StartSpan(ctx, "ruleset.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewDeleteBuilder()
	sb.DeleteFrom("rule_sets")
	sb.Where(sb.Equal("entity_type", entityType))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete rule set")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete rule set")
	}

	return nil
}
