package finding

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

// Repository handles duplicate-finding persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new finding repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertBatch stores engine findings idempotently: the deterministic group
// id is the conflict key, so re-running the engine over the same snapshot
// updates rows in place instead of duplicating them.
func (r *Repository) UpsertBatch(ctx context.Context, findings []models.Finding) error {
	ctx, span := tracing.StartSpan(ctx, "finding.Repository.UpsertBatch")
	defer span.End()

	if len(findings) == 0 {
		return nil
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("findings")
	sb.Cols("id", "group_id", "rule_id", "issue_type", "entity_type", "record_id", "severity", "description", "metadata", "related_records", "status", "created_at", "updated_at")

	for _, f := range findings {
		groupID, _ := f.Metadata["group_id"].(string)
		if groupID == "" {
			return fmt.Errorf("finding for record %s has no group_id", f.RecordID)
		}

		metadataJSON, _ := json.Marshal(f.Metadata)
		relatedJSON, _ := json.Marshal(f.RelatedRecords)

		sb.Values(uuid.New().String(), groupID, f.RuleID, f.IssueType, f.Entity, f.RecordID,
			string(f.Severity), f.Description, string(metadataJSON), string(relatedJSON),
			models.FindingStatusOpen, now, now)
	}

	query, args := sb.Build()
	query += " ON CONFLICT (group_id) DO UPDATE SET rule_id = EXCLUDED.rule_id, record_id = EXCLUDED.record_id, severity = EXCLUDED.severity, description = EXCLUDED.description, metadata = EXCLUDED.metadata, related_records = EXCLUDED.related_records, updated_at = EXCLUDED.updated_at"

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to upsert findings batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert findings")
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{"count": len(findings)}).Debug("Upserted findings batch")
	return nil
}

// Get retrieves a finding by id
func (r *Repository) Get(ctx context.Context, id string) (*models.FindingRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "finding.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "group_id", "rule_id", "issue_type", "entity_type", "record_id", "severity", "description", "metadata", "related_records", "status", "created_at", "updated_at", "resolved_at", "resolved_by")
	sb.From("findings")
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	var record models.FindingRecord
	if err := r.db.GetContext(ctx, &record, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("finding %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get finding")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get finding")
	}

	return &record, nil
}

// ListOpen lists open findings, optionally filtered by entity type
func (r *Repository) ListOpen(ctx context.Context, entityType string, limit int) ([]models.FindingRecord, error) {
	ctx, span := tracing.StartSpan(ctx, "finding.Repository.ListOpen")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 100
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "group_id", "rule_id", "issue_type", "entity_type", "record_id", "severity", "description", "metadata", "related_records", "status", "created_at", "updated_at", "resolved_at", "resolved_by")
	sb.From("findings")
	conds := []string{sb.Equal("status", models.FindingStatusOpen)}
	if entityType != "" {
		conds = append(conds, sb.Equal("entity_type", entityType))
	}
	sb.Where(conds...)
	sb.OrderBy("severity", "updated_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var records []models.FindingRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list findings")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list findings")
	}

	return records, nil
}

// Resolve marks a finding resolved or dismissed
func (r *Repository) Resolve(ctx context.Context, id, status, resolvedBy string) error {
	ctx, span := tracing.StartSpan(ctx, "finding.Repository.Resolve")
	defer span.End()

	if status != models.FindingStatusResolved && status != models.FindingStatusDismissed {
		return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid resolution status %q", status))
	}

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("findings")
	sb.Set(
		sb.Assign("status", status),
		sb.Assign("resolved_at", now),
		sb.Assign("resolved_by", resolvedBy),
		sb.Assign("updated_at", now),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to resolve finding")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to resolve finding")
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("finding %s not found", id))
	}

	return nil
}
