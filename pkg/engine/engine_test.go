package engine

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/sorrel/pkg/matching"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

func newTestEngine() *Engine {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return New(logger, DefaultConfig())
}

func student(id string, fields map[string]any) models.RawRecord {
	return models.RawRecord{ID: id, Fields: fields}
}

func studentRuleSets() map[models.EntityKind]*models.RuleSet {
	return map[models.EntityKind]*models.RuleSet{
		models.EntityKindStudent: {
			EntityKind: models.EntityKindStudent,
			Likely: []models.Rule{{
				ID:       "same_truth_id",
				Severity: models.SeverityCritical,
				Conditions: []models.RuleCondition{
					{Kind: models.ConditionExactMatch, Field: "truth_id"},
				},
			}},
			Possible: []models.Rule{{
				ID: "name_and_dob",
				Conditions: []models.RuleCondition{
					{Kind: models.ConditionSimilarity, Field: "name", Threshold: 0.85},
					{Kind: models.ConditionDateDelta, Field: "dob", ToleranceDays: 1},
				},
			}},
		},
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("should flag students sharing a truth id as likely duplicates", func(t *testing.T) {
		snapshot := models.Snapshot{
			"student": {
				student("stu-1", map[string]any{
					"legal_first_name": "Maria",
					"legal_last_name":  "Garcia",
					"truth_id":         "TX-100",
					"date_of_birth":    "2010-09-15",
					"email":            "maria.garcia@x.com",
				}),
				student("stu-2", map[string]any{
					"First Name":    "Mariah",
					"Last Name":     "Garcia",
					"truth_id":      "TX-100",
					"date_of_birth": "2010-09-15",
				}),
			},
		}

		result := newTestEngine().Run(ctx, snapshot, studentRuleSets())
		assert.Len(t, result.Findings, 1)

		f := result.Findings[0]
		assert.Equal(t, "same_truth_id", f.RuleID)
		assert.Equal(t, models.SeverityCritical, f.Severity)
		assert.Equal(t, "duplicate", f.IssueType)
		assert.Equal(t, "student", f.Entity)
		assert.Equal(t, "stu-1", f.RecordID) // more complete record wins
		assert.Equal(t, []string{"stu-2"}, f.RelatedRecords)
	})

	t.Run("should flag alias emails via the fallback heuristic", func(t *testing.T) {
		snapshot := models.Snapshot{
			"parent": {
				student("par-1", map[string]any{
					"first_name": "John",
					"last_name":  "Smith",
					"email":      "john.smith@gmail.com",
					"phone":      "(555) 123-4567",
				}),
				student("par-2", map[string]any{
					"first_name": "John",
					"last_name":  "Smith",
					"email":      "johnsmith+school@gmail.com",
					"phone":      "555-123-4567",
				}),
			},
		}

		result := newTestEngine().Run(ctx, snapshot, nil)
		assert.Len(t, result.Findings, 1)

		f := result.Findings[0]
		assert.Equal(t, matching.FallbackRuleWeighted, f.RuleID)
		assert.Equal(t, models.SeverityWarning, f.Severity)
		sample, ok := f.Metadata["evidence_sample"].(map[string]any)
		assert.True(t, ok)
		assert.Contains(t, sample, "email")
		assert.Equal(t, true, sample["email_local_alias"])
		assert.Equal(t, []string{"likely"}, f.Metadata["match_types"])
	})

	t.Run("should never compare records sharing no blocking key", func(t *testing.T) {
		// Same name, but different email, phone, and no birth date: the
		// records land in no shared bucket and are never scored.
		snapshot := models.Snapshot{
			"parent": {
				student("par-1", map[string]any{
					"first_name": "John",
					"last_name":  "Smith",
					"email":      "jsmith@x.com",
					"phone":      "(555) 111-2222",
				}),
				student("par-2", map[string]any{
					"first_name": "John",
					"last_name":  "Smith",
					"email":      "john.smith@y.org",
					"phone":      "(555) 333-4444",
				}),
			},
		}

		result := newTestEngine().Run(ctx, snapshot, nil)
		assert.Empty(t, result.Findings)
		assert.Empty(t, result.Groups)
	})

	t.Run("should merge a transitive chain into one group", func(t *testing.T) {
		snapshot := models.Snapshot{
			"student": {
				student("stu-1", map[string]any{
					"first_name":    "Maria",
					"last_name":     "Garcia",
					"date_of_birth": "2010-09-15",
					"email":         "mg@x.com",
				}),
				student("stu-2", map[string]any{
					"first_name":    "Maria",
					"last_name":     "Garcia",
					"date_of_birth": "2010-09-15",
					"email":         "mg@x.com",
					"phone":         "(555) 123-4567",
				}),
				student("stu-3", map[string]any{
					"first_name":    "Maria",
					"last_name":     "Garcia",
					"date_of_birth": "2010-09-16",
					"phone":         "555.123.4567",
				}),
			},
		}

		result := newTestEngine().Run(ctx, snapshot, studentRuleSets())
		assert.Len(t, result.Groups, 1)
		assert.Equal(t, []string{"stu-1", "stu-2", "stu-3"}, result.Groups[0].Members)
		assert.Equal(t, "stu-2", result.Groups[0].PrimaryID)
	})

	t.Run("should skip unsupported entity kinds", func(t *testing.T) {
		snapshot := models.Snapshot{
			"vehicle": {
				student("v-1", map[string]any{"name": "Bus 12"}),
				student("v-2", map[string]any{"name": "Bus 12"}),
			},
		}

		result := newTestEngine().Run(ctx, snapshot, nil)
		assert.Empty(t, result.Findings)
	})

	t.Run("should drop records without an id", func(t *testing.T) {
		snapshot := models.Snapshot{
			"student": {
				student("", map[string]any{"truth_id": "TX-1"}),
				student("stu-1", map[string]any{"truth_id": "TX-1"}),
			},
		}

		result := newTestEngine().Run(ctx, snapshot, studentRuleSets())
		assert.Empty(t, result.Findings)
	})

	t.Run("should be deterministic across repeated runs", func(t *testing.T) {
		snapshot := models.Snapshot{
			"student": {
				student("stu-1", map[string]any{
					"first_name": "Maria", "last_name": "Garcia",
					"truth_id": "TX-100", "date_of_birth": "2010-09-15",
				}),
				student("stu-2", map[string]any{
					"first_name": "Mariah", "last_name": "Garcia",
					"truth_id": "TX-100", "date_of_birth": "2010-09-15",
				}),
				student("stu-3", map[string]any{
					"first_name": "Rob", "last_name": "Chen",
					"truth_id": "TX-300",
				}),
			},
			"parent": {
				student("par-1", map[string]any{
					"first_name": "John", "last_name": "Smith",
					"email": "john.smith@gmail.com", "phone": "(555) 123-4567",
				}),
				student("par-2", map[string]any{
					"first_name": "John", "last_name": "Smith",
					"email": "johnsmith+x@gmail.com", "phone": "5551234567",
				}),
			},
		}

		eng := newTestEngine()
		first := eng.Run(ctx, snapshot, studentRuleSets())
		for i := 0; i < 5; i++ {
			again := eng.Run(ctx, snapshot, studentRuleSets())
			assert.Equal(t, first.Findings, again.Findings)
			assert.Equal(t, first.Groups, again.Groups)
		}
	})
}

func TestNormalizeRecord(t *testing.T) {
	eng := newTestEngine()
	profile, _ := models.ProfileFor(models.EntityKindStudent)

	t.Run("should derive canonical comparison fields", func(t *testing.T) {
		raw := student("stu-1", map[string]any{
			"Legal First Name": "María",
			"Legal Last Name":  "Núñez",
			"email":            "M.Nunez+home@X.com",
			"phone":            "(555) 123-4567",
			"date_of_birth":    "2010-09-15",
			"parent_ids":       []any{"p2", "p1", "p2"},
		})

		rec := normalizeRecord(eng.extractor, profile, raw)
		assert.NotNil(t, rec)
		assert.Equal(t, "maria nunez", rec.Name)
		assert.Equal(t, "N520", rec.Phonetic)
		assert.Equal(t, "mnunez@x.com", rec.Email)
		assert.Equal(t, "mnunez", rec.EmailLocal)
		assert.Equal(t, "x.com", rec.EmailDomain)
		assert.Equal(t, "+15551234567", rec.Phone)
		assert.NotNil(t, rec.BirthDate)
		assert.Equal(t, []string{"p1", "p2"}, rec.LinkedIDs)
	})

	t.Run("should fall back to the full name's final token for phonetics", func(t *testing.T) {
		raw := student("stu-1", map[string]any{"full_name": "Maria Garcia"})

		rec := normalizeRecord(eng.extractor, profile, raw)
		assert.NotNil(t, rec)
		assert.Equal(t, "maria garcia", rec.Name)
		assert.Equal(t, "G620", rec.Phonetic)
	})

	t.Run("should return nil for blank ids", func(t *testing.T) {
		assert.Nil(t, normalizeRecord(eng.extractor, profile, student("  ", nil)))
	})

	t.Run("should use the phonetic sentinel when no name exists", func(t *testing.T) {
		rec := normalizeRecord(eng.extractor, profile, student("stu-1", map[string]any{"zip": "78701"}))
		assert.NotNil(t, rec)
		assert.Equal(t, "0000", rec.Phonetic)
	})
}
