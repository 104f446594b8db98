package engine

import (
	"fmt"

	"github.com/Ramsey-B/sorrel/pkg/models"
)

// buildFindings converts duplicate groups into the finding contract consumed
// by the persistence and reporting collaborators. One finding per group,
// anchored on the group's primary record.
func buildFindings(groups []models.DuplicateGroup) []models.Finding {
	findings := make([]models.Finding, 0, len(groups))
	for _, g := range groups {
		findings = append(findings, models.Finding{
			RuleID:    g.RuleID,
			IssueType: models.IssueTypeDuplicate,
			Entity:    string(g.Kind),
			RecordID:  g.PrimaryID,
			Severity:  g.TopSeverity,
			Description: fmt.Sprintf("%d %s records appear to be duplicates of %s",
				len(g.RelatedIDs), g.Kind, g.PrimaryID),
			Metadata: map[string]any{
				"group_id":        g.GroupID,
				"members":         g.Members,
				"match_types":     g.MatchTypes,
				"confidences":     g.Confidences,
				"evidence_sample": g.EvidenceSample,
			},
			RelatedRecords: g.RelatedIDs,
		})
	}
	return findings
}
