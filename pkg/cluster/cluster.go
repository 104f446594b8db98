// Package cluster merges pair matches into duplicate groups via union-find
// and elects a canonical primary record per group.
package cluster

import (
	"sort"

	"github.com/Ramsey-B/sorrel/pkg/fingerprint"
	"github.com/Ramsey-B/sorrel/pkg/models"
)

// BuildGroups merges the endpoints of every pair match and returns the
// duplicate groups for one entity kind. Records with no matches never form a
// group. Groups come back sorted by group id, so two runs over the same
// input produce the same slice.
//
// Transitivity holds by construction: if A-B and B-C matched, {A,B,C} is one
// group even though A-C was never directly scored.
func BuildGroups(records []*models.CanonicalRecord, matches []*models.PairMatch, profile models.Profile) []models.DuplicateGroup {
	if len(matches) == 0 {
		return nil
	}

	byID := make(map[string]int, len(records))
	for i, rec := range records {
		byID[rec.ID] = i
	}

	uf := newUnionFind(len(records))
	for _, m := range matches {
		ia, okA := byID[m.IDA]
		ib, okB := byID[m.IDB]
		if !okA || !okB {
			continue
		}
		uf.union(ia, ib)
	}

	memberIdx := make(map[int][]int)
	for i := range records {
		root := uf.find(i)
		memberIdx[root] = append(memberIdx[root], i)
	}

	matchesByRoot := make(map[int][]*models.PairMatch)
	for _, m := range matches {
		ia, ok := byID[m.IDA]
		if !ok {
			continue
		}
		root := uf.find(ia)
		matchesByRoot[root] = append(matchesByRoot[root], m)
	}

	var groups []models.DuplicateGroup
	for root, idxs := range memberIdx {
		if len(idxs) < 2 {
			continue
		}
		groups = append(groups, buildGroup(records, idxs, matchesByRoot[root], profile))
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].GroupID < groups[j].GroupID })
	return groups
}

func buildGroup(records []*models.CanonicalRecord, idxs []int, contributing []*models.PairMatch, profile models.Profile) models.DuplicateGroup {
	members := make([]string, 0, len(idxs))
	for _, i := range idxs {
		members = append(members, records[i].ID)
	}
	sort.Strings(members)

	primary := electPrimary(records, idxs, profile)

	related := make([]string, 0, len(members)-1)
	for _, id := range members {
		if id != primary {
			related = append(related, id)
		}
	}

	// Stable ordering: strongest match first, then pair identity.
	sort.Slice(contributing, func(i, j int) bool {
		a, b := contributing[i], contributing[j]
		if ra, rb := models.SeverityRank(a.Severity), models.SeverityRank(b.Severity); ra != rb {
			return ra > rb
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.IDA != b.IDA {
			return a.IDA < b.IDA
		}
		return a.IDB < b.IDB
	})

	group := models.DuplicateGroup{
		GroupID:    fingerprint.GroupID(string(profile.Kind), members),
		Kind:       profile.Kind,
		Members:    members,
		PrimaryID:  primary,
		RelatedIDs: related,
	}

	for _, m := range contributing {
		group.MatchTypes = append(group.MatchTypes, string(m.MatchType))
		group.Confidences = append(group.Confidences, m.Confidence)
	}
	if len(contributing) > 0 {
		top := contributing[0]
		group.TopSeverity = top.Severity
		group.RuleID = top.RuleID
		group.EvidenceSample = top.Evidence
	}

	return group
}

// electPrimary picks the most complete member, breaking ties by the
// lexicographically smallest record id.
func electPrimary(records []*models.CanonicalRecord, idxs []int, profile models.Profile) string {
	best := ""
	bestScore := -1
	for _, i := range idxs {
		rec := records[i]
		score := completeness(rec, profile)
		if score > bestScore || (score == bestScore && rec.ID < best) {
			best = rec.ID
			bestScore = score
		}
	}
	return best
}

// completeness counts the value-bearing fields that are populated.
func completeness(rec *models.CanonicalRecord, profile models.Profile) int {
	count := 0
	for _, field := range profile.CompletenessFields {
		if len(rec.FieldStrings(field)) > 0 {
			count++
		}
	}
	return count
}
