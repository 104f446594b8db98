package engine

import (
	"sort"
	"strings"

	"github.com/Ramsey-B/sorrel/pkg/extractor"
	"github.com/Ramsey-B/sorrel/pkg/models"
	"github.com/Ramsey-B/sorrel/pkg/normalizers"
)

// normalizeRecord derives the canonical record for one raw record, or nil
// when the record has no usable id. Each canonical record is built exactly
// once per run and never mutated afterwards.
func normalizeRecord(ext *extractor.Extractor, profile models.Profile, raw models.RawRecord) *models.CanonicalRecord {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		return nil
	}

	first := ext.String(raw.Fields, profile.FirstNameKeys...)
	last := ext.String(raw.Fields, profile.LastNameKeys...)

	var name string
	if first != "" || last != "" {
		name = normalizers.Name(strings.TrimSpace(first + " " + last))
	} else {
		name = normalizers.Name(ext.String(raw.Fields, profile.FullNameKeys...))
	}

	// Phonetic code is derived from the surname when one is available,
	// otherwise from the final token of the full name.
	surname := last
	if surname == "" {
		if tokens := strings.Fields(name); len(tokens) > 0 {
			surname = tokens[len(tokens)-1]
		}
	}

	email := normalizers.Email(ext.String(raw.Fields, profile.EmailKeys...))
	local, domain := normalizers.EmailParts(ext.String(raw.Fields, profile.EmailKeys...))

	rec := &models.CanonicalRecord{
		Kind:        profile.Kind,
		ID:          id,
		Name:        name,
		Phonetic:    normalizers.Soundex(surname),
		Email:       email,
		EmailLocal:  local,
		EmailDomain: domain,
		Phone:       normalizers.Phone(ext.String(raw.Fields, profile.PhoneKeys...)),
		BirthDate:   normalizers.Date(ext.Value(raw.Fields, profile.BirthDateKeys...)),
		TruthID:     ext.String(raw.Fields, profile.TruthKeys...),
		Grade:       strings.ToLower(ext.String(raw.Fields, profile.GradeKeys...)),
		Zip:         ext.String(raw.Fields, profile.ZipKeys...),
		Campuses:    sortedSet(ext.Strings(raw.Fields, profile.CampusKeys...)),
		LinkedIDs:   sortedSet(ext.Strings(raw.Fields, profile.LinkKeys...)),
	}
	return rec
}

// sortedSet dedupes and sorts so derived sets never depend on source order.
func sortedSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
