package models

import (
	"time"
)

// EntityKind identifies one of the record populations the engine resolves.
type EntityKind string

const (
	EntityKindStudent    EntityKind = "student"
	EntityKindParent     EntityKind = "parent"
	EntityKindContractor EntityKind = "contractor"
)

// RawRecord is the shape produced by the ingestion layer: an opaque id plus
// an unordered field map with no enforced key naming ("Legal First Name" and
// "legal_first_name" are both valid spellings of the same field).
type RawRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// Snapshot maps an entity-kind name to the raw records for one engine run.
type Snapshot map[string][]RawRecord

// CanonicalRecord is the normalized, comparison-ready projection of a raw
// record. It is built once per run and never mutated afterwards; all
// comparisons go through the derived fields below, never the raw field map.
type CanonicalRecord struct {
	Kind EntityKind
	ID   string

	// Derived comparison keys
	Name        string // lowercase, accent-stripped, whitespace-collapsed
	Phonetic    string // 4-character code of the surname, "0000" sentinel
	Email       string // alias-normalized local@domain, "" if unparseable
	EmailLocal  string // alias-stripped local part
	EmailDomain string
	Phone       string // +digits, "" if unparseable
	BirthDate   *time.Time

	// Entity-specific fields
	TruthID   string
	Grade     string
	Zip       string
	Campuses  []string
	LinkedIDs []string
}

// FieldString resolves a logical field to its normalized scalar value.
// Unknown or empty fields resolve to "".
func (r *CanonicalRecord) FieldString(name string) string {
	switch name {
	case "name":
		return r.Name
	case "phonetic":
		return r.Phonetic
	case "email":
		return r.Email
	case "email_local":
		return r.EmailLocal
	case "email_domain":
		return r.EmailDomain
	case "phone":
		return r.Phone
	case "truth_id":
		return r.TruthID
	case "grade":
		return r.Grade
	case "zip":
		return r.Zip
	case "dob":
		if r.BirthDate == nil {
			return ""
		}
		return r.BirthDate.Format("2006-01-02")
	}
	return ""
}

// FieldStrings resolves a logical field to a set of string values. Scalar
// fields are promoted to singleton sets; empty values yield an empty set.
func (r *CanonicalRecord) FieldStrings(name string) []string {
	switch name {
	case "campus":
		return r.Campuses
	case "linked_ids":
		return r.LinkedIDs
	}
	if v := r.FieldString(name); v != "" {
		return []string{v}
	}
	return nil
}

// FieldDate resolves a logical field to a date, or nil when absent.
func (r *CanonicalRecord) FieldDate(name string) *time.Time {
	if name == "dob" || name == "birth_date" || name == "date_of_birth" {
		return r.BirthDate
	}
	return nil
}
