package models

// Profile describes the per-kind capabilities the engine needs: which raw
// keys feed each canonical field and which fields count toward completeness
// when electing a primary record. Dispatch is a lookup on EntityKind rather
// than runtime type inspection.
type Profile struct {
	Kind EntityKind

	// Raw field synonyms, tried in order (exact key, then a title-cased
	// "Legal First Name" style variant of each).
	FirstNameKeys []string
	LastNameKeys  []string
	FullNameKeys  []string
	EmailKeys     []string
	PhoneKeys     []string
	BirthDateKeys []string
	TruthKeys     []string
	GradeKeys     []string
	ZipKeys       []string
	CampusKeys    []string
	LinkKeys      []string

	// Logical fields counted as value-bearing for primary selection.
	CompletenessFields []string
}

var profiles = map[EntityKind]Profile{
	EntityKindStudent: {
		Kind:          EntityKindStudent,
		FirstNameKeys: []string{"legal_first_name", "first_name"},
		LastNameKeys:  []string{"legal_last_name", "last_name"},
		FullNameKeys:  []string{"full_name", "name"},
		EmailKeys:     []string{"email", "student_email", "email_address"},
		PhoneKeys:     []string{"phone", "phone_number", "cell_phone"},
		BirthDateKeys: []string{"date_of_birth", "dob", "birth_date"},
		TruthKeys:     []string{"truth_id", "state_student_id"},
		GradeKeys:     []string{"grade", "grade_level"},
		ZipKeys:       []string{"zip", "zip_code", "postal_code"},
		CampusKeys:    []string{"campus", "campus_id", "school"},
		LinkKeys:      []string{"parent_ids", "parents", "guardian_ids"},
		CompletenessFields: []string{
			"name", "email", "phone", "dob", "truth_id", "grade", "zip", "campus", "linked_ids",
		},
	},
	EntityKindParent: {
		Kind:          EntityKindParent,
		FirstNameKeys: []string{"first_name", "legal_first_name"},
		LastNameKeys:  []string{"last_name", "legal_last_name"},
		FullNameKeys:  []string{"full_name", "name"},
		EmailKeys:     []string{"email", "email_address", "contact_email"},
		PhoneKeys:     []string{"phone", "phone_number", "cell_phone", "primary_phone"},
		BirthDateKeys: []string{"date_of_birth", "dob"},
		TruthKeys:     []string{"truth_id"},
		ZipKeys:       []string{"zip", "zip_code", "postal_code"},
		CampusKeys:    []string{"campus", "campus_id"},
		LinkKeys:      []string{"student_ids", "students", "child_ids"},
		CompletenessFields: []string{
			"name", "email", "phone", "zip", "linked_ids",
		},
	},
	EntityKindContractor: {
		Kind:          EntityKindContractor,
		FirstNameKeys: []string{"first_name"},
		LastNameKeys:  []string{"last_name"},
		FullNameKeys:  []string{"full_name", "name", "company_name"},
		EmailKeys:     []string{"email", "email_address", "work_email"},
		PhoneKeys:     []string{"phone", "phone_number", "work_phone"},
		BirthDateKeys: []string{"date_of_birth", "dob"},
		TruthKeys:     []string{"truth_id", "vendor_id"},
		ZipKeys:       []string{"zip", "zip_code"},
		CampusKeys:    []string{"campus", "campus_ids", "campuses", "assigned_campuses"},
		LinkKeys:      []string{"campus_ids", "campuses", "assigned_campuses"},
		CompletenessFields: []string{
			"name", "email", "phone", "truth_id", "campus",
		},
	},
}

// ProfileFor returns the capability profile for an entity kind. The bool is
// false for kinds the engine does not resolve.
func ProfileFor(kind EntityKind) (Profile, bool) {
	p, ok := profiles[kind]
	return p, ok
}

// Kinds returns the supported entity kinds in a stable order.
func Kinds() []EntityKind {
	return []EntityKind{EntityKindStudent, EntityKindParent, EntityKindContractor}
}
