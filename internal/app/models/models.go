package models

import "fmt"

// CourseKey identifies a course independent of term: a department code plus
// the numeric course number ("CMSC 14100" -> {CMSC, 14100}). Cross-listed
// courses carry one CourseKey per listing.
type CourseKey struct {
	Dept   string `json:"dept"`
	Number int    `json:"number"`
}

// String renders the key back into the "DEPT NUMBER" wire form.
func (k CourseKey) String() string {
	return fmt.Sprintf("%s %d", k.Dept, k.Number)
}

// ProfessorKey identifies a stored professor identity candidate during name
// disambiguation. Identities are department-scoped, so the same last name may
// map to several keys.
type ProfessorKey struct {
	LastName string `json:"lastName"`
	Dept     string `json:"dept"`
}

// ProfessorLookup asks for a professor identity by last name, to be
// disambiguated across an ordered department-priority list: the primary
// department of a query item followed by its cross-listing departments.
type ProfessorLookup struct {
	LastName string   `json:"lastName"`
	Depts    []string `json:"depts"`
}

// ProfessorCourseKey identifies the cached aggregates for one professor
// teaching one course listing.
type ProfessorCourseKey struct {
	ProfessorID int64  `json:"professorId"`
	Dept        string `json:"dept"`
	Number      int    `json:"number"`
}
