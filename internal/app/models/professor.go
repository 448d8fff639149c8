package models

// Professor defines a professor identity based on the 'professors' table.
// Identity is scoped per department: the same person teaching cross-listed
// courses in two departments is stored as two rows, and query-time
// resolution compensates with department-priority search. Rows are created
// lazily at ingest and never deleted.
type Professor struct {
	ID        int64  `json:"id" db:"id" example:"1"`
	Dept      string `json:"dept" db:"dept" example:"CMSC"`
	FirstName string `json:"firstName" db:"first_name" example:"Ada"`
	LastName  string `json:"lastName" db:"last_name" example:"Lovelace"`

	// Cached aggregate over every offering linked to this identity.
	AvgProfessorRating *float64 `json:"avgProfessorRating,omitempty" db:"avg_professor_rating"`
}

// OfferingProfessor is the many-to-many edge between offerings and professor
// identities, based on the 'offerings_professors' table. The edge also
// carries the cached per-(professor, course) aggregates, duplicated across
// the edges sharing a professor and course key the same way the per-course
// aggregates are duplicated across offerings.
type OfferingProfessor struct {
	OfferingID  int64 `json:"offeringId" db:"offering_id"`
	ProfessorID int64 `json:"professorId" db:"professor_id"`

	AvgProfCourseRating *float64 `json:"avgProfCourseRating,omitempty" db:"avg_prof_course_rating"`
	AvgProfCourseHours  *float64 `json:"avgProfCourseHours,omitempty" db:"avg_prof_course_hours"`
}
