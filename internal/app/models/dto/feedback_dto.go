package dto

// FeedbackQueryItem is one entry of an incoming feedback batch. CourseID is
// the primary listing in "DEPT NUMBER" form, OtherListings are the known
// cross-listings in the same form, and Instructor is one name or several
// comma-separated names ("Smith" or "Ada Lovelace, Turing").
type FeedbackQueryItem struct {
	CourseID      string   `json:"courseId" binding:"required" example:"CMSC 14100"`
	OtherListings []string `json:"otherListings" example:"MATH 14100"`
	Instructor    string   `json:"instructor" example:"Lovelace"`
}

// FeedbackResult is the assembled record for one query item, in input order.
// Numeric fields are pointers so that "no data available" serializes as an
// explicit JSON null rather than a zero.
type FeedbackResult struct {
	// CourseID echoes the listing the figures were taken from; it differs
	// from the queried primary name when an alternate listing supplied the
	// rating.
	CourseID              string   `json:"courseId" example:"CMSC 15100"`
	CourseRating          *float64 `json:"course_rating" example:"4.2"`
	ProfessorRating       *float64 `json:"professor_rating" example:"4.5"`
	ProfessorCourseRating *float64 `json:"professor_course_rating" example:"4.3"`
	CourseHours           *float64 `json:"course_hours" example:"12.0"`
	ProfessorCourseHours  *float64 `json:"professor_course_hours" example:"11.5"`
	CourseURLs            []string `json:"course_urls"`
}
