package models

// Offering is one scraped survey result for a course taught in one term,
// based on the 'offerings' table. Question means and workload buckets are
// nullable: a survey page may omit any subset of them. Rows are immutable
// once ingested; only the cached aggregate columns are rewritten by the
// recompute job.
type Offering struct {
	ID     int64  `json:"id" db:"id" example:"1"`
	Dept   string `json:"dept" db:"dept" example:"CMSC"`             // Department code of this listing
	Number int    `json:"number" db:"course_number" example:"14100"` // Numeric course number of this listing
	Term   string `json:"term" db:"term" example:"Autumn 2023"`
	URL    string `json:"url" db:"url"` // Source page the row was scraped from

	// Course-level question means (Likert 1-5)
	ChallengeIntellect *float64 `json:"challengeIntellect" db:"challenge_intellect"`
	Purpose            *float64 `json:"purpose" db:"purpose"`
	Standards          *float64 `json:"standards" db:"standards"`
	Feedback           *float64 `json:"feedback" db:"feedback"`
	Fairness           *float64 `json:"fairness" db:"fairness"`
	Respect            *float64 `json:"respect" db:"respect"`
	Excellence         *float64 `json:"excellence" db:"excellence"`

	// Instructor-level question means (Likert 1-5)
	Organization *float64 `json:"organization" db:"organization"`
	Challenge    *float64 `json:"challenge" db:"challenge"`
	Available    *float64 `json:"available" db:"available"`
	Inclusive    *float64 `json:"inclusive" db:"inclusive"`
	Significant  *float64 `json:"significant" db:"significant"`

	// Weekly-workload histogram, percentage of respondents per bucket
	LessFive           *float64 `json:"lessFive" db:"less_five"`
	FiveToTen          *float64 `json:"fiveToTen" db:"five_to_ten"`
	TenToFifteen       *float64 `json:"tenToFifteen" db:"ten_to_fifteen"`
	FifteenToTwenty    *float64 `json:"fifteenToTwenty" db:"fifteen_to_twenty"`
	TwentyToTwentyFive *float64 `json:"twentyToTwentyFive" db:"twenty_to_twenty_five"`
	TwentyFiveToThirty *float64 `json:"twentyFiveToThirty" db:"twenty_five_to_thirty"`
	MoreThirty         *float64 `json:"moreThirty" db:"more_thirty"`

	// Cached aggregates, rebuilt wholesale by the recompute job. Either a
	// finite value or NULL, never zero-by-default.
	AvgCourseRating *float64 `json:"avgCourseRating,omitempty" db:"avg_course_rating"`
	AvgCourseHours  *float64 `json:"avgCourseHours,omitempty" db:"avg_course_hours"`
}

// Key returns the CourseKey of the listing this offering was scraped under.
func (o *Offering) Key() CourseKey {
	return CourseKey{Dept: o.Dept, Number: o.Number}
}
