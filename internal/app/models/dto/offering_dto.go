package dto

// OfferingInstructor names one instructor parsed from a scraped offering
// header. A professor identity row is created lazily for (dept, first, last)
// the first time the name is seen for the offering's department.
type OfferingInstructor struct {
	FirstName string `json:"firstName" example:"Ada"`
	LastName  string `json:"lastName" binding:"required" example:"Lovelace"`
}

// CreateOfferingRequest is the scraper-facing ingest payload: one survey
// page worth of per-offering data. Question means and workload buckets are
// nullable; omitted fields are stored as NULL, never coerced to zero.
type CreateOfferingRequest struct {
	Dept   string `json:"dept" binding:"required" example:"CMSC"`
	Number int    `json:"number" binding:"required" example:"14100"`
	Term   string `json:"term" binding:"required" example:"Autumn 2023"`
	URL    string `json:"url" binding:"required,url"`

	ChallengeIntellect *float64 `json:"challengeIntellect"`
	Purpose            *float64 `json:"purpose"`
	Standards          *float64 `json:"standards"`
	Feedback           *float64 `json:"feedback"`
	Fairness           *float64 `json:"fairness"`
	Respect            *float64 `json:"respect"`
	Excellence         *float64 `json:"excellence"`

	Organization *float64 `json:"organization"`
	Challenge    *float64 `json:"challenge"`
	Available    *float64 `json:"available"`
	Inclusive    *float64 `json:"inclusive"`
	Significant  *float64 `json:"significant"`

	LessFive           *float64 `json:"lessFive"`
	FiveToTen          *float64 `json:"fiveToTen"`
	TenToFifteen       *float64 `json:"tenToFifteen"`
	FifteenToTwenty    *float64 `json:"fifteenToTwenty"`
	TwentyToTwentyFive *float64 `json:"twentyToTwentyFive"`
	TwentyFiveToThirty *float64 `json:"twentyFiveToThirty"`
	MoreThirty         *float64 `json:"moreThirty"`

	Instructors []OfferingInstructor `json:"instructors" binding:"required,min=1,dive"`
}

// RecomputeStepResult reports one aggregate rebuild step of the recompute
// job.
type RecomputeStepResult struct {
	Step  string `json:"step" example:"avg_course_rating"`
	Error string `json:"error,omitempty"`
}

// RecomputeResponse summarizes a recompute run. Partial is set when at
// least one step failed while others completed.
type RecomputeResponse struct {
	Completed []string              `json:"completed"`
	Failed    []RecomputeStepResult `json:"failed,omitempty"`
	Partial   bool                  `json:"partial"`
}
