package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/app/models/dto"
	"github.com/courselens/backend/internal/pkg/apperrors"
)

type fakeCourseStore struct {
	ratings map[models.CourseKey]*float64
	hours   map[models.CourseKey]*float64
	urls    map[models.CourseKey][]string

	ratingCalls int
	hoursCalls  int
	urlCalls    int

	err error
}

func (f *fakeCourseStore) CourseRatings(_ context.Context, _ []models.CourseKey) (map[models.CourseKey]*float64, error) {
	f.ratingCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.ratings, nil
}

func (f *fakeCourseStore) CourseHours(_ context.Context, _ []models.CourseKey) (map[models.CourseKey]*float64, error) {
	f.hoursCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.hours, nil
}

func (f *fakeCourseStore) CourseURLs(_ context.Context, _ []models.CourseKey) (map[models.CourseKey][]string, error) {
	f.urlCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.urls, nil
}

type fakeProfessorStore struct {
	identities    map[models.ProfessorKey]int64
	ratings       map[int64]*float64
	courseRatings map[models.ProfessorCourseKey]*float64
	courseHours   map[models.ProfessorCourseKey]*float64

	identityCalls     int
	ratingCalls       int
	courseRatingCalls int
	courseHoursCalls  int
}

func (f *fakeProfessorStore) Identities(_ context.Context, _ []models.ProfessorLookup) (map[models.ProfessorKey]int64, error) {
	f.identityCalls++
	return f.identities, nil
}

func (f *fakeProfessorStore) Ratings(_ context.Context, _ []int64) (map[int64]*float64, error) {
	f.ratingCalls++
	return f.ratings, nil
}

func (f *fakeProfessorStore) CourseRatings(_ context.Context, _ []models.ProfessorCourseKey) (map[models.ProfessorCourseKey]*float64, error) {
	f.courseRatingCalls++
	return f.courseRatings, nil
}

func (f *fakeProfessorStore) CourseHours(_ context.Context, _ []models.ProfessorCourseKey) (map[models.ProfessorCourseKey]*float64, error) {
	f.courseHoursCalls++
	return f.courseHours, nil
}

func fptr(v float64) *float64 { return &v }

func emptyCourseStore() *fakeCourseStore {
	return &fakeCourseStore{
		ratings: map[models.CourseKey]*float64{},
		hours:   map[models.CourseKey]*float64{},
		urls:    map[models.CourseKey][]string{},
	}
}

func emptyProfessorStore() *fakeProfessorStore {
	return &fakeProfessorStore{
		identities:    map[models.ProfessorKey]int64{},
		ratings:       map[int64]*float64{},
		courseRatings: map[models.ProfessorCourseKey]*float64{},
		courseHours:   map[models.ProfessorCourseKey]*float64{},
	}
}

func TestGetCourseFeedback(t *testing.T) {
	cmsc := models.CourseKey{Dept: "CMSC", Number: 14100}
	math := models.CourseKey{Dept: "MATH", Number: 14100}

	t.Run("assembles figures from the primary listing", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[cmsc] = fptr(4.2)
		courses.hours[cmsc] = fptr(12.0)
		courses.urls[cmsc] = []string{"https://evals.example/cmsc-14100-autumn"}

		professors := emptyProfessorStore()
		professors.identities[models.ProfessorKey{LastName: "Lovelace", Dept: "CMSC"}] = 7
		professors.ratings[7] = fptr(4.5)
		professors.courseRatings[models.ProfessorCourseKey{ProfessorID: 7, Dept: "CMSC", Number: 14100}] = fptr(4.3)
		professors.courseHours[models.ProfessorCourseKey{ProfessorID: 7, Dept: "CMSC", Number: 14100}] = fptr(11.5)

		service := NewFeedbackService(courses, professors)
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", Instructor: "Ada Lovelace"},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)

		result := results[0]
		assert.Equal(t, "CMSC 14100", result.CourseID)
		require.NotNil(t, result.CourseRating)
		assert.InDelta(t, 4.2, *result.CourseRating, 1e-9)
		require.NotNil(t, result.CourseHours)
		assert.InDelta(t, 12.0, *result.CourseHours, 1e-9)
		require.NotNil(t, result.ProfessorRating)
		assert.InDelta(t, 4.5, *result.ProfessorRating, 1e-9)
		require.NotNil(t, result.ProfessorCourseRating)
		assert.InDelta(t, 4.3, *result.ProfessorCourseRating, 1e-9)
		require.NotNil(t, result.ProfessorCourseHours)
		assert.InDelta(t, 11.5, *result.ProfessorCourseHours, 1e-9)
		assert.Equal(t, []string{"https://evals.example/cmsc-14100-autumn"}, result.CourseURLs)
	})

	t.Run("falls back to the first alternate listing with a rating", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[math] = fptr(3.9)
		courses.hours[math] = fptr(9.0)
		courses.urls[math] = []string{"https://evals.example/math-14100"}

		service := NewFeedbackService(courses, emptyProfessorStore())
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", OtherListings: []string{"MATH 14100"}},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)

		// The record is renamed to the listing the figures came from
		result := results[0]
		assert.Equal(t, "MATH 14100", result.CourseID)
		require.NotNil(t, result.CourseRating)
		assert.InDelta(t, 3.9, *result.CourseRating, 1e-9)
		require.NotNil(t, result.CourseHours)
		assert.InDelta(t, 9.0, *result.CourseHours, 1e-9)
		assert.Equal(t, []string{"https://evals.example/math-14100"}, result.CourseURLs)
	})

	t.Run("walks past unrated alternates to the first rated one", func(t *testing.T) {
		stat := models.CourseKey{Dept: "STAT", Number: 14100}
		courses := emptyCourseStore()
		courses.ratings[stat] = fptr(4.2)
		courses.hours[stat] = fptr(12.0)

		service := NewFeedbackService(courses, emptyProfessorStore())
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", OtherListings: []string{"MATH 14100", "STAT 14100"}},
		})
		require.NoError(t, err)

		result := results[0]
		assert.Equal(t, "STAT 14100", result.CourseID)
		require.NotNil(t, result.CourseRating)
		assert.InDelta(t, 4.2, *result.CourseRating, 1e-9)
		require.NotNil(t, result.CourseHours)
		assert.InDelta(t, 12.0, *result.CourseHours, 1e-9)
	})

	t.Run("no listing has a rating keeps the primary name and reports absence", func(t *testing.T) {
		service := NewFeedbackService(emptyCourseStore(), emptyProfessorStore())
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", OtherListings: []string{"MATH 14100"}},
		})
		require.NoError(t, err)
		require.Len(t, results, 1)

		result := results[0]
		assert.Equal(t, "CMSC 14100", result.CourseID)
		assert.Nil(t, result.CourseRating)
		assert.Nil(t, result.CourseHours)
		assert.Nil(t, result.ProfessorRating)
	})

	t.Run("instructor disambiguation follows department priority", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[cmsc] = fptr(4.0)

		professors := emptyProfessorStore()
		professors.identities[models.ProfessorKey{LastName: "Smith", Dept: "CMSC"}] = 1
		professors.identities[models.ProfessorKey{LastName: "Smith", Dept: "MATH"}] = 2
		professors.ratings[1] = fptr(4.8)
		professors.ratings[2] = fptr(1.2)

		service := NewFeedbackService(courses, professors)
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", OtherListings: []string{"MATH 14100"}, Instructor: "Smith"},
		})
		require.NoError(t, err)

		// The primary department's identity wins over the alternate's
		require.NotNil(t, results[0].ProfessorRating)
		assert.InDelta(t, 4.8, *results[0].ProfessorRating, 1e-9)
	})

	t.Run("alternate department identity resolves when the primary has none", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[cmsc] = fptr(4.0)

		professors := emptyProfessorStore()
		professors.identities[models.ProfessorKey{LastName: "Smith", Dept: "MATH"}] = 2
		professors.ratings[2] = fptr(3.3)

		service := NewFeedbackService(courses, professors)
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", OtherListings: []string{"MATH 14100"}, Instructor: "Smith"},
		})
		require.NoError(t, err)

		require.NotNil(t, results[0].ProfessorRating)
		assert.InDelta(t, 3.3, *results[0].ProfessorRating, 1e-9)
	})

	t.Run("multiple instructors average over resolved values only", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[cmsc] = fptr(4.0)

		professors := emptyProfessorStore()
		professors.identities[models.ProfessorKey{LastName: "Lovelace", Dept: "CMSC"}] = 1
		professors.identities[models.ProfessorKey{LastName: "Turing", Dept: "CMSC"}] = 2
		professors.ratings[1] = fptr(3.0)
		professors.ratings[2] = fptr(5.0)

		service := NewFeedbackService(courses, professors)
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", Instructor: "Ada Lovelace, Alan Turing, Unknown"},
		})
		require.NoError(t, err)

		require.NotNil(t, results[0].ProfessorRating)
		assert.InDelta(t, 4.0, *results[0].ProfessorRating, 1e-9)
	})

	t.Run("professor-course fields fall back per field", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[cmsc] = fptr(4.0)

		professors := emptyProfessorStore()
		professors.identities[models.ProfessorKey{LastName: "Lovelace", Dept: "CMSC"}] = 7
		// Rating only stored under the alternate listing, hours under the
		// effective one; each field walks the listings independently.
		professors.courseRatings[models.ProfessorCourseKey{ProfessorID: 7, Dept: "MATH", Number: 14100}] = fptr(4.6)
		professors.courseHours[models.ProfessorCourseKey{ProfessorID: 7, Dept: "CMSC", Number: 14100}] = fptr(10.0)

		service := NewFeedbackService(courses, professors)
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", OtherListings: []string{"MATH 14100"}, Instructor: "Lovelace"},
		})
		require.NoError(t, err)

		require.NotNil(t, results[0].ProfessorCourseRating)
		assert.InDelta(t, 4.6, *results[0].ProfessorCourseRating, 1e-9)
		require.NotNil(t, results[0].ProfessorCourseHours)
		assert.InDelta(t, 10.0, *results[0].ProfessorCourseHours, 1e-9)
	})

	t.Run("malformed item yields an all-absent record in order", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[cmsc] = fptr(4.2)

		service := NewFeedbackService(courses, emptyProfessorStore())
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "not a course"},
			{CourseID: "CMSC 14100"},
		})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "not a course", results[0].CourseID)
		assert.Nil(t, results[0].CourseRating)
		assert.Nil(t, results[0].CourseHours)
		assert.Nil(t, results[0].ProfessorRating)
		assert.Nil(t, results[0].ProfessorCourseRating)
		assert.Nil(t, results[0].ProfessorCourseHours)

		require.NotNil(t, results[1].CourseRating)
		assert.InDelta(t, 4.2, *results[1].CourseRating, 1e-9)
	})

	t.Run("one bulk lookup per aggregate type regardless of batch size", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.ratings[cmsc] = fptr(4.0)

		professors := emptyProfessorStore()
		professors.identities[models.ProfessorKey{LastName: "Lovelace", Dept: "CMSC"}] = 1
		professors.identities[models.ProfessorKey{LastName: "Smith", Dept: "STAT"}] = 2

		service := NewFeedbackService(courses, professors)
		_, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100", Instructor: "Lovelace"},
			{CourseID: "STAT 23400", OtherListings: []string{"MATH 23400"}, Instructor: "Smith"},
			{CourseID: "ECON 20000"},
		})
		require.NoError(t, err)

		assert.Equal(t, 1, courses.ratingCalls)
		assert.Equal(t, 1, courses.hoursCalls)
		assert.Equal(t, 1, courses.urlCalls)
		assert.Equal(t, 1, professors.identityCalls)
		assert.Equal(t, 1, professors.ratingCalls)
		assert.Equal(t, 1, professors.courseRatingCalls)
		assert.Equal(t, 1, professors.courseHoursCalls)
	})

	t.Run("storage failure aborts the batch", func(t *testing.T) {
		courses := emptyCourseStore()
		courses.err = apperrors.NewStorageError(assert.AnError, "bulk avg_course_rating lookup failed")

		service := NewFeedbackService(courses, emptyProfessorStore())
		results, err := service.GetCourseFeedback(context.Background(), []dto.FeedbackQueryItem{
			{CourseID: "CMSC 14100"},
		})
		require.Error(t, err)
		assert.Nil(t, results)
		assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	})

	t.Run("empty batch returns an empty result set", func(t *testing.T) {
		service := NewFeedbackService(emptyCourseStore(), emptyProfessorStore())
		results, err := service.GetCourseFeedback(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
