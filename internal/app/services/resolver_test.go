package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/app/models/dto"
)

func TestParseCourseKey(t *testing.T) {
	t.Run("accepts DEPT NUMBER form", func(t *testing.T) {
		key, ok := parseCourseKey("CMSC 14100")
		require.True(t, ok)
		assert.Equal(t, models.CourseKey{Dept: "CMSC", Number: 14100}, key)
	})

	t.Run("tolerates surrounding and repeated whitespace", func(t *testing.T) {
		key, ok := parseCourseKey("  MATH   15200 ")
		require.True(t, ok)
		assert.Equal(t, models.CourseKey{Dept: "MATH", Number: 15200}, key)
	})

	t.Run("rejects malformed names", func(t *testing.T) {
		for _, raw := range []string{"", "CMSC", "CMSC 141 00", "CMSC one", "14100 CMSC 2"} {
			_, ok := parseCourseKey(raw)
			assert.False(t, ok, "expected %q to be rejected", raw)
		}
	})
}

func TestSplitInstructorNames(t *testing.T) {
	t.Run("splits on commas and trims", func(t *testing.T) {
		names := splitInstructorNames("Ada Lovelace,  Alan Turing ")
		assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, names)
	})

	t.Run("drops empty segments", func(t *testing.T) {
		names := splitInstructorNames("Lovelace, , ")
		assert.Equal(t, []string{"Lovelace"}, names)
	})

	t.Run("empty field yields no names", func(t *testing.T) {
		assert.Empty(t, splitInstructorNames(""))
	})
}

func TestLastNameOf(t *testing.T) {
	assert.Equal(t, "Lovelace", lastNameOf("Ada Lovelace"))
	assert.Equal(t, "Lovelace", lastNameOf("Lovelace"))
	assert.Equal(t, "", lastNameOf("   "))
}

func TestResolveRequest(t *testing.T) {
	t.Run("builds candidates and department priority order", func(t *testing.T) {
		request := resolveRequest(dto.FeedbackQueryItem{
			CourseID:      "CMSC 14100",
			OtherListings: []string{"MATH 14100", "bogus", "CMSC 14100"},
			Instructor:    "Ada Lovelace, Turing",
		})

		require.True(t, request.primaryOK)
		assert.Equal(t, models.CourseKey{Dept: "CMSC", Number: 14100}, request.primary)
		assert.Equal(t, []models.CourseKey{{Dept: "MATH", Number: 14100}}, request.alternates)
		assert.Equal(t, []string{"CMSC", "MATH"}, request.depts)
		assert.Equal(t, []string{"Lovelace", "Turing"}, request.instructors)
	})

	t.Run("malformed primary marks the item unresolvable", func(t *testing.T) {
		request := resolveRequest(dto.FeedbackQueryItem{
			CourseID:   "CMSC",
			Instructor: "Lovelace",
		})

		assert.False(t, request.primaryOK)
		assert.Empty(t, request.candidateKeys())
	})

	t.Run("candidate keys are primary first", func(t *testing.T) {
		request := resolveRequest(dto.FeedbackQueryItem{
			CourseID:      "CMSC 15100",
			OtherListings: []string{"MATH 16100", "STAT 15100"},
		})

		assert.Equal(t, []models.CourseKey{
			{Dept: "CMSC", Number: 15100},
			{Dept: "MATH", Number: 16100},
			{Dept: "STAT", Number: 15100},
		}, request.candidateKeys())
	})

	t.Run("duplicate departments appear once in priority order", func(t *testing.T) {
		request := resolveRequest(dto.FeedbackQueryItem{
			CourseID:      "CMSC 15100",
			OtherListings: []string{"CMSC 16100", "MATH 15100"},
		})

		assert.Equal(t, []string{"CMSC", "MATH"}, request.depts)
	})
}
