package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselens/backend/internal/app/models/dto"
	"github.com/courselens/backend/internal/pkg/apperrors"
)

type stubFeedbackService struct {
	results []dto.FeedbackResult
	err     error
	got     []dto.FeedbackQueryItem
}

func (s *stubFeedbackService) GetCourseFeedback(_ context.Context, items []dto.FeedbackQueryItem) ([]dto.FeedbackResult, error) {
	s.got = items
	if s.err != nil {
		return nil, s.err
	}
	return s.results, nil
}

func performQuery(t *testing.T, service *stubFeedbackService, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	controller := NewFeedbackController(service)
	router.POST("/api/v1/feedback/query", controller.QueryFeedback)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/feedback/query", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestQueryFeedback(t *testing.T) {
	t.Run("returns assembled records", func(t *testing.T) {
		rating := 4.2
		service := &stubFeedbackService{
			results: []dto.FeedbackResult{{CourseID: "CMSC 14100", CourseRating: &rating}},
		}

		recorder := performQuery(t, service,
			`[{"courseId": "CMSC 14100", "instructor": "Lovelace"}]`)

		require.Equal(t, http.StatusOK, recorder.Code)
		require.Len(t, service.got, 1)
		assert.Equal(t, "CMSC 14100", service.got[0].CourseID)

		var response struct {
			Data []dto.FeedbackResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, "CMSC 14100", response.Data[0].CourseID)
		require.NotNil(t, response.Data[0].CourseRating)
		assert.InDelta(t, 4.2, *response.Data[0].CourseRating, 1e-9)
	})

	t.Run("missing data serializes as null fields", func(t *testing.T) {
		service := &stubFeedbackService{
			results: []dto.FeedbackResult{{CourseID: "CMSC 14100"}},
		}

		recorder := performQuery(t, service, `[{"courseId": "CMSC 14100"}]`)
		require.Equal(t, http.StatusOK, recorder.Code)

		assert.Contains(t, recorder.Body.String(), `"course_rating":null`)
		assert.Contains(t, recorder.Body.String(), `"professor_rating":null`)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		recorder := performQuery(t, &stubFeedbackService{}, `{"not": "a batch"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), string(dto.ErrorCodeValidationFailed))
	})

	t.Run("storage failure maps to a retryable 503", func(t *testing.T) {
		service := &stubFeedbackService{
			err: apperrors.NewStorageError(assert.AnError, "bulk lookup failed"),
		}

		recorder := performQuery(t, service, `[{"courseId": "CMSC 14100"}]`)
		require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Contains(t, recorder.Body.String(), string(dto.ErrorCodeDatabaseError))
		assert.Contains(t, recorder.Body.String(), `"retryable":true`)
	})
}
