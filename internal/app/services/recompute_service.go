package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/courselens/backend/internal/app/models/dto"
)

// AggregateStore is the rebuild slice of the repository layer. Each rebuild
// recomputes one cached aggregate type for the whole database.
type AggregateStore interface {
	EnsureAggregateColumns(ctx context.Context) error
	RebuildProfCourseHours(ctx context.Context) error
	RebuildProfCourseRatings(ctx context.Context) error
	RebuildCourseHours(ctx context.Context) error
	RebuildCourseRatings(ctx context.Context) error
	RebuildProfessorRatings(ctx context.Context) error
}

// RecomputeService rebuilds every cached aggregate from the raw survey rows.
// The job is idempotent and safe to re-run; a failing step is recorded and
// skipped so the remaining aggregates still refresh.
type RecomputeService interface {
	Recompute(ctx context.Context) (*dto.RecomputeResponse, error)
}

type recomputeService struct {
	aggregates AggregateStore
}

// NewRecomputeService creates a new recompute service
func NewRecomputeService(aggregates AggregateStore) RecomputeService {
	return &recomputeService{
		aggregates: aggregates,
	}
}

type recomputeStep struct {
	name string
	run  func(ctx context.Context) error
}

// Recompute runs the five rebuild steps in order after making sure the
// cached columns exist. Only a failure of the column check aborts the job;
// step failures leave that aggregate stale and are reported per step.
func (s *recomputeService) Recompute(ctx context.Context) (*dto.RecomputeResponse, error) {
	if err := s.aggregates.EnsureAggregateColumns(ctx); err != nil {
		log.Error().Err(err).Msg("Aggregate column check failed, aborting recompute")
		return nil, err
	}

	steps := []recomputeStep{
		{name: "professor_course_hours", run: s.aggregates.RebuildProfCourseHours},
		{name: "professor_course_ratings", run: s.aggregates.RebuildProfCourseRatings},
		{name: "course_hours", run: s.aggregates.RebuildCourseHours},
		{name: "course_ratings", run: s.aggregates.RebuildCourseRatings},
		{name: "professor_ratings", run: s.aggregates.RebuildProfessorRatings},
	}

	response := &dto.RecomputeResponse{}
	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			log.Error().Err(err).Str("step", step.name).Msg("Aggregate rebuild step failed")
			response.Failed = append(response.Failed, dto.RecomputeStepResult{
				Step:  step.name,
				Error: err.Error(),
			})
			continue
		}
		log.Info().Str("step", step.name).Msg("Aggregate rebuild step completed")
		response.Completed = append(response.Completed, step.name)
	}

	response.Partial = len(response.Failed) > 0
	return response, nil
}
