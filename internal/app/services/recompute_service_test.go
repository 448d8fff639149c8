package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAggregateStore struct {
	ensureErr error
	stepErrs  map[string]error
	ran       []string
}

func (f *fakeAggregateStore) EnsureAggregateColumns(_ context.Context) error {
	return f.ensureErr
}

func (f *fakeAggregateStore) step(name string) error {
	f.ran = append(f.ran, name)
	return f.stepErrs[name]
}

func (f *fakeAggregateStore) RebuildProfCourseHours(_ context.Context) error {
	return f.step("professor_course_hours")
}

func (f *fakeAggregateStore) RebuildProfCourseRatings(_ context.Context) error {
	return f.step("professor_course_ratings")
}

func (f *fakeAggregateStore) RebuildCourseHours(_ context.Context) error {
	return f.step("course_hours")
}

func (f *fakeAggregateStore) RebuildCourseRatings(_ context.Context) error {
	return f.step("course_ratings")
}

func (f *fakeAggregateStore) RebuildProfessorRatings(_ context.Context) error {
	return f.step("professor_ratings")
}

func TestRecompute(t *testing.T) {
	allSteps := []string{
		"professor_course_hours",
		"professor_course_ratings",
		"course_hours",
		"course_ratings",
		"professor_ratings",
	}

	t.Run("runs every step in order", func(t *testing.T) {
		store := &fakeAggregateStore{}
		service := NewRecomputeService(store)

		result, err := service.Recompute(context.Background())
		require.NoError(t, err)

		assert.Equal(t, allSteps, store.ran)
		assert.Equal(t, allSteps, result.Completed)
		assert.Empty(t, result.Failed)
		assert.False(t, result.Partial)
	})

	t.Run("a failing step is skipped, the rest still run", func(t *testing.T) {
		store := &fakeAggregateStore{
			stepErrs: map[string]error{
				"course_hours": errors.New("division by zero"),
			},
		}
		service := NewRecomputeService(store)

		result, err := service.Recompute(context.Background())
		require.NoError(t, err)

		assert.Equal(t, allSteps, store.ran, "every step should still be attempted")
		assert.True(t, result.Partial)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, "course_hours", result.Failed[0].Step)
		assert.Contains(t, result.Failed[0].Error, "division by zero")
		assert.Equal(t, []string{
			"professor_course_hours",
			"professor_course_ratings",
			"course_ratings",
			"professor_ratings",
		}, result.Completed)
	})

	t.Run("column check failure aborts before any step", func(t *testing.T) {
		store := &fakeAggregateStore{ensureErr: errors.New("permission denied")}
		service := NewRecomputeService(store)

		result, err := service.Recompute(context.Background())
		require.Error(t, err)
		assert.Nil(t, result)
		assert.Empty(t, store.ran)
	})

	t.Run("re-running after a partial run is safe", func(t *testing.T) {
		store := &fakeAggregateStore{
			stepErrs: map[string]error{"professor_ratings": errors.New("timeout")},
		}
		service := NewRecomputeService(store)

		first, err := service.Recompute(context.Background())
		require.NoError(t, err)
		require.True(t, first.Partial)

		store.stepErrs = nil
		store.ran = nil

		second, err := service.Recompute(context.Background())
		require.NoError(t, err)
		assert.False(t, second.Partial)
		assert.Equal(t, allSteps, second.Completed)
	})
}
