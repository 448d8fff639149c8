package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/app/models/dto"
)

// CourseStore is the course-scoped slice of the repository layer the
// feedback path needs. Every method is a bulk lookup covering the whole
// batch in one retrieval.
type CourseStore interface {
	CourseRatings(ctx context.Context, keys []models.CourseKey) (map[models.CourseKey]*float64, error)
	CourseHours(ctx context.Context, keys []models.CourseKey) (map[models.CourseKey]*float64, error)
	CourseURLs(ctx context.Context, keys []models.CourseKey) (map[models.CourseKey][]string, error)
}

// ProfessorStore is the professor-scoped slice of the repository layer the
// feedback path needs.
type ProfessorStore interface {
	Identities(ctx context.Context, lookups []models.ProfessorLookup) (map[models.ProfessorKey]int64, error)
	Ratings(ctx context.Context, ids []int64) (map[int64]*float64, error)
	CourseRatings(ctx context.Context, keys []models.ProfessorCourseKey) (map[models.ProfessorCourseKey]*float64, error)
	CourseHours(ctx context.Context, keys []models.ProfessorCourseKey) (map[models.ProfessorCourseKey]*float64, error)
}

// FeedbackService answers feedback batches. The pipeline is strictly three
// phases: resolve every item to candidate keys, fetch every aggregate type
// in one bulk lookup each, then assemble per item in input order. No
// per-item retrieval happens anywhere.
type FeedbackService interface {
	GetCourseFeedback(ctx context.Context, items []dto.FeedbackQueryItem) ([]dto.FeedbackResult, error)
}

type feedbackService struct {
	courses    CourseStore
	professors ProfessorStore
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(courses CourseStore, professors ProfessorStore) FeedbackService {
	return &feedbackService{
		courses:    courses,
		professors: professors,
	}
}

// GetCourseFeedback resolves, fetches and assembles one batch. A storage
// failure aborts the whole batch; per-item parse failures and resolution
// misses only produce absent fields on that item.
func (s *feedbackService) GetCourseFeedback(ctx context.Context, items []dto.FeedbackQueryItem) ([]dto.FeedbackResult, error) {
	requests := make([]courseRequest, len(items))
	for i, item := range items {
		requests[i] = resolveRequest(item)
	}

	courseKeys := collectCourseKeys(requests)
	lookups := collectProfessorLookups(requests)

	courseRatings, err := s.courses.CourseRatings(ctx, courseKeys)
	if err != nil {
		return nil, err
	}
	courseHours, err := s.courses.CourseHours(ctx, courseKeys)
	if err != nil {
		return nil, err
	}
	courseURLs, err := s.courses.CourseURLs(ctx, courseKeys)
	if err != nil {
		return nil, err
	}
	identities, err := s.professors.Identities(ctx, lookups)
	if err != nil {
		return nil, err
	}

	// Effective keys and instructor identities are fixed before the
	// professor-scoped lookups so their candidate sets cover the batch.
	effectives := make([]models.CourseKey, len(requests))
	resolvedIDs := make([][]int64, len(requests))
	for i, request := range requests {
		if !request.primaryOK {
			continue
		}
		effectives[i] = effectiveKey(request, courseRatings)
		resolvedIDs[i] = resolveInstructors(request, identities)
	}

	professorIDs := collectProfessorIDs(resolvedIDs)
	profCourseKeys := collectProfCourseKeys(requests, effectives, resolvedIDs)

	professorRatings, err := s.professors.Ratings(ctx, professorIDs)
	if err != nil {
		return nil, err
	}
	profCourseRatings, err := s.professors.CourseRatings(ctx, profCourseKeys)
	if err != nil {
		return nil, err
	}
	profCourseHours, err := s.professors.CourseHours(ctx, profCourseKeys)
	if err != nil {
		return nil, err
	}

	results := make([]dto.FeedbackResult, len(requests))
	for i, request := range requests {
		if !request.primaryOK {
			log.Debug().Str("courseId", request.raw).Msg("Skipping malformed course name")
			results[i] = dto.FeedbackResult{CourseID: request.raw}
			continue
		}

		effective := effectives[i]
		fallbacks := fallbackKeys(request, effective)

		var profRating, pcRating, pcHours []float64
		for _, id := range resolvedIDs[i] {
			if rating := professorRatings[id]; rating != nil {
				profRating = append(profRating, *rating)
			}
			if v := firstPresent(id, fallbacks, profCourseRatings); v != nil {
				pcRating = append(pcRating, *v)
			}
			if v := firstPresent(id, fallbacks, profCourseHours); v != nil {
				pcHours = append(pcHours, *v)
			}
		}

		results[i] = dto.FeedbackResult{
			CourseID:              effective.String(),
			CourseRating:          courseRatings[effective],
			CourseHours:           courseHours[effective],
			CourseURLs:            courseURLs[effective],
			ProfessorRating:       meanOf(profRating),
			ProfessorCourseRating: meanOf(pcRating),
			ProfessorCourseHours:  meanOf(pcHours),
		}
	}

	return results, nil
}

// effectiveKey picks the listing the item's figures come from: the first
// candidate, primary first, whose course rating is present. When no listing
// has a rating the primary stays effective and the item reports absence.
func effectiveKey(request courseRequest, ratings map[models.CourseKey]*float64) models.CourseKey {
	for _, key := range request.candidateKeys() {
		if ratings[key] != nil {
			return key
		}
	}
	return request.primary
}

// resolveInstructors maps each instructor last name to a stored identity by
// scanning the item's department-priority list in order. Names with no
// identity in any candidate department are dropped.
func resolveInstructors(request courseRequest, identities map[models.ProfessorKey]int64) []int64 {
	var ids []int64
	for _, lastName := range request.instructors {
		for _, dept := range request.depts {
			if id, ok := identities[models.ProfessorKey{LastName: lastName, Dept: dept}]; ok {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

// fallbackKeys orders the listings a professor-course field is read from:
// the effective listing first, then every other alternate.
func fallbackKeys(request courseRequest, effective models.CourseKey) []models.CourseKey {
	keys := make([]models.CourseKey, 0, 1+len(request.alternates))
	keys = append(keys, effective)
	for _, key := range request.alternates {
		if key != effective {
			keys = append(keys, key)
		}
	}
	return keys
}

// firstPresent walks the fallback listings and returns the first present
// value of one professor-course field, or nil when every listing is empty.
func firstPresent(id int64, keys []models.CourseKey, values map[models.ProfessorCourseKey]*float64) *float64 {
	for _, key := range keys {
		v := values[models.ProfessorCourseKey{ProfessorID: id, Dept: key.Dept, Number: key.Number}]
		if v != nil {
			return v
		}
	}
	return nil
}

// meanOf averages the values that resolved. An empty set is absence, never
// zero.
func meanOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	return &mean
}

// collectCourseKeys gathers the deduplicated candidate course keys of the
// whole batch, preserving first-seen order.
func collectCourseKeys(requests []courseRequest) []models.CourseKey {
	seen := make(map[models.CourseKey]bool)
	var keys []models.CourseKey
	for _, request := range requests {
		for _, key := range request.candidateKeys() {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	return keys
}

// collectProfessorLookups gathers the deduplicated (last name, department
// priority list) lookups of the whole batch.
func collectProfessorLookups(requests []courseRequest) []models.ProfessorLookup {
	seen := make(map[string]bool)
	var lookups []models.ProfessorLookup
	for _, request := range requests {
		for _, lastName := range request.instructors {
			dedup := lastName + "\x00" + joinDepts(request.depts)
			if !seen[dedup] {
				seen[dedup] = true
				lookups = append(lookups, models.ProfessorLookup{
					LastName: lastName,
					Depts:    request.depts,
				})
			}
		}
	}
	return lookups
}

func joinDepts(depts []string) string {
	joined := ""
	for _, dept := range depts {
		joined += dept + "\x00"
	}
	return joined
}

// collectProfessorIDs flattens the per-item resolved identities into one
// deduplicated id set.
func collectProfessorIDs(resolved [][]int64) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, itemIDs := range resolved {
		for _, id := range itemIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// collectProfCourseKeys builds the professor-course candidate set: every
// resolved identity of an item crossed with the item's fallback listings.
func collectProfCourseKeys(requests []courseRequest, effectives []models.CourseKey, resolved [][]int64) []models.ProfessorCourseKey {
	seen := make(map[models.ProfessorCourseKey]bool)
	var keys []models.ProfessorCourseKey
	for i, request := range requests {
		if !request.primaryOK {
			continue
		}
		for _, id := range resolved[i] {
			for _, course := range fallbackKeys(request, effectives[i]) {
				key := models.ProfessorCourseKey{ProfessorID: id, Dept: course.Dept, Number: course.Number}
				if !seen[key] {
					seen[key] = true
					keys = append(keys, key)
				}
			}
		}
	}
	return keys
}
