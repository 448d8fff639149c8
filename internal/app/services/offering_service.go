package services

import (
	"context"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/app/models/dto"
	"github.com/courselens/backend/internal/app/repositories"
	"github.com/courselens/backend/internal/pkg/helpers"
)

// OfferingService handles the scraper-facing side: ingesting survey rows and
// listing what is stored under a course key.
type OfferingService interface {
	CreateOffering(ctx context.Context, req *dto.CreateOfferingRequest) (*models.Offering, error)
	ListOfferings(ctx context.Context, key models.CourseKey, page, size int) ([]*models.Offering, dto.PaginationInfo, error)
}

type offeringService struct {
	offeringRepository *repositories.OfferingRepository
}

// NewOfferingService creates a new offering service
func NewOfferingService(offeringRepository *repositories.OfferingRepository) OfferingService {
	return &offeringService{
		offeringRepository: offeringRepository,
	}
}

// CreateOffering stores one scraped offering and its instructor links in a
// single transaction. The cached aggregate columns stay NULL until the next
// recompute run.
func (s *offeringService) CreateOffering(ctx context.Context, req *dto.CreateOfferingRequest) (*models.Offering, error) {
	offering := &models.Offering{
		Dept:   req.Dept,
		Number: req.Number,
		Term:   req.Term,
		URL:    req.URL,

		ChallengeIntellect: req.ChallengeIntellect,
		Purpose:            req.Purpose,
		Standards:          req.Standards,
		Feedback:           req.Feedback,
		Fairness:           req.Fairness,
		Respect:            req.Respect,
		Excellence:         req.Excellence,

		Organization: req.Organization,
		Challenge:    req.Challenge,
		Available:    req.Available,
		Inclusive:    req.Inclusive,
		Significant:  req.Significant,

		LessFive:           req.LessFive,
		FiveToTen:          req.FiveToTen,
		TenToFifteen:       req.TenToFifteen,
		FifteenToTwenty:    req.FifteenToTwenty,
		TwentyToTwentyFive: req.TwentyToTwentyFive,
		TwentyFiveToThirty: req.TwentyFiveToThirty,
		MoreThirty:         req.MoreThirty,
	}

	instructors := make([]models.Professor, 0, len(req.Instructors))
	for _, instructor := range req.Instructors {
		instructors = append(instructors, models.Professor{
			Dept:      req.Dept,
			FirstName: instructor.FirstName,
			LastName:  instructor.LastName,
		})
	}

	if err := s.offeringRepository.Ingest(ctx, offering, instructors); err != nil {
		return nil, err
	}

	return offering, nil
}

// ListOfferings returns one page of the offerings stored under a course key.
func (s *offeringService) ListOfferings(ctx context.Context, key models.CourseKey, page, size int) ([]*models.Offering, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	offerings, total, err := s.offeringRepository.GetByCourseKey(ctx, key, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	return offerings, helpers.NewPaginationInfo(total, page, limit), nil
}
