package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/db"
	"github.com/courselens/backend/internal/pkg/apperrors"
	"github.com/courselens/backend/internal/pkg/dberrors"
)

// offeringColumns is the scan order used by scanOffering.
const offeringColumns = `
	id, dept, course_number, term, url,
	challenge_intellect, purpose, standards, feedback, fairness, respect, excellence,
	organization, challenge, available, inclusive, significant,
	less_five, five_to_ten, ten_to_fifteen, fifteen_to_twenty,
	twenty_to_twenty_five, twenty_five_to_thirty, more_thirty,
	avg_course_rating, avg_course_hours`

// OfferingRepository handles database operations for offerings and the
// course-scoped bulk lookups of the feedback path.
type OfferingRepository struct {
	database *db.PostgresDB
}

// NewOfferingRepository creates a new offering repository
func NewOfferingRepository(database *db.PostgresDB) *OfferingRepository {
	return &OfferingRepository{
		database: database,
	}
}

// Ingest stores one scraped offering together with its instructor links in a
// single transaction. Professor identities are created lazily: the first
// time a (dept, first, last) triple is seen it is inserted, afterwards the
// existing row is reused.
func (r *OfferingRepository) Ingest(ctx context.Context, offering *models.Offering, instructors []models.Professor) error {
	return r.database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO offerings (
				dept, course_number, term, url,
				challenge_intellect, purpose, standards, feedback, fairness, respect, excellence,
				organization, challenge, available, inclusive, significant,
				less_five, five_to_ten, ten_to_fifteen, fifteen_to_twenty,
				twenty_to_twenty_five, twenty_five_to_thirty, more_thirty
			)
			VALUES ($1, $2, $3, $4,
				$5, $6, $7, $8, $9, $10, $11,
				$12, $13, $14, $15, $16,
				$17, $18, $19, $20, $21, $22, $23)
			RETURNING id
		`

		err := tx.QueryRow(ctx, query,
			offering.Dept, offering.Number, offering.Term, offering.URL,
			offering.ChallengeIntellect, offering.Purpose, offering.Standards,
			offering.Feedback, offering.Fairness, offering.Respect, offering.Excellence,
			offering.Organization, offering.Challenge, offering.Available,
			offering.Inclusive, offering.Significant,
			offering.LessFive, offering.FiveToTen, offering.TenToFifteen,
			offering.FifteenToTwenty, offering.TwentyToTwentyFive,
			offering.TwentyFiveToThirty, offering.MoreThirty,
		).Scan(&offering.ID)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "offerings_identity_key") {
				return apperrors.ErrOfferingAlreadyExists
			}
			return fmt.Errorf("error inserting offering: %w", err)
		}

		for _, instructor := range instructors {
			var professorID int64
			err := tx.QueryRow(ctx, `
				INSERT INTO professors (dept, first_name, last_name)
				VALUES ($1, $2, $3)
				ON CONFLICT ON CONSTRAINT professors_identity_key
				DO UPDATE SET last_name = EXCLUDED.last_name
				RETURNING id`,
				instructor.Dept, instructor.FirstName, instructor.LastName,
			).Scan(&professorID)
			if err != nil {
				return fmt.Errorf("error upserting professor identity: %w", err)
			}

			_, err = tx.Exec(ctx, `
				INSERT INTO offerings_professors (offering_id, professor_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				offering.ID, professorID)
			if err != nil {
				return fmt.Errorf("error linking professor to offering: %w", err)
			}
		}

		return nil
	})
}

// GetByCourseKey retrieves the offerings stored under one (dept, number)
// listing, newest id first, with the total row count for pagination.
func (r *OfferingRepository) GetByCourseKey(ctx context.Context, key models.CourseKey, offset uint64, limit int) ([]*models.Offering, int64, error) {
	var total int64
	err := r.database.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM offerings WHERE dept = $1 AND course_number = $2`,
		key.Dept, key.Number).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting offerings: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM offerings
		WHERE dept = $1 AND course_number = $2
		ORDER BY id DESC
		OFFSET $3 LIMIT $4`, offeringColumns)

	rows, err := r.database.Pool.Query(ctx, query, key.Dept, key.Number, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error retrieving offerings: %w", err)
	}
	defer rows.Close()

	var offerings []*models.Offering
	for rows.Next() {
		offering, err := scanOffering(rows)
		if err != nil {
			return nil, 0, err
		}
		offerings = append(offerings, offering)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return offerings, total, nil
}

// CourseRatings performs the course-rating bulk lookup: one query covering
// every candidate key of the batch. Keys absent from storage are simply
// missing from the map; keys whose cached rating is NULL map to nil. Both
// read as "no data" downstream.
func (r *OfferingRepository) CourseRatings(ctx context.Context, keys []models.CourseKey) (map[models.CourseKey]*float64, error) {
	return r.bulkCourseColumn(ctx, "avg_course_rating", keys)
}

// CourseHours performs the course-hours bulk lookup, one query per batch.
func (r *OfferingRepository) CourseHours(ctx context.Context, keys []models.CourseKey) (map[models.CourseKey]*float64, error) {
	return r.bulkCourseColumn(ctx, "avg_course_hours", keys)
}

// CourseURLs collects the source URLs behind every candidate course key in
// one query, grouped per key in term order.
func (r *OfferingRepository) CourseURLs(ctx context.Context, keys []models.CourseKey) (map[models.CourseKey][]string, error) {
	urls := make(map[models.CourseKey][]string)
	if len(keys) == 0 {
		return urls, nil
	}

	where, args := courseKeyPredicate(keys)
	query := fmt.Sprintf(`
		SELECT dept, course_number, url
		FROM offerings
		WHERE %s
		ORDER BY dept, course_number, term`, where)

	rows, err := r.database.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "bulk course URL lookup failed")
	}
	defer rows.Close()

	for rows.Next() {
		var key models.CourseKey
		var url string
		if err := rows.Scan(&key.Dept, &key.Number, &url); err != nil {
			return nil, apperrors.NewStorageError(err, "bulk course URL scan failed")
		}
		urls[key] = append(urls[key], url)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, "bulk course URL lookup failed")
	}

	return urls, nil
}

// bulkCourseColumn reads one cached per-course column for a whole candidate
// set at once. The cached value is duplicated across the offerings of a
// course key, so DISTINCT collapses them back to one row per key.
func (r *OfferingRepository) bulkCourseColumn(ctx context.Context, column string, keys []models.CourseKey) (map[models.CourseKey]*float64, error) {
	values := make(map[models.CourseKey]*float64)
	if len(keys) == 0 {
		return values, nil
	}

	where, args := courseKeyPredicate(keys)
	query := fmt.Sprintf(`
		SELECT DISTINCT dept, course_number, %s
		FROM offerings
		WHERE %s`, column, where)

	rows, err := r.database.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError(err, fmt.Sprintf("bulk %s lookup failed", column))
	}
	defer rows.Close()

	for rows.Next() {
		var key models.CourseKey
		var value *float64
		if err := rows.Scan(&key.Dept, &key.Number, &value); err != nil {
			return nil, apperrors.NewStorageError(err, fmt.Sprintf("bulk %s scan failed", column))
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, fmt.Sprintf("bulk %s lookup failed", column))
	}

	return values, nil
}

// courseKeyPredicate builds the "(dept = $n AND course_number = $n+1) OR ..."
// predicate covering an entire candidate key set, so every call site issues
// one retrieval for the whole set instead of one per key.
func courseKeyPredicate(keys []models.CourseKey) (string, []interface{}) {
	conditions := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)*2)
	for _, key := range keys {
		conditions = append(conditions,
			fmt.Sprintf("(dept = $%d AND course_number = $%d)", len(args)+1, len(args)+2))
		args = append(args, key.Dept, key.Number)
	}
	return strings.Join(conditions, " OR "), args
}

// scanOffering scans one row in offeringColumns order.
func scanOffering(rows pgx.Rows) (*models.Offering, error) {
	var o models.Offering
	err := rows.Scan(
		&o.ID, &o.Dept, &o.Number, &o.Term, &o.URL,
		&o.ChallengeIntellect, &o.Purpose, &o.Standards, &o.Feedback,
		&o.Fairness, &o.Respect, &o.Excellence,
		&o.Organization, &o.Challenge, &o.Available, &o.Inclusive, &o.Significant,
		&o.LessFive, &o.FiveToTen, &o.TenToFifteen, &o.FifteenToTwenty,
		&o.TwentyToTwentyFive, &o.TwentyFiveToThirty, &o.MoreThirty,
		&o.AvgCourseRating, &o.AvgCourseHours,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning offering: %w", err)
	}
	return &o, nil
}
