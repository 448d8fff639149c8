package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Workload-bucket midpoints in hours. Buckets are mutually exclusive
// response-share percentages; the open-ended ">30" bucket is pinned at 32.5.
// Aggregated hours are Σ(share × midpoint) / Σ(share) over all contributing
// offerings combined, which keeps the result inside [2.5, 32.5] or NULL when
// nothing contributed.
const (
	weightedBucketHours = `
		COALESCE(SUM(less_five), 0) * 2.5 +
		COALESCE(SUM(five_to_ten), 0) * 7.5 +
		COALESCE(SUM(ten_to_fifteen), 0) * 12.5 +
		COALESCE(SUM(fifteen_to_twenty), 0) * 17.5 +
		COALESCE(SUM(twenty_to_twenty_five), 0) * 22.5 +
		COALESCE(SUM(twenty_five_to_thirty), 0) * 27.5 +
		COALESCE(SUM(more_thirty), 0) * 32.5`

	totalBucketResponses = `
		COALESCE(SUM(less_five), 0) +
		COALESCE(SUM(five_to_ten), 0) +
		COALESCE(SUM(ten_to_fifteen), 0) +
		COALESCE(SUM(fifteen_to_twenty), 0) +
		COALESCE(SUM(twenty_to_twenty_five), 0) +
		COALESCE(SUM(twenty_five_to_thirty), 0) +
		COALESCE(SUM(more_thirty), 0)`
)

// AggregateRepository rebuilds the five cached aggregate columns from raw
// offering rows. Each rebuild is a single UPDATE deriving every value of one
// aggregate type in one pass; dividing by NULLIF(count, 0) makes an empty
// contributing set come out as NULL, never zero.
type AggregateRepository struct {
	db *pgxpool.Pool
}

// NewAggregateRepository creates a new aggregate repository
func NewAggregateRepository(db *pgxpool.Pool) *AggregateRepository {
	return &AggregateRepository{
		db: db,
	}
}

// EnsureAggregateColumns adds any cached aggregate column missing from the
// schema. Run once before a recompute pass so that a database created by an
// older schema self-heals instead of failing every UPDATE.
func (r *AggregateRepository) EnsureAggregateColumns(ctx context.Context) error {
	statements := []string{
		`ALTER TABLE offerings ADD COLUMN IF NOT EXISTS avg_course_rating DOUBLE PRECISION`,
		`ALTER TABLE offerings ADD COLUMN IF NOT EXISTS avg_course_hours DOUBLE PRECISION`,
		`ALTER TABLE professors ADD COLUMN IF NOT EXISTS avg_professor_rating DOUBLE PRECISION`,
		`ALTER TABLE offerings_professors ADD COLUMN IF NOT EXISTS avg_prof_course_rating DOUBLE PRECISION`,
		`ALTER TABLE offerings_professors ADD COLUMN IF NOT EXISTS avg_prof_course_hours DOUBLE PRECISION`,
	}

	for _, statement := range statements {
		if _, err := r.db.Exec(ctx, statement); err != nil {
			return fmt.Errorf("error ensuring aggregate column: %w", err)
		}
	}

	return nil
}

// RebuildCourseRatings recomputes avg_course_rating for every offering:
// the null-safe mean of the seven course-question means across all offerings
// sharing the course key, dividing by the count of present values rather
// than offerings × 7.
func (r *AggregateRepository) RebuildCourseRatings(ctx context.Context) error {
	query := `
		UPDATE offerings SET avg_course_rating = sub.rating
		FROM (
			SELECT dept, course_number,
				(
					COALESCE(SUM(challenge_intellect), 0) +
					COALESCE(SUM(purpose), 0) +
					COALESCE(SUM(standards), 0) +
					COALESCE(SUM(feedback), 0) +
					COALESCE(SUM(fairness), 0) +
					COALESCE(SUM(respect), 0) +
					COALESCE(SUM(excellence), 0)
				) / NULLIF(
					COUNT(challenge_intellect) +
					COUNT(purpose) +
					COUNT(standards) +
					COUNT(feedback) +
					COUNT(fairness) +
					COUNT(respect) +
					COUNT(excellence), 0
				) AS rating
			FROM offerings
			GROUP BY dept, course_number
		) sub
		WHERE offerings.dept = sub.dept AND offerings.course_number = sub.course_number
	`

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error rebuilding course ratings: %w", err)
	}
	return nil
}

// RebuildCourseHours recomputes avg_course_hours for every offering from the
// workload histogram, weighting bucket midpoints by response share across all
// offerings of the course key combined.
func (r *AggregateRepository) RebuildCourseHours(ctx context.Context) error {
	query := fmt.Sprintf(`
		UPDATE offerings SET avg_course_hours = sub.hours
		FROM (
			SELECT dept, course_number,
				(%s) / NULLIF(%s, 0) AS hours
			FROM offerings
			GROUP BY dept, course_number
		) sub
		WHERE offerings.dept = sub.dept AND offerings.course_number = sub.course_number
	`, weightedBucketHours, totalBucketResponses)

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error rebuilding course hours: %w", err)
	}
	return nil
}

// RebuildProfessorRatings recomputes avg_professor_rating for every
// identity: the null-safe mean of the five instructor-question means across
// every offering linked to the identity.
func (r *AggregateRepository) RebuildProfessorRatings(ctx context.Context) error {
	query := `
		UPDATE professors SET avg_professor_rating = sub.rating
		FROM (
			SELECT op.professor_id,
				(
					COALESCE(SUM(o.organization), 0) +
					COALESCE(SUM(o.challenge), 0) +
					COALESCE(SUM(o.available), 0) +
					COALESCE(SUM(o.inclusive), 0) +
					COALESCE(SUM(o.significant), 0)
				) / NULLIF(
					COUNT(o.organization) +
					COUNT(o.challenge) +
					COUNT(o.available) +
					COUNT(o.inclusive) +
					COUNT(o.significant), 0
				) AS rating
			FROM offerings_professors op
			JOIN offerings o ON o.id = op.offering_id
			GROUP BY op.professor_id
		) sub
		WHERE professors.id = sub.professor_id
	`

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error rebuilding professor ratings: %w", err)
	}
	return nil
}

// RebuildProfCourseRatings recomputes avg_prof_course_rating on every link
// row: the null-safe mean over the union of all twelve question means,
// restricted to offerings that are linked to the identity and share the
// course key of the link's offering.
func (r *AggregateRepository) RebuildProfCourseRatings(ctx context.Context) error {
	query := `
		UPDATE offerings_professors SET avg_prof_course_rating = sub.rating
		FROM (
			SELECT op2.professor_id, o2.dept, o2.course_number,
				(
					COALESCE(SUM(o2.challenge_intellect), 0) +
					COALESCE(SUM(o2.purpose), 0) +
					COALESCE(SUM(o2.standards), 0) +
					COALESCE(SUM(o2.feedback), 0) +
					COALESCE(SUM(o2.fairness), 0) +
					COALESCE(SUM(o2.respect), 0) +
					COALESCE(SUM(o2.excellence), 0) +
					COALESCE(SUM(o2.organization), 0) +
					COALESCE(SUM(o2.challenge), 0) +
					COALESCE(SUM(o2.available), 0) +
					COALESCE(SUM(o2.inclusive), 0) +
					COALESCE(SUM(o2.significant), 0)
				) / NULLIF(
					COUNT(o2.challenge_intellect) +
					COUNT(o2.purpose) +
					COUNT(o2.standards) +
					COUNT(o2.feedback) +
					COUNT(o2.fairness) +
					COUNT(o2.respect) +
					COUNT(o2.excellence) +
					COUNT(o2.organization) +
					COUNT(o2.challenge) +
					COUNT(o2.available) +
					COUNT(o2.inclusive) +
					COUNT(o2.significant), 0
				) AS rating
			FROM offerings_professors op2
			JOIN offerings o2 ON o2.id = op2.offering_id
			GROUP BY op2.professor_id, o2.dept, o2.course_number
		) sub
		JOIN offerings o ON o.dept = sub.dept AND o.course_number = sub.course_number
		WHERE offerings_professors.offering_id = o.id
		  AND offerings_professors.professor_id = sub.professor_id
	`

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error rebuilding professor-course ratings: %w", err)
	}
	return nil
}

// RebuildProfCourseHours recomputes avg_prof_course_hours on every link row
// using the workload histogram of the offerings linked to the identity under
// the same course key.
func (r *AggregateRepository) RebuildProfCourseHours(ctx context.Context) error {
	query := fmt.Sprintf(`
		UPDATE offerings_professors SET avg_prof_course_hours = sub.hours
		FROM (
			SELECT op2.professor_id, o2.dept, o2.course_number,
				(%s) / NULLIF(%s, 0) AS hours
			FROM offerings_professors op2
			JOIN offerings o2 ON o2.id = op2.offering_id
			GROUP BY op2.professor_id, o2.dept, o2.course_number
		) sub
		JOIN offerings o ON o.dept = sub.dept AND o.course_number = sub.course_number
		WHERE offerings_professors.offering_id = o.id
		  AND offerings_professors.professor_id = sub.professor_id
	`, qualifyBuckets(weightedBucketHours), qualifyBuckets(totalBucketResponses))

	_, err := r.db.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("error rebuilding professor-course hours: %w", err)
	}
	return nil
}

// qualifyBuckets rewrites the bucket expressions to read from the joined
// offerings alias used by the link-row rebuilds.
func qualifyBuckets(expr string) string {
	for _, bucket := range []string{
		"less_five", "five_to_ten", "ten_to_fifteen", "fifteen_to_twenty",
		"twenty_to_twenty_five", "twenty_five_to_thirty", "more_thirty",
	} {
		expr = strings.ReplaceAll(expr, "SUM("+bucket+")", "SUM(o2."+bucket+")")
	}
	return expr
}
