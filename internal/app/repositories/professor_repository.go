package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courselens/backend/internal/app/models"
	"github.com/courselens/backend/internal/pkg/apperrors"
)

// ProfessorRepository handles database operations for professor identities
// and the professor-scoped bulk lookups of the feedback path.
type ProfessorRepository struct {
	db *pgxpool.Pool
}

// NewProfessorRepository creates a new professor repository
func NewProfessorRepository(db *pgxpool.Pool) *ProfessorRepository {
	return &ProfessorRepository{
		db: db,
	}
}

// GetByID retrieves a professor identity by ID
func (r *ProfessorRepository) GetByID(ctx context.Context, id int64) (*models.Professor, error) {
	query := `
		SELECT id, dept, first_name, last_name, avg_professor_rating
		FROM professors
		WHERE id = $1
	`

	var professor models.Professor
	err := r.db.QueryRow(ctx, query, id).Scan(
		&professor.ID,
		&professor.Dept,
		&professor.FirstName,
		&professor.LastName,
		&professor.AvgProfessorRating,
	)
	if err != nil {
		return nil, apperrors.ErrProfessorNotFound
	}

	return &professor, nil
}

// Identities performs the identity bulk lookup: one query returning every
// stored (last_name, dept) identity across all lookups of the batch. The
// per-item priority scan over the result happens in memory; the repository
// only guarantees that every candidate combination was fetched.
func (r *ProfessorRepository) Identities(ctx context.Context, lookups []models.ProfessorLookup) (map[models.ProfessorKey]int64, error) {
	ids := make(map[models.ProfessorKey]int64)
	if len(lookups) == 0 {
		return ids, nil
	}

	conditions := make([]string, 0, len(lookups))
	args := make([]interface{}, 0, len(lookups)*2)
	for _, lookup := range lookups {
		conditions = append(conditions,
			fmt.Sprintf("(last_name = $%d AND dept = ANY($%d))", len(args)+1, len(args)+2))
		args = append(args, lookup.LastName, lookup.Depts)
	}

	query := fmt.Sprintf(`
		SELECT id, last_name, dept
		FROM professors
		WHERE %s`, strings.Join(conditions, " OR "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "bulk professor identity lookup failed")
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var key models.ProfessorKey
		if err := rows.Scan(&id, &key.LastName, &key.Dept); err != nil {
			return nil, apperrors.NewStorageError(err, "bulk professor identity scan failed")
		}
		ids[key] = id
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, "bulk professor identity lookup failed")
	}

	return ids, nil
}

// Ratings performs the professor-rating bulk lookup over every resolved
// identity of the batch in one query.
func (r *ProfessorRepository) Ratings(ctx context.Context, ids []int64) (map[int64]*float64, error) {
	ratings := make(map[int64]*float64)
	if len(ids) == 0 {
		return ratings, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, avg_professor_rating
		FROM professors
		WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, apperrors.NewStorageError(err, "bulk professor rating lookup failed")
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var rating *float64
		if err := rows.Scan(&id, &rating); err != nil {
			return nil, apperrors.NewStorageError(err, "bulk professor rating scan failed")
		}
		ratings[id] = rating
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, "bulk professor rating lookup failed")
	}

	return ratings, nil
}

// CourseRatings performs the professor-course-rating bulk lookup: one query
// covering every (professor, dept, number) candidate of the batch.
func (r *ProfessorRepository) CourseRatings(ctx context.Context, keys []models.ProfessorCourseKey) (map[models.ProfessorCourseKey]*float64, error) {
	return r.bulkProfessorCourseColumn(ctx, "avg_prof_course_rating", keys)
}

// CourseHours performs the professor-course-hours bulk lookup, one query per
// batch.
func (r *ProfessorRepository) CourseHours(ctx context.Context, keys []models.ProfessorCourseKey) (map[models.ProfessorCourseKey]*float64, error) {
	return r.bulkProfessorCourseColumn(ctx, "avg_prof_course_hours", keys)
}

// bulkProfessorCourseColumn reads one cached per-(professor, course) column
// for a whole candidate set at once. The cached value is duplicated across
// the link rows of a (professor, course) pair; DISTINCT collapses them.
func (r *ProfessorRepository) bulkProfessorCourseColumn(ctx context.Context, column string, keys []models.ProfessorCourseKey) (map[models.ProfessorCourseKey]*float64, error) {
	values := make(map[models.ProfessorCourseKey]*float64)
	if len(keys) == 0 {
		return values, nil
	}

	conditions := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)*3)
	for _, key := range keys {
		conditions = append(conditions,
			fmt.Sprintf("(op.professor_id = $%d AND o.dept = $%d AND o.course_number = $%d)",
				len(args)+1, len(args)+2, len(args)+3))
		args = append(args, key.ProfessorID, key.Dept, key.Number)
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT op.professor_id, o.dept, o.course_number, op.%s
		FROM offerings_professors op
		JOIN offerings o ON op.offering_id = o.id
		WHERE %s`, column, strings.Join(conditions, " OR "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStorageError(err, fmt.Sprintf("bulk %s lookup failed", column))
	}
	defer rows.Close()

	for rows.Next() {
		var key models.ProfessorCourseKey
		var value *float64
		if err := rows.Scan(&key.ProfessorID, &key.Dept, &key.Number, &value); err != nil {
			return nil, apperrors.NewStorageError(err, fmt.Sprintf("bulk %s scan failed", column))
		}
		values[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(err, fmt.Sprintf("bulk %s lookup failed", column))
	}

	return values, nil
}
