package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// CourseRepository reads course documents.
type CourseRepository struct {
	store
}

// NewCourseRepository creates a new instance of CourseRepository.
func NewCourseRepository(db *sqlx.DB, observer QueryObserver) *CourseRepository {
	return &CourseRepository{store{db: db, observer: observer}}
}

// List returns every course in creation order.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	const query = `SELECT id, doc FROM courses ORDER BY created_at ASC, id ASC`
	defer r.observe("courses.list", time.Now())

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return decodeCourses(rows)
}

// FindByIDs returns the courses whose ids appear in ids, in creation order. Unknown ids are skipped.
func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return []models.Course{}, nil
	}
	const query = `SELECT id, doc FROM courses WHERE id = ANY($1) ORDER BY created_at ASC, id ASC`
	defer r.observe("courses.find_by_ids", time.Now())

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find courses by ids: %w", err)
	}
	return decodeCourses(rows)
}

// FindByID returns a course by identifier.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, doc FROM courses WHERE id = $1 LIMIT 1`
	defer r.observe("courses.find_by_id", time.Now())

	var row documentRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course by id: %w", err)
	}
	course, err := decodeCourse(row.ID, row.Doc)
	if err != nil {
		return nil, fmt.Errorf("decode course %s: %w", row.ID, err)
	}
	return &course, nil
}

// ListByName returns courses whose name matches case-insensitively, whichever casing the document uses.
func (r *CourseRepository) ListByName(ctx context.Context, name string) ([]models.Course, error) {
	const query = `SELECT id, doc FROM courses WHERE LOWER(COALESCE(doc->>'name', doc->>'Name', '')) = LOWER($1) ORDER BY created_at ASC, id ASC`
	defer r.observe("courses.list_by_name", time.Now())

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, name); err != nil {
		return nil, fmt.Errorf("list courses by name: %w", err)
	}
	return decodeCourses(rows)
}

func decodeCourses(rows []documentRow) ([]models.Course, error) {
	courses := make([]models.Course, 0, len(rows))
	for _, row := range rows {
		course, err := decodeCourse(row.ID, row.Doc)
		if err != nil {
			return nil, fmt.Errorf("decode course %s: %w", row.ID, err)
		}
		courses = append(courses, course)
	}
	return courses, nil
}
