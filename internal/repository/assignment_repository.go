package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// AssignmentRepository reads quiz assignments and their submitted results.
type AssignmentRepository struct {
	store
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *sqlx.DB, observer QueryObserver) *AssignmentRepository {
	return &AssignmentRepository{store{db: db, observer: observer}}
}

type assignmentRow struct {
	ID       string `db:"id"`
	CourseID string `db:"course_id"`
	Doc      []byte `db:"doc"`
}

type resultRow struct {
	AssignmentID string `db:"assignment_id"`
	StudentID    string `db:"student_id"`
	Doc          []byte `db:"doc"`
}

// ListByCourse returns the assignments of a course in creation order.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	const query = `SELECT id, course_id, doc FROM assignments WHERE course_id = $1 ORDER BY created_at ASC, id ASC`
	defer r.observe("assignments.list_by_course", time.Now())

	var rows []assignmentRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignments by course: %w", err)
	}

	assignments := make([]models.Assignment, 0, len(rows))
	for _, row := range rows {
		assignment, err := decodeAssignment(row.ID, row.CourseID, row.Doc)
		if err != nil {
			return nil, fmt.Errorf("decode assignment %s: %w", row.ID, err)
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

// ResultsByCourse returns the quiz results of a course grouped by assignment id.
func (r *AssignmentRepository) ResultsByCourse(ctx context.Context, courseID string) (map[string][]models.QuizResult, error) {
	const query = `SELECT assignment_id, student_id, doc FROM quiz_results WHERE course_id = $1 ORDER BY created_at ASC, id ASC`
	defer r.observe("quiz_results.by_course", time.Now())

	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, query, courseID); err != nil {
		return nil, fmt.Errorf("list quiz results by course: %w", err)
	}

	results := make(map[string][]models.QuizResult)
	for _, row := range rows {
		result, err := decodeResult(row.AssignmentID, row.StudentID, row.Doc)
		if err != nil {
			return nil, fmt.Errorf("decode quiz result for %s: %w", row.AssignmentID, err)
		}
		results[row.AssignmentID] = append(results[row.AssignmentID], result)
	}
	return results, nil
}
