package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal-api/internal/models"
)

const userColumns = `id, email, password_hash, role, doc`

// UserRepository provides database access for portal users and their enrollments.
type UserRepository struct {
	store
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB, observer QueryObserver) *UserRepository {
	return &UserRepository{store{db: db, observer: observer}}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	defer r.observe("users.find_by_email", time.Now())

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return decodeUserRow(row)
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	defer r.observe("users.find_by_id", time.Now())

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return decodeUserRow(row)
}

// ListByCourse returns the students whose enrollments reference courseID.
// Stored references vary ("courses/<id>", bare ids), so matching happens after decoding.
func (r *UserRepository) ListByCourse(ctx context.Context, courseID string) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE role = $1 AND jsonb_typeof(doc->'courses') = 'array' ORDER BY email ASC, id ASC`
	defer r.observe("users.list_by_course", time.Now())

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, string(models.RoleStudent)); err != nil {
		return nil, fmt.Errorf("list users by course: %w", err)
	}

	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		user, err := decodeUserRow(row)
		if err != nil {
			return nil, err
		}
		if _, ok := user.EnrollmentFor(courseID); ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func decodeUserRow(row userRow) (*models.User, error) {
	user, err := decodeUser(row)
	if err != nil {
		return nil, fmt.Errorf("decode user %s: %w", row.ID, err)
	}
	return &user, nil
}
