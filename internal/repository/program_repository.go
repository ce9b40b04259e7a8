package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// ProgramRepository reads program registration documents.
type ProgramRepository struct {
	store
}

// NewProgramRepository creates a new instance of ProgramRepository.
func NewProgramRepository(db *sqlx.DB, observer QueryObserver) *ProgramRepository {
	return &ProgramRepository{store{db: db, observer: observer}}
}

type programRow struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	Doc       []byte    `db:"doc"`
}

// ListRegistrations returns every registration, newest first.
func (r *ProgramRepository) ListRegistrations(ctx context.Context) ([]models.ProgramRegistration, error) {
	const query = `SELECT id, created_at, doc FROM program_registrations ORDER BY created_at DESC, id ASC`
	defer r.observe("program_registrations.list", time.Now())

	var rows []programRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list program registrations: %w", err)
	}

	registrations := make([]models.ProgramRegistration, 0, len(rows))
	for _, row := range rows {
		reg, err := decodeProgram(row.ID, row.CreatedAt, row.Doc)
		if err != nil {
			return nil, fmt.Errorf("decode program registration %s: %w", row.ID, err)
		}
		registrations = append(registrations, reg)
	}
	return registrations, nil
}
