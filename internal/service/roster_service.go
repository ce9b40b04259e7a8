package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal-api/internal/dto"
	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

type rosterRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.User, error)
}

// RosterService lists the students enrolled in a course.
type RosterService struct {
	users  rosterRepository
	logger *zap.Logger
}

// NewRosterService constructs a RosterService.
func NewRosterService(users rosterRepository, logger *zap.Logger) *RosterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterService{users: users, logger: logger}
}

// Records returns the enrolled students' roster records with their plan for courseID.
func (s *RosterService) Records(ctx context.Context, courseID string) ([]models.StudentRecord, error) {
	users, err := s.users.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	records := make([]models.StudentRecord, 0, len(users))
	for i := range users {
		record := users[i].Student
		record.Plan = PlanForCourse(&users[i], courseID)
		records = append(records, record)
	}
	return records, nil
}

// Students returns the roster with resolved display names.
func (s *RosterService) Students(ctx context.Context, courseID string) ([]dto.StudentView, error) {
	records, err := s.Records(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students := make([]dto.StudentView, 0, len(records))
	for _, record := range records {
		students = append(students, dto.StudentView{
			ID:          record.Key(),
			DisplayName: ResolveDisplayName(record),
			Email:       record.ContactEmail(),
			Plan:        record.Plan,
		})
	}
	return students, nil
}
