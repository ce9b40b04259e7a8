package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

type programRepository interface {
	ListRegistrations(ctx context.Context) ([]models.ProgramRegistration, error)
}

const (
	defaultProgramType   = "Unknown"
	defaultProgramStatus = "registered"
)

// ProgramService aggregates program registrations.
type ProgramService struct {
	repo   programRepository
	logger *zap.Logger
}

// NewProgramService constructs a ProgramService.
func NewProgramService(repo programRepository, logger *zap.Logger) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, logger: logger}
}

// Stats groups registrations by program name in the order names first appear in the
// newest-first listing. Type, image and status come from the newest registration.
func (s *ProgramService) Stats(ctx context.Context) ([]models.ProgramStats, error) {
	registrations, err := s.repo.ListRegistrations(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program registrations")
	}
	return AggregatePrograms(registrations), nil
}

// AggregatePrograms builds per-program statistics from registrations.
func AggregatePrograms(registrations []models.ProgramRegistration) []models.ProgramStats {
	stats := make([]models.ProgramStats, 0)
	index := make(map[string]int)
	for _, reg := range registrations {
		i, ok := index[reg.ProgramName]
		if !ok {
			i = len(stats)
			index[reg.ProgramName] = i
			entry := models.ProgramStats{
				ProgramName:  reg.ProgramName,
				ProgramType:  reg.ProgramType,
				ImageURL:     reg.ImageURL,
				Status:       reg.Status,
				Participants: []models.ProgramParticipant{},
			}
			if entry.ProgramType == "" {
				entry.ProgramType = defaultProgramType
			}
			if entry.Status == "" {
				entry.Status = defaultProgramStatus
			}
			stats = append(stats, entry)
		}
		stats[i].TotalRegistrations++
		stats[i].TotalAttendees += reg.Participant.AttendeeCount
		stats[i].Participants = append(stats[i].Participants, reg.Participant)
	}
	return stats
}
