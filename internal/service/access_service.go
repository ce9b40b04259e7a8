package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

type accessUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CourseAccess is the permitted view of one course for one viewer. It is computed once
// per page load and handed to the partitioning and grading code as-is.
type CourseAccess struct {
	Viewer    models.Viewer
	CourseID  string
	Plan      models.EnrollmentPlan
	Permitted models.PermittedTerms
}

// AccessService resolves a viewer's permitted terms for a course.
type AccessService struct {
	users  accessUserRepository
	policy PlanPolicy
	logger *zap.Logger
}

// NewAccessService constructs an AccessService.
func NewAccessService(users accessUserRepository, policy PlanPolicy, logger *zap.Logger) *AccessService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessService{users: users, policy: policy, logger: logger}
}

// Resolve returns the viewer's access to courseID. Administrators are unrestricted and
// never trigger a user lookup.
func (s *AccessService) Resolve(ctx context.Context, viewer models.Viewer, courseID string) (CourseAccess, error) {
	access := CourseAccess{Viewer: viewer, CourseID: courseID, Permitted: models.UnrestrictedTerms()}
	if viewer.IsAdmin() {
		return access, nil
	}

	user, err := s.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CourseAccess{}, appErrors.Clone(appErrors.ErrUnauthorized, "user no longer exists")
		}
		return CourseAccess{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	access.Plan = PlanForCourse(user, courseID)
	access.Permitted = s.policy.Resolve(access.Plan)
	if !access.Plan.Known() {
		s.logger.Warn("unrecognized enrollment plan",
			zap.String("user_id", viewer.UserID),
			zap.String("course_id", courseID),
			zap.String("plan", string(access.Plan)),
			zap.Bool("fail_closed", s.policy.FailClosed),
		)
	}
	return access, nil
}
