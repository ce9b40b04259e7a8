package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal-api/internal/dto"
	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Course, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ListByName(ctx context.Context, name string) ([]models.Course, error)
}

type courseUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

var (
	yearPattern       = regexp.MustCompile(`(?i)Year (\d+)`)
	yearSuffixPattern = regexp.MustCompile(`(?i)\s*-?\s*Year \d+`)
)

// CourseService lists and looks up courses.
type CourseService struct {
	courses courseRepository
	users   courseUserRepository
	logger  *zap.Logger
}

// NewCourseService constructs a CourseService.
func NewCourseService(courses courseRepository, users courseUserRepository, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, users: users, logger: logger}
}

// List returns every course for administrators and the enrolled courses for students,
// deduplicated by name and year.
func (s *CourseService) List(ctx context.Context, viewer models.Viewer) ([]dto.CourseSummary, error) {
	if viewer.IsAdmin() {
		courses, err := s.courses.List(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
		}
		return summarize(DedupeCourses(courses), nil), nil
	}

	user, err := s.users.FindByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "user no longer exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	courses, err := s.courses.FindByIDs(ctx, user.CourseIDs())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled courses")
	}
	return summarize(DedupeCourses(courses), user), nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// FindByName resolves names such as "Biology - Year 2" to the course with that base
// name and year. Without a year suffix the first course with the name wins.
func (s *CourseService) FindByName(ctx context.Context, name string) (*models.Course, error) {
	base, year := splitCourseName(name)
	if base == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course name is required")
	}

	courses, err := s.courses.ListByName(ctx, base)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up course")
	}
	for i := range courses {
		if year == "" || strings.TrimSpace(courses[i].Year) == year {
			return &courses[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
}

func splitCourseName(name string) (base, year string) {
	if m := yearPattern.FindStringSubmatch(name); m != nil {
		year = m[1]
	}
	base = strings.TrimSpace(yearSuffixPattern.ReplaceAllString(name, ""))
	return base, year
}

// Summarize converts a course to its listing shape.
func Summarize(course models.Course) dto.CourseSummary {
	return dto.CourseSummary{
		ID:          course.ID,
		Name:        course.Name,
		Year:        course.Year,
		Section:     course.Section,
		Description: course.Description,
	}
}

func summarize(courses []models.Course, user *models.User) []dto.CourseSummary {
	out := make([]dto.CourseSummary, 0, len(courses))
	for _, course := range courses {
		summary := Summarize(course)
		summary.Plan = PlanForCourse(user, course.ID)
		out = append(out, summary)
	}
	return out
}
