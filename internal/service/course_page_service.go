package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/noah-isme/course-portal-api/internal/dto"
	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

type pageCourseSource interface {
	Get(ctx context.Context, id string) (*models.Course, error)
}

type pageAccessResolver interface {
	Resolve(ctx context.Context, viewer models.Viewer, courseID string) (CourseAccess, error)
}

type pageGradeSource interface {
	SelfGrades(ctx context.Context, viewer models.Viewer, courseID string) (*models.SelfGradeReport, error)
	RosterGrades(ctx context.Context, courseID string) ([]models.StudentGradeSummary, error)
}

// pageEntry is the last load of one course for one viewer.
type pageEntry struct {
	page     *dto.CoursePage
	access   CourseAccess
	course   models.Course
	grades   *dto.GradesView
	rows     RosterExpansion
	loadedAt time.Time
}

// CoursePageService composes the course page and remembers it per viewer and course.
// Loading an already loaded page returns the stored result until refresh is requested,
// and concurrent loads of the same page share one fetch.
type CoursePageService struct {
	courses pageCourseSource
	access  pageAccessResolver
	content *ContentService
	grades  pageGradeSource
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time

	loads      singleflight.Group
	gradeLoads singleflight.Group

	mu    sync.Mutex
	pages map[string]*pageEntry
}

// NewCoursePageService constructs a CoursePageService. Stored pages expire after ttl;
// a non-positive ttl keeps them until refreshed.
func NewCoursePageService(courses pageCourseSource, access pageAccessResolver, content *ContentService, grades pageGradeSource, ttl time.Duration, logger *zap.Logger) *CoursePageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoursePageService{
		courses: courses,
		access:  access,
		content: content,
		grades:  grades,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
		pages:   make(map[string]*pageEntry),
	}
}

func pageKey(viewer models.Viewer, courseID string) string {
	return viewer.UserID + "|" + string(viewer.Role) + "|" + courseID
}

// Load returns the course page for viewer. Without refresh a loaded page is returned
// as-is; with refresh the page is rebuilt and its grades are dropped.
func (s *CoursePageService) Load(ctx context.Context, viewer models.Viewer, courseID string, refresh bool) (*dto.CoursePage, error) {
	entry, err := s.entry(ctx, viewer, courseID, refresh)
	if err != nil {
		return nil, err
	}
	return entry.page, nil
}

func (s *CoursePageService) entry(ctx context.Context, viewer models.Viewer, courseID string, refresh bool) (*pageEntry, error) {
	key := pageKey(viewer, courseID)
	if !refresh {
		if entry := s.stored(key); entry != nil {
			return entry, nil
		}
	}

	// A refresh never joins a plain load already in flight.
	flight := key
	if refresh {
		flight += "|refresh"
	}
	value, err, shared := s.loads.Do(flight, func() (interface{}, error) {
		return s.build(ctx, viewer, courseID, refresh)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("course page load shared", zap.String("course_id", courseID), zap.String("user_id", viewer.UserID))
	}
	return value.(*pageEntry), nil
}

func (s *CoursePageService) build(ctx context.Context, viewer models.Viewer, courseID string, refresh bool) (*pageEntry, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if refresh {
		s.content.RefreshVideos(ctx, *course)
		// An administrator refresh invalidates every viewer's copy of the course.
		if viewer.IsAdmin() {
			s.Forget(course.ID)
		}
	}
	access, err := s.access.Resolve(ctx, viewer, course.ID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	summary := Summarize(*course)
	summary.Plan = access.Plan
	page := &dto.CoursePage{
		Course:      summary,
		Role:        viewer.Role,
		Plan:        access.Plan,
		Terms:       access.Permitted.Concrete(),
		Attachments: s.content.Attachments(*course, access),
		Videos:      s.content.Videos(ctx, *course, access),
		LoadedAt:    now,
	}

	entry := &pageEntry{page: page, access: access, course: *course, loadedAt: now}
	s.mu.Lock()
	s.pages[pageKey(viewer, courseID)] = entry
	s.evictExpiredLocked(now)
	s.mu.Unlock()
	return entry, nil
}

// Grades returns the grade view for the loaded page, loading the page first when needed.
// Students get their own report and administrators the roster. The result is computed
// once per page load.
func (s *CoursePageService) Grades(ctx context.Context, viewer models.Viewer, courseID string) (*dto.GradesView, error) {
	entry, grades, err := s.loadGrades(ctx, viewer, courseID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return withExpansion(grades, &entry.rows), nil
}

// ToggleRow expands the roster row of studentID, collapsing any other. Toggling the
// expanded row collapses it. The state lives as long as the page load.
func (s *CoursePageService) ToggleRow(ctx context.Context, viewer models.Viewer, courseID, studentID string) (*dto.GradesView, error) {
	entry, grades, err := s.loadGrades(ctx, viewer, courseID)
	if err != nil {
		return nil, err
	}
	if grades.Mode != dto.GradeModeRoster {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the roster has expandable rows")
	}
	if !onRoster(grades.Roster, studentID) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student is not on the roster")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entry.rows.Toggle(studentID)
	return withExpansion(grades, &entry.rows), nil
}

func (s *CoursePageService) loadGrades(ctx context.Context, viewer models.Viewer, courseID string) (*pageEntry, *dto.GradesView, error) {
	entry, err := s.entry(ctx, viewer, courseID, false)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	grades := entry.grades
	s.mu.Unlock()
	if grades != nil {
		return entry, grades, nil
	}

	value, err, _ := s.gradeLoads.Do(pageKey(viewer, courseID), func() (interface{}, error) {
		return s.buildGrades(ctx, entry)
	})
	if err != nil {
		return nil, nil, err
	}
	grades = value.(*dto.GradesView)

	s.mu.Lock()
	entry.grades = grades
	s.mu.Unlock()
	return entry, grades, nil
}

// withExpansion copies grades so the stored view is never mutated.
func withExpansion(grades *dto.GradesView, rows *RosterExpansion) *dto.GradesView {
	view := *grades
	view.Expanded, _ = rows.Expanded()
	return &view
}

func onRoster(roster []models.StudentGradeSummary, studentID string) bool {
	for _, student := range roster {
		if student.StudentID == studentID {
			return true
		}
	}
	return false
}

func (s *CoursePageService) buildGrades(ctx context.Context, entry *pageEntry) (*dto.GradesView, error) {
	viewer := entry.access.Viewer
	if entry.course.ID == "" || !viewer.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "course and role must be resolved before grading")
	}
	if viewer.IsAdmin() {
		roster, err := s.grades.RosterGrades(ctx, entry.course.ID)
		if err != nil {
			return nil, err
		}
		return &dto.GradesView{Mode: dto.GradeModeRoster, Roster: roster}, nil
	}
	report, err := s.grades.SelfGrades(ctx, viewer, entry.course.ID)
	if err != nil {
		return nil, err
	}
	return &dto.GradesView{Mode: dto.GradeModeSelf, Self: report}, nil
}

// Course returns the course and access of the loaded page, loading it when needed.
func (s *CoursePageService) Course(ctx context.Context, viewer models.Viewer, courseID string) (models.Course, CourseAccess, error) {
	entry, err := s.entry(ctx, viewer, courseID, false)
	if err != nil {
		return models.Course{}, CourseAccess{}, err
	}
	return entry.course, entry.access, nil
}

// Forget drops every stored page of a course, e.g. after its content changed.
func (s *CoursePageService) Forget(courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, entry := range s.pages {
		if entry.course.ID == courseID {
			delete(s.pages, key)
		}
	}
}

func (s *CoursePageService) stored(key string) *pageEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.pages[key]
	if !ok {
		return nil
	}
	if s.expired(entry, s.now()) {
		delete(s.pages, key)
		return nil
	}
	return entry
}

func (s *CoursePageService) expired(entry *pageEntry, now time.Time) bool {
	return s.ttl > 0 && now.Sub(entry.loadedAt) > s.ttl
}

func (s *CoursePageService) evictExpiredLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for key, entry := range s.pages {
		if s.expired(entry, now) {
			delete(s.pages, key)
		}
	}
}
