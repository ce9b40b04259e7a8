package service

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"
	"time"

	"github.com/noah-isme/course-portal-api/internal/models"
	"github.com/noah-isme/course-portal-api/pkg/jobs"
)

type fakeUsers struct {
	byID   map[string]*models.User
	roster []models.User
	err    error
	calls  int32
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUsers) ListByCourse(ctx context.Context, courseID string) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.User, 0, len(f.roster))
	for _, user := range f.roster {
		if _, ok := user.EnrollmentFor(courseID); ok {
			out = append(out, user)
		}
	}
	return out, nil
}

type fakeCourses struct {
	courses []models.Course
	err     error
	gets    int32
}

func (f *fakeCourses) List(ctx context.Context) ([]models.Course, error) {
	return f.courses, f.err
}

func (f *fakeCourses) FindByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []models.Course
	for _, course := range f.courses {
		if want[course.ID] {
			out = append(out, course)
		}
	}
	return out, nil
}

func (f *fakeCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.courses {
		if f.courses[i].ID == id {
			course := f.courses[i]
			return &course, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourses) ListByName(ctx context.Context, name string) ([]models.Course, error) {
	var out []models.Course
	for _, course := range f.courses {
		if course.Name == name {
			out = append(out, course)
		}
	}
	return out, f.err
}

// Get lets fakeCourses stand in for CourseService on the page service.
func (f *fakeCourses) Get(ctx context.Context, id string) (*models.Course, error) {
	atomic.AddInt32(&f.gets, 1)
	return f.FindByID(ctx, id)
}

type fakeAssignments struct {
	assignments []models.Assignment
	results     map[string][]models.QuizResult
	err         error
	loads       int32
}

func (f *fakeAssignments) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	atomic.AddInt32(&f.loads, 1)
	return f.assignments, f.err
}

func (f *fakeAssignments) ResultsByCourse(ctx context.Context, courseID string) (map[string][]models.QuizResult, error) {
	return f.results, f.err
}

type fakePlaylists struct {
	mu     sync.Mutex
	videos map[string][]models.Video
	errs   map[string]error
	calls  map[string]int
	delay  time.Duration
}

func (f *fakePlaylists) record(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[id]++
}

func (f *fakePlaylists) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func (f *fakePlaylists) PlaylistVideos(ctx context.Context, playlistID string) ([]models.Video, error) {
	f.record(playlistID)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.errs[playlistID]; err != nil {
		return nil, err
	}
	return f.videos[playlistID], nil
}

// Playlist lets fakePlaylists stand in for VideoService.
func (f *fakePlaylists) Playlist(ctx context.Context, playlistID string) ([]models.Video, error) {
	return f.PlaylistVideos(ctx, playlistID)
}

type fakeSigner struct{}

func (fakeSigner) Sign(courseID, attachmentID, path string) (string, time.Time, error) {
	return courseID + "." + attachmentID, time.Now().Add(time.Minute), nil
}

type fakeQueue struct {
	submitted []interface{}
	statuses  map[string]jobs.Status
	err       error
}

func (f *fakeQueue) Submit(kind string, payload interface{}) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.submitted = append(f.submitted, payload)
	id := "job-1"
	if f.statuses == nil {
		f.statuses = make(map[string]jobs.Status)
	}
	f.statuses[id] = jobs.Status{ID: id, Kind: kind, State: jobs.StatePending}
	return id, nil
}

func (f *fakeQueue) Status(id string) (jobs.Status, bool) {
	status, ok := f.statuses[id]
	return status, ok
}

func enrolledUser(id string, plan models.EnrollmentPlan, courseRefs ...string) *models.User {
	user := &models.User{ID: id, Email: id + "@example.com", Role: models.RoleStudent, Student: models.StudentRecord{ID: id, Email: id + "@example.com"}}
	for _, ref := range courseRefs {
		user.Enrollments = append(user.Enrollments, models.CourseEnrollment{CourseRef: ref, Plan: plan})
	}
	return user
}
