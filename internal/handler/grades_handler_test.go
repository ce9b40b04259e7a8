package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/dto"
	"github.com/noah-isme/course-portal-api/internal/models"
	"github.com/noah-isme/course-portal-api/internal/service"
)

type staticCourses struct{}

func (staticCourses) Get(ctx context.Context, id string) (*models.Course, error) {
	return &models.Course{ID: id, Name: "Biology"}, nil
}

type openAccess struct{}

func (openAccess) Resolve(ctx context.Context, viewer models.Viewer, courseID string) (service.CourseAccess, error) {
	return service.CourseAccess{Viewer: viewer, CourseID: courseID, Permitted: models.UnrestrictedTerms()}, nil
}

type twoStudentGrades struct{}

func (twoStudentGrades) SelfGrades(ctx context.Context, viewer models.Viewer, courseID string) (*models.SelfGradeReport, error) {
	return &models.SelfGradeReport{StudentID: viewer.UserID}, nil
}

func (twoStudentGrades) RosterGrades(ctx context.Context, courseID string) ([]models.StudentGradeSummary, error) {
	return []models.StudentGradeSummary{
		{StudentID: "ana", DisplayName: "Ana Lee"},
		{StudentID: "ben", DisplayName: "Ben Ito"},
	}, nil
}

func newGradesHandler() *CourseHandler {
	content := service.NewContentService(nil, nil, "", nil, nil)
	pages := service.NewCoursePageService(staticCourses{}, openAccess{}, content, twoStudentGrades{}, 0, nil)
	return NewCourseHandler(&courseServiceMock{}, pages, &exporterMock{}, rosterMock{}, &welcomeMock{}, nil)
}

func getGrades(t *testing.T, handler *CourseHandler, viewer models.Viewer, target string) (int, dto.GradesView) {
	t.Helper()
	c, w := newViewerContext(http.MethodGet, target, viewer)
	c.Params = gin.Params{{Key: "id", Value: "c1"}}
	handler.Grades(c)

	var view dto.GradesView
	if w.Code == http.StatusOK {
		decodeData(t, w, &view)
	}
	return w.Code, view
}

func TestCourseHandlerGradesExpandTogglesSingleRow(t *testing.T) {
	handler := newGradesHandler()
	admin := models.Viewer{UserID: "root", Role: models.RoleAdmin}

	steps := []struct {
		target string
		want   string
	}{
		{"/courses/c1/grades?expand=ana", "ana"},
		{"/courses/c1/grades?expand=ben", "ben"},
		{"/courses/c1/grades", "ben"},
		{"/courses/c1/grades?expand=ben", ""},
	}
	for _, step := range steps {
		code, view := getGrades(t, handler, admin, step.target)
		require.Equal(t, http.StatusOK, code, step.target)
		assert.Equal(t, dto.GradeModeRoster, view.Mode)
		assert.Len(t, view.Roster, 2)
		assert.Equal(t, step.want, view.Expanded, step.target)
	}
}

func TestCourseHandlerGradesExpandRejections(t *testing.T) {
	handler := newGradesHandler()

	code, _ := getGrades(t, handler, models.Viewer{UserID: "root", Role: models.RoleAdmin}, "/courses/c1/grades?expand=zoe")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = getGrades(t, handler, models.Viewer{UserID: "ana", Role: models.RoleStudent}, "/courses/c1/grades?expand=ana")
	assert.Equal(t, http.StatusForbidden, code)
}
