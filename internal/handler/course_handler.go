package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/course-portal-api/internal/dto"
	"github.com/noah-isme/course-portal-api/internal/middleware"
	"github.com/noah-isme/course-portal-api/internal/models"
	"github.com/noah-isme/course-portal-api/internal/service"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
	"github.com/noah-isme/course-portal-api/pkg/export"
	"github.com/noah-isme/course-portal-api/pkg/response"
)

type courseCatalog interface {
	List(ctx context.Context, viewer models.Viewer) ([]dto.CourseSummary, error)
	FindByName(ctx context.Context, name string) (*models.Course, error)
}

type coursePages interface {
	Load(ctx context.Context, viewer models.Viewer, courseID string, refresh bool) (*dto.CoursePage, error)
	Grades(ctx context.Context, viewer models.Viewer, courseID string) (*dto.GradesView, error)
	ToggleRow(ctx context.Context, viewer models.Viewer, courseID, studentID string) (*dto.GradesView, error)
	Course(ctx context.Context, viewer models.Viewer, courseID string) (models.Course, service.CourseAccess, error)
}

type rosterExporter interface {
	ExportRoster(ctx context.Context, course models.Course, format export.Format) (*export.Document, error)
}

type courseRoster interface {
	Students(ctx context.Context, courseID string) ([]dto.StudentView, error)
}

type welcomeSender interface {
	Send(ctx context.Context, course models.Course) (*dto.WelcomeEmailResult, error)
	Status(jobID string) (*dto.JobStatusView, error)
}

// CourseHandler serves course listings and the course page.
type CourseHandler struct {
	catalog   courseCatalog
	pages     coursePages
	exporter  rosterExporter
	roster    courseRoster
	welcome   welcomeSender
	validator *validator.Validate
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(catalog courseCatalog, pages coursePages, exporter rosterExporter, roster courseRoster, welcome welcomeSender, validate *validator.Validate) *CourseHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &CourseHandler{catalog: catalog, pages: pages, exporter: exporter, roster: roster, welcome: welcome, validator: validate}
}

// List godoc
// @Summary List courses
// @Description Administrators see every course; students see the courses they are enrolled in
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	courses, err := h.catalog.List(c.Request.Context(), viewer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Lookup godoc
// @Summary Find a course by name
// @Description Accepts names such as "Biology - Year 2"
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param name query string true "Course name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/lookup [get]
func (h *CourseHandler) Lookup(c *gin.Context) {
	var query dto.LookupQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lookup query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course name is required"))
		return
	}
	course, err := h.catalog.FindByName(c.Request.Context(), query.Name)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service.Summarize(*course), nil)
}

// Get godoc
// @Summary Course page
// @Description Course details with attachments and videos partitioned by semester for the viewer
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param refresh query bool false "Rebuild the page instead of returning the last load"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	refresh := queryBool(c, "refresh")
	page, err := h.pages.Load(c.Request.Context(), viewer, c.Param("id"), refresh)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "refreshed", refresh)
	response.JSON(c, http.StatusOK, page, nil, middleware.ExtractMeta(c))
}

// Attachments godoc
// @Summary Course attachments
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param tab query string false "Active tab" Enums(fall, spring, all)
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses/{id}/attachments [get]
func (h *CourseHandler) Attachments(c *gin.Context) {
	page, tab, ok := h.pageWithTab(c)
	if !ok {
		return
	}
	view := page.Attachments
	if tab != "" {
		if view, ok = service.SelectTab(view, tab); !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "tab is not available for this enrollment"))
			return
		}
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Videos godoc
// @Summary Course videos
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param tab query string false "Active tab" Enums(fall, spring, all)
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses/{id}/videos [get]
func (h *CourseHandler) Videos(c *gin.Context) {
	page, tab, ok := h.pageWithTab(c)
	if !ok {
		return
	}
	view := page.Videos
	if tab != "" {
		if view, ok = service.SelectTab(view, tab); !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "tab is not available for this enrollment"))
			return
		}
	}
	response.JSON(c, http.StatusOK, view, nil)
}

func (h *CourseHandler) pageWithTab(c *gin.Context) (*dto.CoursePage, models.SemesterTab, bool) {
	viewer, ok := requireViewer(c)
	if !ok {
		return nil, "", false
	}
	var query dto.TabQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tab query"))
		return nil, "", false
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "tab must be fall, spring or all"))
		return nil, "", false
	}
	page, err := h.pages.Load(c.Request.Context(), viewer, c.Param("id"), queryBool(c, "refresh"))
	if err != nil {
		response.Error(c, err)
		return nil, "", false
	}
	return page, models.SemesterTab(query.Tab), true
}

// Grades godoc
// @Summary Course grades
// @Description Students receive their own grades; administrators receive the roster.
// @Description expand toggles one roster row open; repeating it closes the row.
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param expand query string false "Student ID of the roster row to toggle"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses/{id}/grades [get]
func (h *CourseHandler) Grades(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var query dto.GradesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grades query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expand value"))
		return
	}

	var (
		grades *dto.GradesView
		err    error
	)
	if query.Expand != "" {
		grades, err = h.pages.ToggleRow(c.Request.Context(), viewer, c.Param("id"), query.Expand)
	} else {
		grades, err = h.pages.Grades(c.Request.Context(), viewer, c.Param("id"))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// ExportGrades godoc
// @Summary Export roster grades
// @Tags Grades
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param format query string false "Export format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /courses/{id}/grades/export [get]
func (h *CourseHandler) ExportGrades(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query"))
		return
	}
	if err := h.validator.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf"))
		return
	}
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "format must be csv or pdf"))
		return
	}

	course, _, err := h.pages.Course(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.exporter.ExportRoster(c.Request.Context(), course, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, doc.Filename, doc.Format.ContentType(), doc.Content)
}

// Students godoc
// @Summary Enrolled students
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{id}/students [get]
func (h *CourseHandler) Students(c *gin.Context) {
	students, err := h.roster.Students(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// SendWelcomeEmails godoc
// @Summary Send welcome emails
// @Description Queues welcome emails to every enrolled student with an email address
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 202 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /courses/{id}/welcome-emails [post]
func (h *CourseHandler) SendWelcomeEmails(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	course, _, err := h.pages.Course(c.Request.Context(), viewer, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.welcome.Send(c.Request.Context(), course)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// WelcomeEmailStatus godoc
// @Summary Welcome email job status
// @Tags Courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param jobId path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/welcome-emails/{jobId} [get]
func (h *CourseHandler) WelcomeEmailStatus(c *gin.Context) {
	status, err := h.welcome.Status(c.Param("jobId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}
