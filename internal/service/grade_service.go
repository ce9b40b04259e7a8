package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
	"github.com/noah-isme/course-portal-api/pkg/export"
)

type gradeAssignmentRepository interface {
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	ResultsByCourse(ctx context.Context, courseID string) (map[string][]models.QuizResult, error)
}

type rosterSource interface {
	Records(ctx context.Context, courseID string) ([]models.StudentRecord, error)
}

type gradeExporter interface {
	Render(format export.Format, data export.Dataset, baseName string) (*export.Document, error)
}

// GradeService loads assignments, results and rosters and runs grade aggregation on them.
type GradeService struct {
	assignments gradeAssignmentRepository
	roster      rosterSource
	exporter    gradeExporter
	logger      *zap.Logger
}

// NewGradeService constructs a GradeService.
func NewGradeService(assignments gradeAssignmentRepository, roster rosterSource, exporter gradeExporter, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if exporter == nil {
		exporter = export.NewExporter()
	}
	return &GradeService{assignments: assignments, roster: roster, exporter: exporter, logger: logger}
}

func (s *GradeService) load(ctx context.Context, courseID string) ([]models.Assignment, ResultsByAssignment, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignments")
	}
	results, err := s.assignments.ResultsByCourse(ctx, courseID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load quiz results")
	}
	return assignments, ResultsByAssignment(results), nil
}

// SelfGrades returns the viewer's own graded assignments for a course.
func (s *GradeService) SelfGrades(ctx context.Context, viewer models.Viewer, courseID string) (*models.SelfGradeReport, error) {
	assignments, results, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	report := BuildSelfGrades(assignments, results, viewer.UserID)
	return &report, nil
}

// RosterGrades returns a summary per enrolled student with graded work.
func (s *GradeService) RosterGrades(ctx context.Context, courseID string) ([]models.StudentGradeSummary, error) {
	assignments, results, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	students, err := s.roster.Records(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return BuildRosterGrades(assignments, results, students), nil
}

var rosterExportHeaders = []string{"Student", "Email", "Assignment", "Score", "Max Points", "Percentage"}

// ExportRoster renders the roster grades as CSV or PDF. Each student contributes one line
// per graded assignment followed by a total line.
func (s *GradeService) ExportRoster(ctx context.Context, course models.Course, format export.Format) (*export.Document, error) {
	summaries, err := s.RosterGrades(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Title: fmt.Sprintf("%s grades", courseLabel(course)), Headers: rosterExportHeaders}
	for _, summary := range summaries {
		for _, row := range summary.Rows {
			data.Rows = append(data.Rows, map[string]string{
				"Student":    summary.DisplayName,
				"Email":      summary.Email,
				"Assignment": row.AssignmentTitle,
				"Score":      formatNumber(row.Score),
				"Max Points": formatNumber(row.MaxPoints),
				"Percentage": formatPercent(row.Percentage()),
			})
		}
		data.Rows = append(data.Rows, map[string]string{
			"Student":    summary.DisplayName,
			"Email":      summary.Email,
			"Assignment": "Total",
			"Score":      formatNumber(summary.Totals.Score),
			"Max Points": formatNumber(summary.Totals.MaxPoints),
			"Percentage": formatPercent(summary.Totals.Percentage),
		})
	}

	doc, err := s.exporter.Render(format, data, courseLabel(course)+" grades")
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render grade export")
	}
	s.logger.Info("roster grades exported",
		zap.String("course_id", course.ID),
		zap.String("format", string(format)),
		zap.Int("students", len(summaries)),
	)
	return doc, nil
}

func courseLabel(course models.Course) string {
	label := course.Name
	if label == "" {
		label = course.ID
	}
	if course.Year != "" {
		label += " Year " + course.Year
	}
	return label
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatPercent(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 1, 64) + "%"
}
