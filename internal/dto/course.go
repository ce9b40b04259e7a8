package dto

import (
	"time"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// CourseSummary is a course as listed to a viewer.
type CourseSummary struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Year        string                `json:"year,omitempty"`
	Section     string                `json:"section,omitempty"`
	Description string                `json:"description,omitempty"`
	Plan        models.EnrollmentPlan `json:"plan,omitempty"`
}

// ContentView is the tab-bucketed content of one kind for a single viewer.
type ContentView[T any] struct {
	Fall        []T                  `json:"fall"`
	Spring      []T                  `json:"spring"`
	All         []T                  `json:"all"`
	VisibleTabs []models.SemesterTab `json:"visible_tabs"`
	ActiveTab   models.SemesterTab   `json:"active_tab,omitempty"`
	Total       int                  `json:"total"`
}

// AttachmentView is the partitioned attachment list of a course.
type AttachmentView = ContentView[models.Attachment]

// VideoView is the partitioned video list of a course.
type VideoView = ContentView[models.Video]

// CoursePage is everything the course page renders before grades are requested.
type CoursePage struct {
	Course      CourseSummary         `json:"course"`
	Role        models.UserRole       `json:"role"`
	Plan        models.EnrollmentPlan `json:"plan,omitempty"`
	Terms       []models.Term         `json:"permitted_terms"`
	Attachments AttachmentView        `json:"attachments"`
	Videos      VideoView             `json:"videos"`
	LoadedAt    time.Time             `json:"loaded_at"`
}

// GradesView carries either the viewer's own report or the course roster.
type GradesView struct {
	Mode   string                       `json:"mode"`
	Self   *models.SelfGradeReport      `json:"self,omitempty"`
	Roster []models.StudentGradeSummary `json:"roster,omitempty"`
	// Expanded is the roster row opened for detail, if any.
	Expanded string `json:"expanded,omitempty"`
}

// Grade view modes.
const (
	GradeModeSelf   = "self"
	GradeModeRoster = "roster"
)

// TabQuery selects the active tab of a content view.
type TabQuery struct {
	Tab string `form:"tab" validate:"omitempty,oneof=fall spring all"`
}

// GradesQuery toggles the expanded roster row.
type GradesQuery struct {
	Expand string `form:"expand" validate:"omitempty,max=200"`
}

// ExportQuery selects the roster export format.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}

// LookupQuery finds a course by display name, optionally suffixed with "Year N".
type LookupQuery struct {
	Name string `form:"name" validate:"required,min=1,max=200"`
}
