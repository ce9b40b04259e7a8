package dto

import (
	"github.com/noah-isme/course-portal-api/internal/models"
	"github.com/noah-isme/course-portal-api/pkg/jobs"
)

// StudentView is one enrolled student on a course roster.
type StudentView struct {
	ID          string                `json:"id"`
	DisplayName string                `json:"display_name"`
	Email       string                `json:"email,omitempty"`
	Plan        models.EnrollmentPlan `json:"plan,omitempty"`
}

// WelcomeEmailResult acknowledges an enqueued welcome email batch.
type WelcomeEmailResult struct {
	JobID        string `json:"job_id"`
	CourseID     string `json:"course_id"`
	Recipients   int    `json:"recipients"`
	Personalized bool   `json:"personalized"`
}

// JobStatusView reports the progress of a background job.
type JobStatusView = jobs.Status
