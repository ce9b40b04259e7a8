package models

import "time"

// GradeRow is one assignment's scored result for one student.
type GradeRow struct {
	AssignmentID    string     `json:"assignment_id"`
	AssignmentTitle string     `json:"assignment_title"`
	Score           float64    `json:"score"`
	MaxPoints       float64    `json:"max_points"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
}

// Percentage is nil when the assignment has no positive max points.
func (r GradeRow) Percentage() *float64 {
	return percentOf(r.Score, r.MaxPoints)
}

// GradeTotals sums a list of rows. Percentage is nil when MaxPoints is not positive.
type GradeTotals struct {
	Score      float64  `json:"score"`
	MaxPoints  float64  `json:"max_points"`
	Percentage *float64 `json:"percentage"`
}

// SelfGradeReport is the signed-in student's own grade table.
type SelfGradeReport struct {
	StudentID string      `json:"student_id"`
	Rows      []GradeRow  `json:"rows"`
	Totals    GradeTotals `json:"totals"`
}

// StudentGradeSummary is one roster entry in the admin grade view.
type StudentGradeSummary struct {
	StudentID   string      `json:"student_id"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email,omitempty"`
	Rows        []GradeRow  `json:"rows"`
	Totals      GradeTotals `json:"totals"`
}

func percentOf(score, max float64) *float64 {
	if max <= 0 {
		return nil
	}
	pct := score / max * 100
	return &pct
}
