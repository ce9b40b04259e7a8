package models

import "time"

// Assignment is a gradable unit defined for a course.
type Assignment struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	CourseRef string     `json:"course_ref"`
	MaxPoints float64    `json:"max_points"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}

// QuizResult is one student's submission for an assignment.
type QuizResult struct {
	AssignmentID string     `json:"assignment_id"`
	StudentID    string     `json:"student_id"`
	Score        float64    `json:"score"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
}
