package service

import (
	"strings"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// ResultsByAssignment maps an assignment id to every result recorded for it.
type ResultsByAssignment map[string][]models.QuizResult

// BuildSelfGrades lists the student's scored assignments in assignment order. Assignments
// without a result are omitted rather than scored zero.
func BuildSelfGrades(assignments []models.Assignment, results ResultsByAssignment, studentID string) models.SelfGradeReport {
	rows := make([]models.GradeRow, 0, len(assignments))
	if studentID != "" {
		for _, assignment := range assignments {
			for _, result := range results[assignment.ID] {
				if result.StudentID == studentID {
					rows = append(rows, gradeRow(assignment, result))
					break
				}
			}
		}
	}
	return models.SelfGradeReport{
		StudentID: studentID,
		Rows:      rows,
		Totals:    ComputeTotals(rows),
	}
}

// BuildRosterGrades returns one summary per enrolled student with at least one scored
// assignment, in roster order. Results from students outside the roster are ignored.
func BuildRosterGrades(assignments []models.Assignment, results ResultsByAssignment, students []models.StudentRecord) []models.StudentGradeSummary {
	summaries := make([]models.StudentGradeSummary, 0, len(students))
	index := make(map[string]int, len(students))
	for _, student := range students {
		key := student.Key()
		if key == "" {
			continue
		}
		if _, dup := index[key]; dup {
			continue
		}
		index[key] = len(summaries)
		summaries = append(summaries, models.StudentGradeSummary{
			StudentID:   key,
			DisplayName: ResolveDisplayName(student),
			Email:       student.ContactEmail(),
			Rows:        []models.GradeRow{},
		})
	}

	for _, assignment := range assignments {
		for _, result := range results[assignment.ID] {
			i, ok := index[result.StudentID]
			if !ok {
				continue
			}
			summaries[i].Rows = append(summaries[i].Rows, gradeRow(assignment, result))
		}
	}

	graded := summaries[:0]
	for _, summary := range summaries {
		if len(summary.Rows) == 0 {
			continue
		}
		summary.Totals = ComputeTotals(summary.Rows)
		graded = append(graded, summary)
	}
	return graded
}

// ComputeTotals sums scores and max points. The percentage stays nil unless the max
// points total is positive.
func ComputeTotals(rows []models.GradeRow) models.GradeTotals {
	var totals models.GradeTotals
	for _, row := range rows {
		totals.Score += row.Score
		totals.MaxPoints += row.MaxPoints
	}
	if totals.MaxPoints > 0 {
		pct := totals.Score / totals.MaxPoints * 100
		totals.Percentage = &pct
	}
	return totals
}

func gradeRow(assignment models.Assignment, result models.QuizResult) models.GradeRow {
	return models.GradeRow{
		AssignmentID:    assignment.ID,
		AssignmentTitle: assignment.Title,
		Score:           result.Score,
		MaxPoints:       assignment.MaxPoints,
		SubmittedAt:     result.SubmittedAt,
	}
}

// UnknownStudentName is returned when no field of a record yields a name.
const UnknownStudentName = "Unknown"

// ResolveDisplayName picks a human name for a roster record. It never returns "".
func ResolveDisplayName(student models.StudentRecord) string {
	first := strings.TrimSpace(student.InfoFirstName)
	last := strings.TrimSpace(student.InfoLastName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	}
	if name := strings.TrimSpace(student.InfoName); name != "" {
		return name
	}

	if email := strings.TrimSpace(student.Email); email != "" && !isIdentifier(email, student) {
		return email
	}

	if legacy := strings.TrimSpace(strings.TrimSpace(student.LegacyFirstName) + " " + strings.TrimSpace(student.LegacyLastName)); legacy != "" {
		return legacy
	}
	if display := strings.TrimSpace(student.DisplayName); display != "" {
		return display
	}
	if uid := strings.TrimSpace(student.UID); strings.Contains(uid, "@") && !strings.Contains(uid, "ID:") {
		return uid
	}
	return UnknownStudentName
}

func isIdentifier(value string, student models.StudentRecord) bool {
	if strings.Contains(value, "ID:") {
		return true
	}
	for _, id := range []string{student.UID, student.ID, student.StudentID} {
		if id != "" && strings.Contains(id, value) {
			return true
		}
	}
	return false
}

// RosterExpansion tracks the single expanded row of a roster grade table.
type RosterExpansion struct {
	expanded string
}

// Toggle expands studentID, collapsing any other row. Toggling the expanded row
// collapses it.
func (r *RosterExpansion) Toggle(studentID string) {
	if r.expanded == studentID {
		r.expanded = ""
		return
	}
	r.expanded = studentID
}

// Expanded returns the expanded student id, if any.
func (r *RosterExpansion) Expanded() (string, bool) {
	return r.expanded, r.expanded != ""
}

// IsExpanded reports whether studentID is the expanded row.
func (r *RosterExpansion) IsExpanded(studentID string) bool {
	return studentID != "" && r.expanded == studentID
}
