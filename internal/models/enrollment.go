package models

import "strings"

// EnrollmentPlan is a student's subscribed coverage window for a course.
type EnrollmentPlan string

// Recognized plans. PlanUnset marks administrators or missing enrollment data.
const (
	PlanUnset      EnrollmentPlan = ""
	PlanFullYear   EnrollmentPlan = "FULL_YEAR"
	PlanFallOnly   EnrollmentPlan = "FALL_ONLY"
	PlanSpringOnly EnrollmentPlan = "SPRING_ONLY"
)

// Known reports whether the plan is one of the four recognized values.
func (p EnrollmentPlan) Known() bool {
	switch p {
	case PlanUnset, PlanFullYear, PlanFallOnly, PlanSpringOnly:
		return true
	default:
		return false
	}
}

// ParseEnrollmentPlan maps stored plan labels ("Full Year", "Fall Semester",
// "Spring Semester") and canonical constants onto EnrollmentPlan. The boolean is
// false for unrecognized input, in which case the raw value is returned unchanged.
func ParseEnrollmentPlan(raw string) (EnrollmentPlan, bool) {
	normalized := strings.ToUpper(strings.Join(strings.Fields(strings.ReplaceAll(raw, "_", " ")), " "))
	switch normalized {
	case "":
		return PlanUnset, true
	case "FULL YEAR":
		return PlanFullYear, true
	case "FALL SEMESTER", "FALL ONLY", "FALL":
		return PlanFallOnly, true
	case "SPRING SEMESTER", "SPRING ONLY", "SPRING":
		return PlanSpringOnly, true
	default:
		return EnrollmentPlan(raw), false
	}
}

// CourseEnrollment links a user document to a course with an optional plan.
type CourseEnrollment struct {
	CourseRef string         `json:"course_ref"`
	Plan      EnrollmentPlan `json:"plan,omitempty"`
}

// CourseID extracts the document id from references such as "courses/<id>".
func (e CourseEnrollment) CourseID() string {
	ref := strings.TrimSpace(e.CourseRef)
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		return ref[idx+1:]
	}
	return ref
}

// Matches reports whether the enrollment references courseID using the tolerant
// matching stored references require.
func (e CourseEnrollment) Matches(courseID string) bool {
	ref := strings.TrimSpace(e.CourseRef)
	if ref == "" || courseID == "" {
		return false
	}
	if ref == "courses/"+courseID || ref == courseID {
		return true
	}
	if strings.Contains(ref, courseID) {
		return true
	}
	if parts := strings.Split(ref, "/"); len(parts) > 1 && parts[1] != "" {
		return strings.Contains(courseID, parts[1])
	}
	return false
}
