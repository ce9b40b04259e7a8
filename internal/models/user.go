package models

// UserRole represents the roles understood by the portal.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

// Valid reports whether the role is one of the supported roles.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// User is the canonical shape of a user document after normalization.
type User struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"-"`
	DisplayName  string             `json:"display_name,omitempty"`
	Role         UserRole           `json:"role"`
	Enrollments  []CourseEnrollment `json:"enrollments,omitempty"`
	Student      StudentRecord      `json:"-"`
}

// EnrollmentFor returns the first enrollment that references courseID.
func (u User) EnrollmentFor(courseID string) (CourseEnrollment, bool) {
	for _, enrollment := range u.Enrollments {
		if enrollment.Matches(courseID) {
			return enrollment, true
		}
	}
	return CourseEnrollment{}, false
}

// CourseIDs lists the course document ids the user is enrolled in, in stored order.
func (u User) CourseIDs() []string {
	ids := make([]string, 0, len(u.Enrollments))
	for _, enrollment := range u.Enrollments {
		if id := enrollment.CourseID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Viewer is the capability resolved once per request from the authenticated identity.
type Viewer struct {
	UserID string
	Role   UserRole
}

// IsAdmin reports whether the viewer holds the admin role.
func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
