package models

// StudentRecord is a roster entry with every name and contact field a user document
// may carry. Empty strings mean the field was absent.
type StudentRecord struct {
	ID        string `json:"id"`
	UID       string `json:"uid,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	Email     string `json:"email,omitempty"`

	InfoFirstName string `json:"info_first_name,omitempty"`
	InfoLastName  string `json:"info_last_name,omitempty"`
	InfoName      string `json:"info_name,omitempty"`
	InfoEmail     string `json:"info_email,omitempty"`

	LegacyFirstName string `json:"legacy_first_name,omitempty"`
	LegacyLastName  string `json:"legacy_last_name,omitempty"`
	DisplayName     string `json:"display_name,omitempty"`

	Plan EnrollmentPlan `json:"plan,omitempty"`
}

// Key is the identifier results are keyed by: uid, then document id, then student id.
func (s StudentRecord) Key() string {
	switch {
	case s.UID != "":
		return s.UID
	case s.ID != "":
		return s.ID
	default:
		return s.StudentID
	}
}

// ContactEmail prefers the student info email over the account email.
func (s StudentRecord) ContactEmail() string {
	if s.InfoEmail != "" {
		return s.InfoEmail
	}
	return s.Email
}
