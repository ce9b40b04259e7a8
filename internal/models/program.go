package models

import "time"

// ProgramParticipant is the contact attached to a program registration.
type ProgramParticipant struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	AttendeeCount int    `json:"attendee_count"`
}

// ProgramRegistration is a single sign-up for a program.
type ProgramRegistration struct {
	ID          string             `json:"id"`
	ProgramID   string             `json:"program_id,omitempty"`
	ProgramName string             `json:"program_name"`
	ProgramType string             `json:"program_type,omitempty"`
	ImageURL    string             `json:"image_url,omitempty"`
	Status      string             `json:"status,omitempty"`
	Participant ProgramParticipant `json:"participant"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ProgramStats aggregates registrations sharing a program name.
type ProgramStats struct {
	ProgramName        string               `json:"program_name"`
	ProgramType        string               `json:"program_type"`
	ImageURL           string               `json:"image_url,omitempty"`
	Status             string               `json:"status"`
	TotalRegistrations int                  `json:"total_registrations"`
	TotalAttendees     int                  `json:"total_attendees"`
	Participants       []ProgramParticipant `json:"participants"`
}
