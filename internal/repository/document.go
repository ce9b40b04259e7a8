package repository

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/course-portal-api/internal/models"
)

// looseString accepts JSON strings and numbers.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	*s = looseString(n.String())
	return nil
}

// looseNumber accepts JSON numbers and numeric strings; anything else reads as zero.
type looseNumber float64

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var s looseString
	if err := s.UnmarshalJSON(data); err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = looseNumber(v)
	return nil
}

// looseTime accepts RFC 3339 strings, unix seconds, and exported timestamp objects
// ({"seconds":..} or {"_seconds":..}). Unparsable values leave it unset.
type looseTime struct {
	t *time.Time
}

func (lt *looseTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				lt.t = &ts
				return nil
			}
		}
	case '{':
		var obj struct {
			Seconds      *int64 `json:"seconds"`
			UnderSeconds *int64 `json:"_seconds"`
			Nanos        int64  `json:"nanoseconds"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		secs := obj.Seconds
		if secs == nil {
			secs = obj.UnderSeconds
		}
		if secs != nil {
			ts := time.Unix(*secs, obj.Nanos).UTC()
			lt.t = &ts
		}
	default:
		var secs float64
		if err := json.Unmarshal(data, &secs); err == nil && secs > 0 {
			ts := time.Unix(int64(secs), 0).UTC()
			lt.t = &ts
		}
	}
	return nil
}

func (lt looseTime) ptr() *time.Time {
	return lt.t
}

func firstNonEmpty(values ...looseString) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(string(v)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

type courseDoc struct {
	Name                string          `json:"name"`
	NameUpper           looseString     `json:"Name"`
	Description         looseString     `json:"description"`
	DescriptionUpper    looseString     `json:"Description"`
	Section             looseString     `json:"section"`
	SectionUpper        looseString     `json:"Section"`
	Year                looseString     `json:"year"`
	YearUpper           looseString     `json:"Year"`
	Playlist            looseString     `json:"playlist"`
	PlaylistUpper       looseString     `json:"Playlist"`
	FallPlaylist        looseString     `json:"fallPlaylist"`
	FallPlaylistUpper   looseString     `json:"FallPlaylist"`
	SpringPlaylist      looseString     `json:"springPlaylist"`
	SpringPlaylistUpper looseString     `json:"SpringPlaylist"`
	Attachments         []attachmentDoc `json:"attachments"`
	AttachmentsUpper    []attachmentDoc `json:"Attachments"`
}

type attachmentDoc struct {
	ID         looseString `json:"id"`
	Name       looseString `json:"name"`
	URL        looseString `json:"url"`
	Type       looseString `json:"type"`
	Source     looseString `json:"source"`
	Path       looseString `json:"path"`
	UploadedAt looseTime   `json:"uploadedAt"`
}

func decodeCourse(id string, raw []byte) (models.Course, error) {
	var doc courseDoc
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return models.Course{}, err
		}
	}
	course := models.Course{
		ID:               id,
		Name:             firstNonEmpty(looseString(doc.Name), doc.NameUpper),
		Description:      firstNonEmpty(doc.Description, doc.DescriptionUpper),
		Section:          firstNonEmpty(doc.Section, doc.SectionUpper),
		Year:             firstNonEmpty(doc.Year, doc.YearUpper),
		PlaylistID:       firstNonEmpty(doc.Playlist, doc.PlaylistUpper),
		FallPlaylistID:   firstNonEmpty(doc.FallPlaylist, doc.FallPlaylistUpper),
		SpringPlaylistID: firstNonEmpty(doc.SpringPlaylist, doc.SpringPlaylistUpper),
	}
	attachments := doc.Attachments
	if len(attachments) == 0 {
		attachments = doc.AttachmentsUpper
	}
	course.Attachments = make([]models.Attachment, 0, len(attachments))
	for i, a := range attachments {
		attachmentID := firstNonEmpty(a.ID)
		if attachmentID == "" {
			attachmentID = strconv.Itoa(i)
		}
		course.Attachments = append(course.Attachments, models.Attachment{
			ID:         attachmentID,
			Name:       firstNonEmpty(a.Name),
			URL:        firstNonEmpty(a.URL),
			Type:       firstNonEmpty(a.Type),
			Source:     firstNonEmpty(a.Source),
			Path:       firstNonEmpty(a.Path),
			UploadedAt: a.UploadedAt.ptr(),
		})
	}
	return course, nil
}

type userDoc struct {
	UID         looseString `json:"uid"`
	StudentID   looseString `json:"studentId"`
	Email       looseString `json:"email"`
	Role        looseString `json:"role"`
	DisplayName looseString `json:"displayName"`
	FirstName   looseString `json:"FirstName"`
	LastName    looseString `json:"LastName"`
	StudentInfo *struct {
		FirstName looseString `json:"firstName"`
		LastName  looseString `json:"lastName"`
		Name      looseString `json:"name"`
		Email     looseString `json:"email"`
	} `json:"studentInfo"`
	Courses []struct {
		CourseRef       looseString `json:"courseRef"`
		Plan            looseString `json:"plan"`
		GuidanceDetails *struct {
			Plan looseString `json:"plan"`
		} `json:"guidanceDetails"`
	} `json:"courses"`
}

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	Doc          []byte `db:"doc"`
}

func decodeUser(row userRow) (models.User, error) {
	var doc userDoc
	if len(row.Doc) > 0 {
		if err := json.Unmarshal(row.Doc, &doc); err != nil {
			return models.User{}, err
		}
	}

	user := models.User{
		ID:           row.ID,
		Email:        firstNonEmpty(looseString(row.Email), doc.Email),
		PasswordHash: row.PasswordHash,
		Role:         models.UserRole(strings.ToLower(firstNonEmpty(looseString(row.Role), doc.Role))),
		DisplayName:  firstNonEmpty(doc.DisplayName),
	}
	if !user.Role.Valid() {
		user.Role = models.RoleStudent
	}

	for _, c := range doc.Courses {
		rawPlan := firstNonEmpty(c.Plan)
		if c.GuidanceDetails != nil {
			rawPlan = firstNonEmpty(c.GuidanceDetails.Plan, c.Plan)
		}
		plan, ok := models.ParseEnrollmentPlan(rawPlan)
		if !ok {
			plan = models.EnrollmentPlan(rawPlan)
		}
		user.Enrollments = append(user.Enrollments, models.CourseEnrollment{
			CourseRef: firstNonEmpty(c.CourseRef),
			Plan:      plan,
		})
	}

	student := models.StudentRecord{
		ID:              row.ID,
		UID:             firstNonEmpty(doc.UID),
		StudentID:       firstNonEmpty(doc.StudentID),
		Email:           user.Email,
		LegacyFirstName: firstNonEmpty(doc.FirstName),
		LegacyLastName:  firstNonEmpty(doc.LastName),
		DisplayName:     user.DisplayName,
	}
	if info := doc.StudentInfo; info != nil {
		student.InfoFirstName = firstNonEmpty(info.FirstName)
		student.InfoLastName = firstNonEmpty(info.LastName)
		student.InfoName = firstNonEmpty(info.Name)
		student.InfoEmail = firstNonEmpty(info.Email)
	}
	user.Student = student
	return user, nil
}

type assignmentDoc struct {
	Title          looseString `json:"title"`
	TitleUpper     looseString `json:"Title"`
	Points         looseNumber `json:"points"`
	PointsUpper    looseNumber `json:"Points"`
	MaxPoints      looseNumber `json:"maxPoints"`
	DueDate        looseTime   `json:"dueDate"`
	DueDateUpper   looseTime   `json:"DueDate"`
	CourseID       looseString `json:"courseId"`
	CourseIDUpper  looseString `json:"CourseId"`
}

func decodeAssignment(id, courseID string, raw []byte) (models.Assignment, error) {
	var doc assignmentDoc
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return models.Assignment{}, err
		}
	}
	points := float64(doc.MaxPoints)
	if points == 0 {
		points = float64(doc.PointsUpper)
	}
	if points == 0 {
		points = float64(doc.Points)
	}
	due := doc.DueDate.ptr()
	if due == nil {
		due = doc.DueDateUpper.ptr()
	}
	return models.Assignment{
		ID:        id,
		Title:     firstNonEmpty(doc.TitleUpper, doc.Title),
		CourseRef: firstNonEmpty(looseString(courseID), doc.CourseIDUpper, doc.CourseID),
		MaxPoints: points,
		DueDate:   due,
	}, nil
}

type resultDoc struct {
	Score       looseNumber `json:"score"`
	SubmittedAt looseTime   `json:"submittedAt"`
}

func decodeResult(assignmentID, studentID string, raw []byte) (models.QuizResult, error) {
	var doc resultDoc
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return models.QuizResult{}, err
		}
	}
	return models.QuizResult{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Score:        float64(doc.Score),
		SubmittedAt:  doc.SubmittedAt.ptr(),
	}, nil
}

type programDoc struct {
	ProgramID       looseString `json:"programId"`
	ProgramName     looseString `json:"programName"`
	ProgramType     looseString `json:"programType"`
	ProgramDetails  *struct {
		ImageURL looseString `json:"imageUrl"`
		Status   looseString `json:"status"`
	} `json:"programDetails"`
	ParticipantInfo *struct {
		FirstName     looseString `json:"firstName"`
		LastName      looseString `json:"lastName"`
		Email         looseString `json:"email"`
		Phone         looseString `json:"phone"`
		AttendeeCount looseNumber `json:"attendeeCount"`
	} `json:"participantInfo"`
}

func decodeProgram(id string, createdAt time.Time, raw []byte) (models.ProgramRegistration, error) {
	var doc programDoc
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return models.ProgramRegistration{}, err
		}
	}
	reg := models.ProgramRegistration{
		ID:          id,
		ProgramID:   firstNonEmpty(doc.ProgramID),
		ProgramName: firstNonEmpty(doc.ProgramName),
		ProgramType: firstNonEmpty(doc.ProgramType),
		CreatedAt:   createdAt,
	}
	if d := doc.ProgramDetails; d != nil {
		reg.ImageURL = firstNonEmpty(d.ImageURL)
		reg.Status = firstNonEmpty(d.Status)
	}
	if p := doc.ParticipantInfo; p != nil {
		reg.Participant = models.ProgramParticipant{
			FirstName:     firstNonEmpty(p.FirstName),
			LastName:      firstNonEmpty(p.LastName),
			Email:         firstNonEmpty(p.Email),
			Phone:         firstNonEmpty(p.Phone),
			AttendeeCount: int(p.AttendeeCount),
		}
	}
	return reg, nil
}
