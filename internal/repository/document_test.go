package repository

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/models"
)

func TestLooseTimeFormats(t *testing.T) {
	want := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	cases := map[string]string{
		"rfc3339":        `"2024-09-15T00:00:00Z"`,
		"date only":      `"2024-09-15"`,
		"seconds object": `{"seconds":1726358400,"nanoseconds":0}`,
		"admin export":   `{"_seconds":1726358400,"_nanoseconds":0}`,
		"unix number":    `1726358400`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var lt looseTime
			require.NoError(t, json.Unmarshal([]byte(raw), &lt))
			require.NotNil(t, lt.ptr())
			assert.True(t, want.Equal(*lt.ptr()))
		})
	}

	var empty looseTime
	require.NoError(t, json.Unmarshal([]byte(`"not a date"`), &empty))
	assert.Nil(t, empty.ptr())
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.Nil(t, empty.ptr())
}

func TestDecodeUserNameSources(t *testing.T) {
	doc := `{"uid":"uid-1","FirstName":" Grace ","LastName":"Hopper","displayName":"GH","courses":[{"courseRef":"courses/c9","guidanceDetails":{"plan":"Semester Abroad"}}]}`
	user, err := decodeUser(userRow{ID: "doc-1", Email: "grace@example.com", Role: "ADMIN", Doc: []byte(doc)})
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "uid-1", user.Student.Key())
	assert.Equal(t, "Grace", user.Student.LegacyFirstName)
	assert.Equal(t, "GH", user.Student.DisplayName)
	require.Len(t, user.Enrollments, 1)
	assert.Equal(t, models.EnrollmentPlan("Semester Abroad"), user.Enrollments[0].Plan)
	assert.False(t, user.Enrollments[0].Plan.Known())
}

func TestDecodeUserDefaultsRole(t *testing.T) {
	user, err := decodeUser(userRow{ID: "u1", Role: "guest"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Empty(t, user.Enrollments)
}

func TestDecodeCourseAssignsAttachmentIDs(t *testing.T) {
	course, err := decodeCourse("c1", []byte(`{"attachments":[{"name":"Week 1"},{"id":"x","name":"Week 2"}]}`))
	require.NoError(t, err)
	require.Len(t, course.Attachments, 2)
	assert.Equal(t, "0", course.Attachments[0].ID)
	assert.Equal(t, "x", course.Attachments[1].ID)
}
