package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

func TestRosterStudents(t *testing.T) {
	ana := enrolledUser("ana", models.PlanSpringOnly, "courses/c1")
	ana.Student.InfoFirstName = "Ana"
	ana.Student.InfoLastName = "Lee"
	ana.Student.InfoEmail = "ana.lee@school.test"
	other := enrolledUser("ben", models.PlanFullYear, "courses/c2")
	users := &fakeUsers{roster: []models.User{*ana, *other}}

	students, err := NewRosterService(users, nil).Students(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ana", students[0].ID)
	assert.Equal(t, "Ana Lee", students[0].DisplayName)
	assert.Equal(t, "ana.lee@school.test", students[0].Email)
	assert.Equal(t, models.PlanSpringOnly, students[0].Plan)
}

func TestRosterStudentsFallsBackToAccountEmail(t *testing.T) {
	svc := NewRosterService(&fakeUsers{roster: []models.User{
		*enrolledUser("s1", models.PlanSpringOnly, "courses/c1"),
		*enrolledUser("s2", models.PlanFullYear, "courses/c2"),
	}}, nil)

	students, err := svc.Students(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
	assert.Equal(t, "s1@example.com", students[0].DisplayName)
	assert.Equal(t, models.PlanSpringOnly, students[0].Plan)
}

func TestRosterRecordsWrapsFailure(t *testing.T) {
	users := &fakeUsers{err: errors.New("connection reset")}

	_, err := NewRosterService(users, nil).Records(context.Background(), "c1")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, appErrors.FromError(err).Status)
}
