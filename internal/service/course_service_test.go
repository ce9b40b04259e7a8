package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

func courseFixtures() *fakeCourses {
	return &fakeCourses{courses: []models.Course{
		{ID: "c1", Name: "Biology", Year: "1"},
		{ID: "c2", Name: "Biology", Year: "1"},
		{ID: "c3", Name: "Biology", Year: "2"},
		{ID: "c4", Name: "Associates Program", Year: "1"},
	}}
}

func TestCourseListAdminSeesAllDeduplicated(t *testing.T) {
	svc := NewCourseService(courseFixtures(), &fakeUsers{}, nil)

	courses, err := svc.List(context.Background(), models.Viewer{UserID: "a", Role: models.RoleAdmin})
	require.NoError(t, err)
	ids := make([]string, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"c1", "c3", "c4"}, ids)
}

func TestCourseListStudentSeesEnrolled(t *testing.T) {
	users := &fakeUsers{byID: map[string]*models.User{
		"s1": enrolledUser("s1", models.PlanSpringOnly, "courses/c3", "c4"),
	}}
	svc := NewCourseService(courseFixtures(), users, nil)

	courses, err := svc.List(context.Background(), models.Viewer{UserID: "s1", Role: models.RoleStudent})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "c3", courses[0].ID)
	assert.Equal(t, models.PlanSpringOnly, courses[0].Plan)
	assert.Equal(t, "c4", courses[1].ID)
}

func TestCourseGetNotFound(t *testing.T) {
	svc := NewCourseService(courseFixtures(), &fakeUsers{}, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseFindByNameWithYear(t *testing.T) {
	svc := NewCourseService(courseFixtures(), &fakeUsers{}, nil)

	course, err := svc.FindByName(context.Background(), "Biology - Year 2")
	require.NoError(t, err)
	assert.Equal(t, "c3", course.ID)

	course, err = svc.FindByName(context.Background(), "Biology")
	require.NoError(t, err)
	assert.Equal(t, "c1", course.ID)

	_, err = svc.FindByName(context.Background(), "Biology year 9")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.FindByName(context.Background(), "  Year 3")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSplitCourseName(t *testing.T) {
	cases := map[string][2]string{
		"Chemistry - Year 1": {"Chemistry", "1"},
		"Chemistry Year 12":  {"Chemistry", "12"},
		"chemistry":          {"chemistry", ""},
	}
	for input, want := range cases {
		base, year := splitCourseName(input)
		assert.Equal(t, want[0], base, input)
		assert.Equal(t, want[1], year, input)
	}
}
