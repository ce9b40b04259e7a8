package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
)

func TestAccessResolveAdminSkipsLookup(t *testing.T) {
	users := &fakeUsers{}
	svc := NewAccessService(users, PlanPolicy{}, nil)

	access, err := svc.Resolve(context.Background(), models.Viewer{UserID: "admin", Role: models.RoleAdmin}, "c1")
	require.NoError(t, err)
	assert.True(t, access.Permitted.Unrestricted())
	assert.Zero(t, users.calls)
}

func TestAccessResolveStudentPlan(t *testing.T) {
	users := &fakeUsers{byID: map[string]*models.User{
		"s1": enrolledUser("s1", models.PlanFallOnly, "courses/c1"),
	}}
	svc := NewAccessService(users, PlanPolicy{}, nil)

	access, err := svc.Resolve(context.Background(), models.Viewer{UserID: "s1", Role: models.RoleStudent}, "c1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanFallOnly, access.Plan)
	assert.Equal(t, []models.Term{models.TermFall}, access.Permitted.Concrete())
}

func TestAccessResolveUnknownPlanPolicy(t *testing.T) {
	users := &fakeUsers{byID: map[string]*models.User{
		"s1": enrolledUser("s1", models.EnrollmentPlan("Winter Intensive"), "courses/c1"),
	}}
	viewer := models.Viewer{UserID: "s1", Role: models.RoleStudent}

	open, err := NewAccessService(users, PlanPolicy{}, nil).Resolve(context.Background(), viewer, "c1")
	require.NoError(t, err)
	assert.True(t, open.Permitted.Unrestricted())

	closed, err := NewAccessService(users, PlanPolicy{FailClosed: true}, nil).Resolve(context.Background(), viewer, "c1")
	require.NoError(t, err)
	assert.True(t, closed.Permitted.Denied())
}

func TestAccessResolveErrors(t *testing.T) {
	viewer := models.Viewer{UserID: "ghost", Role: models.RoleStudent}

	_, err := NewAccessService(&fakeUsers{}, PlanPolicy{}, nil).Resolve(context.Background(), viewer, "c1")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)

	_, err = NewAccessService(&fakeUsers{err: errors.New("boom")}, PlanPolicy{}, nil).Resolve(context.Background(), viewer, "c1")
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
