package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
	"github.com/noah-isme/course-portal-api/pkg/jobs"
	"github.com/noah-isme/course-portal-api/pkg/mailer"
)

type flakyMailer struct {
	failFor map[string]bool
	sent    []mailer.Message
}

func (m *flakyMailer) Send(ctx context.Context, msg mailer.Message) error {
	if len(msg.To) == 1 && m.failFor[msg.To[0].Email] {
		return errors.New("rejected")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func welcomeRoster() *RosterService {
	withInfo := enrolledUser("s1", models.PlanFullYear, "courses/c1")
	withInfo.Student.InfoEmail = "ada@school.org"
	withInfo.Student.InfoFirstName = "Ada"
	noEmail := enrolledUser("s2", models.PlanFullYear, "courses/c1")
	noEmail.Email = ""
	noEmail.Student.Email = ""
	plain := enrolledUser("s3", models.PlanFallOnly, "courses/c1")
	return NewRosterService(&fakeUsers{roster: []models.User{*withInfo, *noEmail, *plain}}, nil)
}

func TestWelcomeEmailRecipientsPreferStudentInfo(t *testing.T) {
	svc := NewWelcomeEmailService(welcomeRoster(), mailer.NewConsole(nil), nil, nil)

	recipients, err := svc.Recipients(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, []mailer.Address{
		{Email: "ada@school.org", Name: "Ada"},
		{Email: "s3@example.com", Name: "s3@example.com"},
	}, recipients)
}

func TestWelcomeEmailSendEnqueuesBatch(t *testing.T) {
	queue := &fakeQueue{}
	svc := NewWelcomeEmailService(welcomeRoster(), mailer.NewConsole(nil), nil, nil)
	svc.SetQueue(queue)

	result, err := svc.Send(context.Background(), models.Course{ID: "c1", Name: "Associates Program"})
	require.NoError(t, err)
	assert.Equal(t, "job-1", result.JobID)
	assert.Equal(t, 2, result.Recipients)
	assert.True(t, result.Personalized)

	require.Len(t, queue.submitted, 1)
	batch := queue.submitted[0].(WelcomeEmailBatch)
	assert.Equal(t, "c1", batch.CourseID)

	status, err := svc.Status("job-1")
	require.NoError(t, err)
	assert.Equal(t, jobs.StatePending, status.State)

	_, err = svc.Status("other")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWelcomeEmailSendWithoutRecipients(t *testing.T) {
	svc := NewWelcomeEmailService(NewRosterService(&fakeUsers{}, nil), mailer.NewConsole(nil), nil, nil)
	svc.SetQueue(&fakeQueue{})

	_, err := svc.Send(context.Background(), models.Course{ID: "c1"})
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestWelcomeEmailSendWithoutQueue(t *testing.T) {
	svc := NewWelcomeEmailService(welcomeRoster(), mailer.NewConsole(nil), nil, nil)

	_, err := svc.Send(context.Background(), models.Course{ID: "c1"})
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}

func TestWelcomeEmailDeliverBulk(t *testing.T) {
	console := mailer.NewConsole(nil)
	metrics := NewMetricsService()
	svc := NewWelcomeEmailService(nil, console, metrics, nil)

	batch := WelcomeEmailBatch{CourseID: "c1", CourseName: "Guidance", Recipients: []mailer.Address{{Email: "a@x.org"}, {Email: "b@x.org"}}}
	require.NoError(t, svc.Deliver(context.Background(), jobs.Job{ID: "j1", Payload: batch}))

	sent := console.Sent()
	require.Len(t, sent, 1)
	assert.Len(t, sent[0].Bcc, 2)
	assert.Empty(t, sent[0].To)
	assert.Equal(t, "Welcome to Guidance", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "<strong>Guidance</strong>")
}

func TestWelcomeEmailDeliverPersonalizedPartialFailure(t *testing.T) {
	mail := &flakyMailer{failFor: map[string]bool{"b@x.org": true}}
	svc := NewWelcomeEmailService(nil, mail, nil, nil)
	batch := WelcomeEmailBatch{
		CourseID:     "c1",
		CourseName:   "Associates",
		Personalized: true,
		Recipients:   []mailer.Address{{Email: "a@x.org", Name: "Amal"}, {Email: "b@x.org", Name: "Bilal"}},
	}

	require.NoError(t, svc.Deliver(context.Background(), jobs.Job{ID: "j1", Payload: batch}))
	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].HTML, "Dear Amal")

	mail.failFor["a@x.org"] = true
	mail.sent = nil
	assert.Error(t, svc.Deliver(context.Background(), jobs.Job{ID: "j2", Payload: batch}))
}

func TestWelcomeEmailDeliverRejectsUnknownPayload(t *testing.T) {
	svc := NewWelcomeEmailService(nil, mailer.NewConsole(nil), nil, nil)
	assert.Error(t, svc.Deliver(context.Background(), jobs.Job{ID: "j1", Payload: "nope"}))
}
