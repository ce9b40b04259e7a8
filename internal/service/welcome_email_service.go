package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/course-portal-api/internal/dto"
	"github.com/noah-isme/course-portal-api/internal/models"
	appErrors "github.com/noah-isme/course-portal-api/pkg/errors"
	"github.com/noah-isme/course-portal-api/pkg/jobs"
	"github.com/noah-isme/course-portal-api/pkg/mailer"
)

// WelcomeEmailJobKind labels welcome email jobs on the queue.
const WelcomeEmailJobKind = "welcome_email"

type jobQueue interface {
	Submit(kind string, payload interface{}) (string, error)
	Status(id string) (jobs.Status, bool)
}

// WelcomeEmailBatch is the queued payload: the course plus the resolved recipients.
type WelcomeEmailBatch struct {
	CourseID     string
	CourseName   string
	Personalized bool
	Recipients   []mailer.Address
}

var welcomeHTML = template.Must(template.New("welcome").Parse(
	`<p>{{if .Name}}Dear {{.Name}},{{else}}Hello,{{end}}</p>` +
		`<p>Welcome to <strong>{{.Course}}</strong>. Your course materials, videos and grades are now available in the portal.</p>` +
		`<p>We look forward to learning with you.</p>`))

// WelcomeEmailService resolves welcome email recipients and delivers them in the background.
type WelcomeEmailService struct {
	roster  rosterSource
	queue   jobQueue
	mail    mailer.Mailer
	metrics *MetricsService
	logger  *zap.Logger
}

// NewWelcomeEmailService constructs a WelcomeEmailService. Call SetQueue before Send.
func NewWelcomeEmailService(roster rosterSource, mail mailer.Mailer, metrics *MetricsService, logger *zap.Logger) *WelcomeEmailService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WelcomeEmailService{roster: roster, mail: mail, metrics: metrics, logger: logger}
}

// SetQueue attaches the queue whose handler is Deliver.
func (s *WelcomeEmailService) SetQueue(queue jobQueue) {
	s.queue = queue
}

// Recipients lists the enrolled students that can be reached, with a display name each.
// The student info email wins over the account email.
func (s *WelcomeEmailService) Recipients(ctx context.Context, courseID string) ([]mailer.Address, error) {
	records, err := s.roster.Records(ctx, courseID)
	if err != nil {
		return nil, err
	}
	recipients := make([]mailer.Address, 0, len(records))
	for _, record := range records {
		email := strings.TrimSpace(record.ContactEmail())
		if email == "" {
			continue
		}
		recipients = append(recipients, mailer.Address{Email: email, Name: ResolveDisplayName(record)})
	}
	return recipients, nil
}

// Send enqueues welcome emails for everyone enrolled in course. Associate program
// courses get one personalized message per student; others get one blind-copied message.
func (s *WelcomeEmailService) Send(ctx context.Context, course models.Course) (*dto.WelcomeEmailResult, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrUnavailable, "email queue is not running")
	}
	recipients, err := s.Recipients(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	if len(recipients) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no valid email addresses found for enrolled students")
	}

	batch := WelcomeEmailBatch{
		CourseID:     course.ID,
		CourseName:   course.Name,
		Personalized: course.IsAssociate(),
		Recipients:   recipients,
	}
	jobID, err := s.queue.Submit(WelcomeEmailJobKind, batch)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "failed to enqueue welcome emails")
	}

	s.logger.Info("welcome emails enqueued",
		zap.String("job_id", jobID),
		zap.String("course_id", course.ID),
		zap.Int("recipients", len(recipients)),
		zap.Bool("personalized", batch.Personalized),
	)
	return &dto.WelcomeEmailResult{
		JobID:        jobID,
		CourseID:     course.ID,
		Recipients:   len(recipients),
		Personalized: batch.Personalized,
	}, nil
}

// Status reports the progress of a welcome email job.
func (s *WelcomeEmailService) Status(jobID string) (*dto.JobStatusView, error) {
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "job not found")
	}
	status, ok := s.queue.Status(jobID)
	if !ok || status.Kind != WelcomeEmailJobKind {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "job not found")
	}
	return &status, nil
}

// Deliver is the queue handler that sends a WelcomeEmailBatch.
func (s *WelcomeEmailService) Deliver(ctx context.Context, job jobs.Job) error {
	batch, ok := job.Payload.(WelcomeEmailBatch)
	if !ok {
		s.metrics.RecordEmail("invalid")
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}

	messages, err := composeWelcome(batch)
	if err != nil {
		s.metrics.RecordEmail("failed")
		return err
	}
	// Only a batch where every message failed is returned for retry.
	var failed int
	var lastErr error
	for _, msg := range messages {
		if err := s.mail.Send(ctx, msg); err != nil {
			failed++
			lastErr = err
			s.logger.Warn("welcome email failed", zap.String("job_id", job.ID), zap.String("course_id", batch.CourseID), zap.Error(err))
			continue
		}
		s.metrics.RecordEmail("sent")
	}
	if failed > 0 {
		s.metrics.RecordEmail("failed")
		if failed == len(messages) {
			return fmt.Errorf("send welcome email for %s: %w", batch.CourseID, lastErr)
		}
	}
	return nil
}

func composeWelcome(batch WelcomeEmailBatch) ([]mailer.Message, error) {
	subject := "Welcome to " + batch.CourseName
	if !batch.Personalized {
		html, err := renderWelcome("", batch.CourseName)
		if err != nil {
			return nil, err
		}
		return []mailer.Message{{
			Bcc:     batch.Recipients,
			Subject: subject,
			Text:    fmt.Sprintf("Welcome to %s. Your course materials are now available in the portal.", batch.CourseName),
			HTML:    html,
		}}, nil
	}

	messages := make([]mailer.Message, 0, len(batch.Recipients))
	for _, recipient := range batch.Recipients {
		html, err := renderWelcome(recipient.Name, batch.CourseName)
		if err != nil {
			return nil, err
		}
		messages = append(messages, mailer.Message{
			To:      []mailer.Address{recipient},
			Subject: subject,
			Text:    fmt.Sprintf("Dear %s, welcome to %s. Your course materials are now available in the portal.", recipient.Name, batch.CourseName),
			HTML:    html,
		})
	}
	return messages, nil
}

func renderWelcome(name, course string) (string, error) {
	var buf bytes.Buffer
	if err := welcomeHTML.Execute(&buf, struct{ Name, Course string }{name, course}); err != nil {
		return "", fmt.Errorf("render welcome template: %w", err)
	}
	return buf.String(), nil
}
