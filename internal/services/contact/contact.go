package contact

import (
	"cinevault/proj/internal/domain/models"
	"cinevault/proj/internal/mails"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type ContactStorage interface {
	InsertContact(ctx context.Context, submission *models.ContactSubmission) error
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(name string, task func()) error
}

type ContactService struct {
	log          *slog.Logger
	storage      ContactStorage
	mailer       MailProvider
	taskExecutor TaskExecutor
	supportEmail string
	now          func() time.Time
}

// New builds the contact service. With a nil mailer submissions are only stored.
func New(
	log *slog.Logger,
	storage ContactStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	supportEmail string,
) *ContactService {
	return &ContactService{
		log:          log,
		storage:      storage,
		mailer:       mailer,
		taskExecutor: taskExecutor,
		supportEmail: supportEmail,
		now:          time.Now,
	}
}

type SubmitParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// Submit stores the message under a fresh id and returns that id.
func (s *ContactService) Submit(ctx context.Context, params SubmitParams) (string, error) {
	const op = "contact.ContactService.Submit"
	submission := &models.ContactSubmission{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Email:       params.Email,
		Subject:     params.Subject,
		Message:     params.Message,
		SubmittedAt: s.now().UTC(),
	}
	log := s.log.With("op", op, "submission_id", submission.ID)
	if err := s.storage.InsertContact(ctx, submission); err != nil {
		log.Error(err.Error())
		return "", err
	}
	log.Info("contact submission stored")
	s.notifySupport(log, submission)
	return submission.ID, nil
}

func (s *ContactService) notifySupport(log *slog.Logger, submission *models.ContactSubmission) {
	if s.mailer == nil || s.taskExecutor == nil || s.supportEmail == "" {
		return
	}
	data := map[string]any{
		"submissionID": submission.ID,
		"subject":      submission.Subject,
		"name":         submission.Name,
		"email":        submission.Email,
		"message":      submission.Message,
		"submittedAt":  submission.SubmittedAt.Format(time.RFC1123),
	}
	err := s.taskExecutor.Add("contact notification", func() {
		if err := s.mailer.Send(s.supportEmail, mails.ContactNotifyTemplate, data); err != nil {
			log.Error("Error sending contact notification", "errMsg", err.Error())
		}
	})
	if err != nil {
		log.Warn("contact notification not queued", "errMsg", err.Error())
	}
}
