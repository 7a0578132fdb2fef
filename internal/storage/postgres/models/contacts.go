package models

import (
	"cinevault/proj/internal/domain/models"
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ContactModel struct {
	DB *pgxpool.Pool
}

func (m *ContactModel) InsertContact(ctx context.Context, s *models.ContactSubmission) error {
	_, err := m.DB.Exec(
		ctx,
		`INSERT INTO contact_submissions (submission_id, name, email, subject, message, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.Email, s.Subject, s.Message, s.SubmittedAt,
	)
	return err
}
