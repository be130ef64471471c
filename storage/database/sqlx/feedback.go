package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core/feedback"
)

const feedbackColumns = "id, full_name, email, subject, message, created_at, updated_at"

type feedbackRepository struct {
	db *sqlx.DB
}

var _ feedback.Repository = (*feedbackRepository)(nil)

func NewFeedbackRepository(db *sqlx.DB) feedback.Repository {
	return &feedbackRepository{db: db}
}

func (repo *feedbackRepository) QueryAllFeedback(ctx context.Context) ([]feedback.Message, error) {
	msgs := make([]feedback.Message, 0)
	q := "SELECT " + feedbackColumns + " FROM user_feedback ORDER BY created_at DESC"
	if err := repo.db.SelectContext(ctx, &msgs, q); err != nil {
		return nil, errors.Wrap(err, "selecting feedback")
	}
	return msgs, nil
}

func (repo *feedbackRepository) GetFeedback(ctx context.Context, id string) (feedback.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return feedback.Message{}, feedback.ErrNotFound
	}

	var msg feedback.Message
	q := "SELECT " + feedbackColumns + " FROM user_feedback WHERE id = $1"
	if err := repo.db.GetContext(ctx, &msg, q, id); err != nil {
		if err == sql.ErrNoRows {
			return feedback.Message{}, feedback.ErrNotFound
		}
		return feedback.Message{}, errors.Wrap(err, "selecting feedback")
	}
	return msg, nil
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, msg feedback.Message) (feedback.Message, error) {
	var created feedback.Message
	q := `INSERT INTO user_feedback (full_name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + feedbackColumns
	row := repo.db.QueryRowxContext(ctx, q, msg.FullName, msg.Email, msg.Subject, msg.Message, msg.CreatedAt)
	if err := row.StructScan(&created); err != nil {
		return feedback.Message{}, errors.Wrap(err, "inserting feedback")
	}
	return created, nil
}

func (repo *feedbackRepository) DeleteFeedback(ctx context.Context, id string) (feedback.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return feedback.Message{}, feedback.ErrNotFound
	}

	var deleted feedback.Message
	q := "DELETE FROM user_feedback WHERE id = $1 RETURNING " + feedbackColumns
	if err := repo.db.QueryRowxContext(ctx, q, id).StructScan(&deleted); err != nil {
		if err == sql.ErrNoRows {
			return feedback.Message{}, feedback.ErrNotFound
		}
		return feedback.Message{}, errors.Wrap(err, "deleting feedback")
	}
	return deleted, nil
}
