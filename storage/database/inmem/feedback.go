package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/fatimaschool/website/core/feedback"
)

type feedbackRepository struct {
	db *feedbackTable
}

var _ feedback.Repository = (*feedbackRepository)(nil)

func NewFeedbackRepository(db *DB) feedback.Repository {
	return &feedbackRepository{db: db.feedback}
}

func (repo *feedbackRepository) QueryAllFeedback(_ context.Context) ([]feedback.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	msgs := make([]feedback.Message, len(repo.db.rows))
	copy(msgs, repo.db.rows)
	sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].CreatedAt.After(msgs[j].CreatedAt) })
	return msgs, nil
}

func (repo *feedbackRepository) GetFeedback(_ context.Context, id string) (feedback.Message, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if i := repo.index(id); i >= 0 {
		return repo.db.rows[i], nil
	}
	return feedback.Message{}, feedback.ErrNotFound
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, msg feedback.Message) (feedback.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	msg.ID = uuid.New().String()
	repo.db.rows = append(repo.db.rows, msg)
	return msg, nil
}

func (repo *feedbackRepository) DeleteFeedback(_ context.Context, id string) (feedback.Message, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	i := repo.index(id)
	if i < 0 {
		return feedback.Message{}, feedback.ErrNotFound
	}
	msg := repo.db.rows[i]
	repo.db.rows = append(repo.db.rows[:i:i], repo.db.rows[i+1:]...)
	return msg, nil
}

func (repo *feedbackRepository) index(id string) int {
	for i, msg := range repo.db.rows {
		if msg.ID == id {
			return i
		}
	}
	return -1
}
