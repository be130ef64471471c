package testutil

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/feedback"
	"github.com/fatimaschool/website/core/gallery"
	logsvc "github.com/fatimaschool/website/services/logger"
)

// NewLogger returns a logger that neither prints nor reports.
func NewLogger() core.Logger {
	logger := logsvc.NewRollbarLogger(io.Discard, "TEST", core.NewTestConfig())
	logger.Enable(false)
	return logger
}

func CreateFeedback(
	t *testing.T,
	repo feedback.Repository,
	name, email, subject, message string,
	createdAt ...time.Time,
) feedback.Message {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	msg, err := repo.CreateFeedback(context.Background(), feedback.Message{
		FullName:  name,
		Email:     email,
		Subject:   subject,
		Message:   message,
		CreatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createFeedback() failed: %v", err)
	}
	return msg
}

func CreateGalleryItem(
	t *testing.T,
	repo gallery.Repository,
	title, category, src string,
	createdAt ...time.Time,
) gallery.Item {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	item, err := repo.CreateGalleryItem(context.Background(), gallery.Item{
		Title:     title,
		Category:  category,
		Src:       src,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	})
	if err != nil {
		t.Fatalf("createGalleryItem() failed: %v", err)
	}
	return item
}
