package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatimaschool/website/core"
)

type submitterMock struct {
	calls []NewMessage
	err   error
}

func (s *submitterMock) Submit(_ context.Context, nm NewMessage) (Message, error) {
	s.calls = append(s.calls, nm)
	if s.err != nil {
		return Message{}, s.err
	}
	return Message{ID: "42", FullName: nm.FullName, Email: nm.Email, Subject: nm.Subject, Message: nm.Message}, nil
}

func filledForm() ContactForm {
	return ContactForm{FullName: "Jane Doe", Email: "jane@example.com", Subject: "Admission", Message: "Hello"}
}

func TestContactForm_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("missing subject", func(t *testing.T) {
		svc := new(submitterMock)
		form := filledForm()
		form.Subject = "   "

		_, err := form.Submit(ctx, svc, now)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, []core.FieldError{{Field: "subject", Error: "this field is required"}}, vErr.Fields)
		assert.Equal(t, "please fill in all required fields", form.Error)
		assert.Empty(t, svc.calls)
		assert.Equal(t, "Jane Doe", form.FullName)
	})

	t.Run("store failure keeps the fields", func(t *testing.T) {
		svc := &submitterMock{err: errors.Wrap(errors.New("connection refused"), "creating feedback")}
		form := filledForm()

		_, err := form.Submit(ctx, svc, now)
		assert.Error(t, err)
		assert.Equal(t, "connection refused", form.Error)
		assert.Equal(t, filledForm().Message, form.Message)
		assert.False(t, form.ShowSuccess(now))
	})

	t.Run("success", func(t *testing.T) {
		svc := new(submitterMock)
		form := filledForm()
		form.Error = "stale"

		msg, err := form.Submit(ctx, svc, now)
		require.NoError(t, err)
		assert.Equal(t, "42", msg.ID)
		require.Len(t, svc.calls, 1)
		assert.Equal(t, "Admission", svc.calls[0].Subject)

		assert.Equal(t, ContactForm{successUntil: now.Add(SuccessBannerDuration)}, form)
		assert.True(t, form.ShowSuccess(now.Add(4*time.Second)))
		assert.False(t, form.ShowSuccess(now.Add(SuccessBannerDuration)))
	})
}
