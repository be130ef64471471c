package feedback

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
)

// SuccessBannerDuration is how long the contact form shows its success banner.
const SuccessBannerDuration = 5 * time.Second

var errMissingFields = errors.New("please fill in all required fields")

// Submitter stores contact form submissions.
type Submitter interface {
	Submit(ctx context.Context, nm NewMessage) (Message, error)
}

// ContactForm holds the contact form state.
type ContactForm struct {
	FullName string
	Email    string
	Subject  string
	Message  string

	// Error is the last submission error shown to the visitor.
	Error        string
	successUntil time.Time
}

// Submit checks the required fields before anything is stored.
// On failure the fields are kept so the visitor can retry; on success they are cleared
// and the success banner is shown for SuccessBannerDuration.
func (f *ContactForm) Submit(ctx context.Context, svc Submitter, now time.Time) (Message, error) {
	f.Error = ""
	if flds := f.missingFields(); len(flds) > 0 {
		f.Error = errMissingFields.Error()
		return Message{}, core.NewValidationError(errMissingFields, flds...)
	}

	msg, err := svc.Submit(ctx, NewMessage{
		FullName: f.FullName,
		Email:    f.Email,
		Subject:  f.Subject,
		Message:  f.Message,
	})
	if err != nil {
		f.Error = errors.Cause(err).Error()
		return Message{}, err
	}

	f.FullName, f.Email, f.Subject, f.Message = "", "", "", ""
	f.successUntil = now.Add(SuccessBannerDuration)
	return msg, nil
}

// ShowSuccess reports whether the success banner is visible at `now`.
func (f *ContactForm) ShowSuccess(now time.Time) bool {
	return now.Before(f.successUntil)
}

func (f *ContactForm) missingFields() []core.FieldError {
	var flds []core.FieldError
	for _, fld := range []struct{ name, value string }{
		{"full_name", f.FullName},
		{"email", f.Email},
		{"subject", f.Subject},
		{"message", f.Message},
	} {
		if core.CleanString(fld.value) == "" {
			flds = append(flds, core.FieldError{Field: fld.name, Error: "this field is required"})
		}
	}
	return flds
}
