package feedback

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fatimaschool/website/core"
)

// Message is a contact form submission. It is never updated once stored.
type Message struct {
	ID        string     `json:"id" db:"id"`
	FullName  string     `json:"full_name" db:"full_name"`
	Email     string     `json:"email" db:"email"`
	Subject   string     `json:"subject" db:"subject"`
	Message   string     `json:"message" db:"message"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// NewMessage contains what a visitor submits through the contact form.
type NewMessage struct {
	FullName string `json:"full_name" validate:"notblank"`
	Email    string `json:"email" validate:"notblank,email"`
	Subject  string `json:"subject" validate:"notblank"`
	Message  string `json:"message" validate:"notblank"`
}

// Clean only trims: text is stored as typed and escaped when rendered.
func (nm *NewMessage) Clean() {
	nm.FullName = core.CleanString(nm.FullName)
	nm.Email = core.CleanString(nm.Email)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Message = core.CleanString(nm.Message)
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.Clean()
	return validate.Struct(nm)
}

// Notification is the payload of a "new feedback" email to the institution.
type Notification struct {
	FullName  string `json:"full_name" validate:"notblank"`
	Email     string `json:"email" validate:"notblank"`
	Subject   string `json:"subject" validate:"notblank"`
	Message   string `json:"message" validate:"notblank"`
	CreatedAt string `json:"created_at"`
}

func (n *Notification) Validate(validate *validator.Validate) error {
	return validate.Struct(n)
}

func NotificationFor(msg Message) Notification {
	return Notification{
		FullName:  msg.FullName,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Message:   msg.Message,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}
}

// Reply is an answer to a visitor, quoting what they originally sent.
type Reply struct {
	To              string `json:"to" validate:"notblank,email"`
	Subject         string `json:"subject" validate:"notblank"`
	Message         string `json:"message" validate:"notblank"`
	OriginalMessage string `json:"originalMessage" validate:"notblank"`
	OriginalSubject string `json:"originalSubject" validate:"notblank"`
}

func (r *Reply) Validate(validate *validator.Validate) error {
	r.To = core.CleanString(r.To)
	return validate.Struct(r)
}

// ReplyRequest is an admin's answer to a stored Message.
type ReplyRequest struct {
	Message string `json:"message" validate:"notblank"`
}

func (rr *ReplyRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(rr)
}

func ReplyTo(msg Message, text string) Reply {
	return Reply{
		To:              msg.Email,
		Subject:         text,
		Message:         text,
		OriginalMessage: msg.Message,
		OriginalSubject: msg.Subject,
	}
}
