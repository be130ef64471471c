package feedback

import (
	"net/mail"
	"time"

	"github.com/fatimaschool/website/core"
)

const (
	notificationTemplate = "feedback_notification"
	replyTemplate        = "feedback_reply"

	dateLayout = "Jan 2, 2006 3:04 PM (MST)"
)

type notificationData struct {
	Notification
	Date string
}

func newNotificationEmail(n Notification, to mail.Address, loc *time.Location, now time.Time) *core.EmailMessage {
	date := now
	if n.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, n.CreatedAt); err == nil {
			date = t
		}
	}
	if loc != nil {
		date = date.In(loc)
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      "New Contact Form Submission - " + n.Subject,
		TemplateName: notificationTemplate,
		TemplateData: notificationData{Notification: n, Date: date.Format(dateLayout)},
	}
	// the dispatch endpoint only requires a non-blank email
	if addr, err := mail.ParseAddress(n.Email); err == nil {
		msg.ReplyTo = &mail.Address{Name: n.FullName, Address: addr.Address}
	}
	return msg
}

func newReplyEmail(r Reply) *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Address: r.To}},
		Subject:      "Re: " + r.OriginalSubject,
		TemplateName: replyTemplate,
		TemplateData: r,
	}
}
