package feedback

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
)

var ErrNotFound = errors.New("feedback message not found")

type (
	Repository interface {
		// QueryAllFeedback returns every message, newest first.
		QueryAllFeedback(ctx context.Context) ([]Message, error)
		GetFeedback(ctx context.Context, id string) (Message, error)
		CreateFeedback(ctx context.Context, msg Message) (Message, error)
		DeleteFeedback(ctx context.Context, id string) (Message, error)
	}

	Service interface {
		Submit(ctx context.Context, nm NewMessage) (Message, error)
		QueryAll(ctx context.Context) ([]Message, error)
		GetByID(ctx context.Context, id string) (Message, error)
		Delete(ctx context.Context, id string) (Message, error)
		List(ctx context.Context, q ListQuery) (Page, error)
		Stats(ctx context.Context) (Stats, error)
		Notify(ctx context.Context, n Notification) (*core.SendResult, error)
		SendReply(ctx context.Context, r Reply) (*core.SendResult, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		notify  mail.Address
		hasKey  bool // email provider API key configured
		loc     *time.Location
		now     func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, conf *core.Config) Service {
	return newService(repo, mailSvc, conf, time.Now)
}

// NewServiceMock returns a Service whose clock is fixed by `now`.
func NewServiceMock(repo Repository, mailSvc core.EmailService, conf *core.Config, now func() time.Time) Service {
	return newService(repo, mailSvc, conf, now)
}

func newService(repo Repository, mailSvc core.EmailService, conf *core.Config, now func() time.Time) *service {
	loc := conf.Timezone
	if loc == nil {
		loc = time.Local
	}
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		notify:  mail.Address{Name: conf.AppName, Address: conf.NotifyEmail},
		hasKey:  conf.SendgridApiKey != "",
		loc:     loc,
		now:     func() time.Time { return now().In(loc) },
	}
}

// Submit stores a visitor's message and queues a notification for the institution.
// The notification is best effort: its failure never fails the submission.
func (svc *service) Submit(ctx context.Context, nm NewMessage) (Message, error) {
	nm.Clean()
	msg, err := svc.repo.CreateFeedback(ctx, Message{
		FullName:  nm.FullName,
		Email:     nm.Email,
		Subject:   nm.Subject,
		Message:   nm.Message,
		CreatedAt: svc.now().UTC(),
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "creating feedback")
	}

	svc.mailSvc.SendMessages(newNotificationEmail(NotificationFor(msg), svc.notify, svc.loc, svc.now()))
	return msg, nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Message, error) {
	return svc.repo.QueryAllFeedback(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Message, error) {
	return svc.repo.GetFeedback(ctx, core.CleanString(id))
}

// Delete removes a message and returns it.
func (svc *service) Delete(ctx context.Context, id string) (Message, error) {
	return svc.repo.DeleteFeedback(ctx, core.CleanString(id))
}

// List fetches every message and derives the requested page from it.
func (svc *service) List(ctx context.Context, q ListQuery) (Page, error) {
	rng, err := ParseDateRange(q.Date)
	if err != nil {
		return Page{}, err
	}
	msgs, err := svc.repo.QueryAllFeedback(ctx)
	if err != nil {
		return Page{}, errors.Wrap(err, "querying feedback")
	}

	view := NewListView(svc.now)
	view.Dispatch(Load{Messages: msgs})
	view.Dispatch(Search{Term: q.Search})
	view.Dispatch(FilterDate{Range: rng})
	if q.Page > 1 {
		view.Dispatch(GoToPage{Page: q.Page})
	}
	return view.Snapshot(), nil
}

func (svc *service) Stats(ctx context.Context) (Stats, error) {
	msgs, err := svc.repo.QueryAllFeedback(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying feedback")
	}
	return ComputeStats(msgs, svc.now()), nil
}

// Notify sends the "new feedback" email right away and returns the provider's answer.
// Both dispatch operations fail with core.ErrEmailNotConfigured without a provider API key,
// whatever the email service in use.
func (svc *service) Notify(ctx context.Context, n Notification) (*core.SendResult, error) {
	if !svc.hasKey {
		return nil, core.ErrEmailNotConfigured
	}
	return svc.mailSvc.Send(ctx, newNotificationEmail(n, svc.notify, svc.loc, svc.now()))
}

// SendReply emails an admin's answer to the original sender.
func (svc *service) SendReply(ctx context.Context, r Reply) (*core.SendResult, error) {
	if !svc.hasKey {
		return nil, core.ErrEmailNotConfigured
	}
	return svc.mailSvc.Send(ctx, newReplyEmail(r))
}
