package emailsvc

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"

	"github.com/gammazero/workerpool"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/fatimaschool/website/core"
)

const (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
	messageIDHeader  = "X-Message-Id"
)

type sendgridService struct {
	key    string
	host   string
	from   *sgmail.Email
	site   core.SiteInfo
	logger core.Logger
	pool   *workerpool.WorkerPool
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) core.EmailService {
	return newSendgridService(conf, logger, sendgridHost)
}

// NewSendgridServiceMock talks to `host` instead of the SendGrid API.
func NewSendgridServiceMock(conf *core.Config, logger core.Logger, host string) core.EmailService {
	return newSendgridService(conf, logger, host)
}

func newSendgridService(conf *core.Config, logger core.Logger, host string) *sendgridService {
	from := conf.DefaultFromEmail()
	return &sendgridService{
		key:    conf.SendgridApiKey,
		host:   host,
		from:   sgmail.NewEmail(from.Name, from.Address),
		site:   conf.SiteInfo(),
		logger: logger,
		pool:   workerpool.New(poolSize),
	}
}

func (svc *sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		svc.pool.Submit(func() {
			res, err := svc.Send(context.Background(), msg)
			if err != nil {
				args := []interface{}{err}
				if res != nil {
					args = append(args, map[string]interface{}{"status": res.StatusCode, "body": res.Body})
				}
				svc.logger.Error(fmt.Sprintf("sending email: %v", err), args...)
			}
		})
	}
}

// Send returns core.ErrEmailNotConfigured without an API key, and core.ErrEmailRejected
// (along with the provider's answer) when SendGrid refuses the message.
func (svc *sendgridService) Send(ctx context.Context, msg *core.EmailMessage) (*core.SendResult, error) {
	if svc.key == "" {
		return nil, core.ErrEmailNotConfigured
	}
	if err := msg.Render(svc.site); err != nil {
		return nil, errors.Wrap(err, "rendering email")
	}
	if !msg.HasRecipients() {
		return nil, errNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := sendgrid.GetRequest(svc.key, sendgridEndpoint, svc.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(*msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return nil, errors.Wrap(err, "calling sendgrid")
	}
	result := resultOf(res)
	if result.StatusCode >= http.StatusBadRequest {
		return result, errors.Wrapf(core.ErrEmailRejected, "status %d", result.StatusCode)
	}
	return result, nil
}

func (svc *sendgridService) Close() {
	svc.pool.StopWait()
}

func (svc *sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject

	for _, to := range msg.To {
		p.AddTos(getSGEmail(to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(getSGEmail(cc))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(getSGEmail(bcc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	if msg.ReplyTo != nil {
		m.SetReplyTo(getSGEmail(*msg.ReplyTo))
	}

	if msg.TextContent != "" {
		m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}

	for _, a := range msg.Attachments {
		m.AddAttachment(&sgmail.Attachment{
			Content:     a.Content.String(),
			Type:        a.ContentType,
			Filename:    a.Filename,
			Disposition: "attachment",
		})
	}
	return m
}

func getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

func resultOf(res *rest.Response) *core.SendResult {
	result := &core.SendResult{StatusCode: res.StatusCode, Body: res.Body}
	for key, vals := range res.Headers {
		if http.CanonicalHeaderKey(key) == messageIDHeader && len(vals) > 0 {
			result.MessageID = vals[0]
		}
	}
	return result
}
