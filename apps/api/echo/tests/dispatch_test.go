package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/feedback"
	"github.com/fatimaschool/website/services/email"
	"github.com/fatimaschool/website/tests"
)

var (
	notification = feedback.Notification{
		FullName:  "Jane Doe",
		Email:     "jane@test.school",
		Subject:   "Open day",
		Message:   "When is the next open day?",
		CreatedAt: "2024-03-14T09:30:00Z",
	}
	reply = feedback.Reply{
		To:              "jane@test.school",
		Subject:         "Open day",
		Message:         "Next Saturday at 10.",
		OriginalMessage: "When is the next open day?",
		OriginalSubject: "Open day",
	}
)

// sendgridStub answers like the provider: 202 with a message id, 401 for unknown keys,
// or 400 with the provider's error body when `reject` is set.
func sendgridStub(t *testing.T, reject bool) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sg-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if reject {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":[{"message":"invalid recipient"}]}`))
			return
		}
		w.Header().Set("X-Message-Id", "sg-123")
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func withSendgrid(host, key string) setupOption {
	return withEmailService(func(conf *core.Config) core.EmailService {
		conf.SendgridApiKey = key
		return emailsvc.NewSendgridServiceMock(conf, testutil.NewLogger(), host)
	})
}

func Test_dispatch_sendNotification(t *testing.T) {
	fx := setup(t)

	tests := []httpTest{
		{
			name: "fields required", method: http.MethodPost, path: "/api/send-notification",
			body:     []byte(`{"full_name": "Jane", "created_at": "2024-03-14T09:30:00Z"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"email":   "this field cannot be blank",
				"subject": "this field cannot be blank",
				"message": "this field cannot be blank",
			}),
		},
		{
			name: "sent", method: http.MethodPost, path: "/api/send-notification", body: marchallObj(t, notification),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "data": {"status_code": 202, "message_id": "console-1"}}`),
		},
	}
	runHTTPTests(t, fx, tests)

	sent := fx.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "New Contact Form Submission - Open day", sent[0].Subject)
	assert.Equal(t, fx.conf.NotifyEmail, sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Mar 14, 2024 9:30 AM")
}

func Test_dispatch_sendNotification_provider(t *testing.T) {
	srv := sendgridStub(t, false)

	t.Run("key not configured", func(t *testing.T) {
		fx := setup(t, withSendgrid(srv.URL, ""))
		runHTTPTests(t, fx, []httpTest{{
			method: http.MethodPost, path: "/api/send-notification", body: marchallObj(t, notification),
			wantCode: http.StatusInternalServerError,
			wantData: marchallObj(t, httpErr{Error: "email provider API key not configured"}),
		}})
	})

	t.Run("accepted", func(t *testing.T) {
		fx := setup(t, withSendgrid(srv.URL, "sg-test"))
		runHTTPTests(t, fx, []httpTest{{
			method: http.MethodPost, path: "/api/send-notification", body: marchallObj(t, notification),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "data": {"status_code": 202, "message_id": "sg-123"}}`),
		}})
	})

	t.Run("sender without a valid address", func(t *testing.T) {
		var body map[string]interface{}
		stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.Header().Set("X-Message-Id", "sg-456")
			w.WriteHeader(http.StatusAccepted)
		}))
		t.Cleanup(stub.Close)

		n := notification
		n.Email = "jane"
		fx := setup(t, withSendgrid(stub.URL, "sg-test"))
		runHTTPTests(t, fx, []httpTest{{
			method: http.MethodPost, path: "/api/send-notification", body: marchallObj(t, n),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "data": {"status_code": 202, "message_id": "sg-456"}}`),
		}})
		require.NotNil(t, body)
		assert.NotContains(t, body, "reply_to")
	})

	t.Run("rejected", func(t *testing.T) {
		fx := setup(t, withSendgrid(sendgridStub(t, true).URL, "sg-test"))
		runHTTPTests(t, fx, []httpTest{{
			method: http.MethodPost, path: "/api/send-notification", body: marchallObj(t, notification),
			wantCode: http.StatusInternalServerError,
			wantData: []byte(`{"error": "Failed to send notification email", "details": {"errors": [{"message": "invalid recipient"}]}}`),
		}})
	})

	t.Run("wrong key", func(t *testing.T) {
		fx := setup(t, withSendgrid(srv.URL, "sg-wrong"))
		req, rec := newRequest(http.MethodPost, "/api/send-notification", marchallObj(t, notification))
		fx.serve(req, rec)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"error":"Failed to send notification email"`)
	})
}

func Test_dispatch_consoleWithoutKey(t *testing.T) {
	fx := setup(t, withEmailService(func(conf *core.Config) core.EmailService {
		conf.SendgridApiKey = ""
		return emailsvc.NewConsoleService(conf, testutil.NewLogger())
	}))
	token := fx.token(t)
	msg := testutil.CreateFeedback(t, fx.feedbackRepo, "Jane", "jane@test.school", "Open day", "When?", fx.now)
	notConfigured := marchallObj(t, httpErr{Error: "email provider API key not configured"})

	tests := []httpTest{
		{
			name: "notification", method: http.MethodPost, path: "/api/send-notification", body: marchallObj(t, notification),
			wantCode: http.StatusInternalServerError, wantData: notConfigured,
		},
		{
			name: "reply", method: http.MethodPost, path: "/api/send-reply", token: token, body: marchallObj(t, reply),
			wantCode: http.StatusInternalServerError, wantData: notConfigured,
		},
		{
			name: "reply to message", method: http.MethodPost, path: "/api/admin/feedback/" + msg.ID + "/reply", token: token,
			body:     []byte(`{"message": "Next Saturday."}`),
			wantCode: http.StatusInternalServerError, wantData: notConfigured,
		},
		{
			name: "contact form still accepted", method: http.MethodPost, path: "/api/feedback",
			body:     []byte(`{"full_name": "Bob", "email": "bob@test.school", "subject": "Fees", "message": "How much?"}`),
			wantCode: http.StatusCreated,
		},
	}
	runHTTPTests(t, fx, tests)
}

func Test_dispatch_sendReply(t *testing.T) {
	fx := setup(t)
	token := fx.token(t)

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodPost, path: "/api/send-reply", body: marchallObj(t, reply),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "fields required", method: http.MethodPost, path: "/api/send-reply", token: token,
			body:     []byte(`{"to": "jane@test.school", "subject": "Hi", "message": "Hello"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"originalMessage": "this field cannot be blank",
				"originalSubject": "this field cannot be blank",
			}),
		},
		{
			name: "sent", method: http.MethodPost, path: "/api/send-reply", token: token, body: marchallObj(t, reply),
			wantCode: http.StatusOK,
			wantData: []byte(`{"success": true, "data": {"status_code": 202, "message_id": "console-1"}}`),
		},
	}
	runHTTPTests(t, fx, tests)

	sent := fx.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Re: Open day", sent[0].Subject)
	assert.Equal(t, "jane@test.school", sent[0].To[0].Address)
	assert.Contains(t, sent[0].HTMLContent, "Next Saturday at 10.")
}
