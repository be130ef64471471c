package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/fatimaschool/website/apps/api/echo"
	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/admin"
	"github.com/fatimaschool/website/core/feedback"
	"github.com/fatimaschool/website/core/gallery"
	"github.com/fatimaschool/website/services/email"
	"github.com/fatimaschool/website/storage/database/inmem"
	"github.com/fatimaschool/website/tests"
)

const adminPassword = "p4ssw0rd!"

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type fixture struct {
	app          Server
	conf         *core.Config
	now          time.Time
	feedbackRepo feedback.Repository
	galleryRepo  gallery.Repository
	mailSvc      *emailsvc.ConsoleServiceMock
}

type setupOptions struct {
	newMailSvc  func(conf *core.Config) core.EmailService
	healthCheck func(ctx context.Context) error
}

type setupOption func(o *setupOptions)

// withEmailService replaces the console email mock, eg. with a SendGrid service talking to a test server.
func withEmailService(newSvc func(conf *core.Config) core.EmailService) setupOption {
	return func(o *setupOptions) { o.newMailSvc = newSvc }
}

// withHealthCheck stands in for the database status check.
func withHealthCheck(check func(ctx context.Context) error) setupOption {
	return func(o *setupOptions) { o.healthCheck = check }
}

// setup starts a server on a fresh in-memory database. The feedback service's clock is frozen at fx.now.
func setup(t *testing.T, opts ...setupOption) *fixture {
	conf := core.NewTestConfig()
	conf.Admin.Password = adminPassword
	conf.SendgridApiKey = "sg-test"

	// set up DB & repos
	db := inmemdb.NewDB()
	fx := &fixture{
		conf:         conf,
		now:          time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
		feedbackRepo: inmemdb.NewFeedbackRepository(db),
		galleryRepo:  inmemdb.NewGalleryRepository(db),
		mailSvc:      emailsvc.NewConsoleServiceMock(conf),
	}

	// set up services
	var o setupOptions
	for _, opt := range opts {
		opt(&o)
	}
	var mailSvc core.EmailService = fx.mailSvc
	if o.newMailSvc != nil {
		mailSvc = o.newMailSvc(conf)
	}
	t.Cleanup(mailSvc.Close)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	gallery.InitValidators(validate, translator)

	// set up server
	fx.app = NewServer(ServerDeps{
		Conf:        conf,
		Logger:      testutil.NewLogger(),
		Auth:        admin.NewAuthenticator(conf.Admin),
		FeedbackSvc: feedback.NewServiceMock(fx.feedbackRepo, mailSvc, conf, func() time.Time { return fx.now }),
		GallerySvc:  gallery.NewService(fx.galleryRepo),
		Validate:    validate,
		Translator:  translator,
		HealthCheck: o.healthCheck,
	})
	return fx
}

func (fx *fixture) token(t *testing.T) string {
	return getToken(t, fx.conf, admin.Admin{Email: fx.conf.Admin.Email})
}

func (fx *fixture) serve(req *http.Request, rec *httptest.ResponseRecorder) {
	fx.app.ServeHTTP(rec, req)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, conf *core.Config, adm admin.Admin, origIat ...int64) string {
	token, err := GenerateToken(conf, NewAdminClaims(adm, conf, origIat...))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, "code")
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, fx *fixture, tests []httpTest) {
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			method := tc.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tc.path, tc.token, tc.body)
			fx.serve(req, rec)
			checkCodeAndData(t, tc, rec)
		})
	}
}
