package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/fatimaschool/website/apps/api/echo"
	"github.com/fatimaschool/website/core/admin"
)

func login(t *testing.T, fx *fixture, email, password string) *LoginResponse {
	req, rec := newRequest(http.MethodPost, "/api/auth/login", marchallObj(t, admin.Credentials{Email: email, Password: password}))
	fx.serve(req, rec)
	if rec.Code != http.StatusOK {
		return nil
	}
	var res LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return &res
}

func Test_home(t *testing.T) {
	fx := setup(t)
	req, rec := newRequest(http.MethodGet, "/")
	fx.serve(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to the Test School API!", rec.Body.String())
}

func Test_health(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		fx := setup(t, withHealthCheck(func(ctx context.Context) error { return nil }))
		req, rec := newRequest(http.MethodGet, "/api/health")
		fx.serve(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
		assert.Len(t, fx.app.ShutdownSignal(), 0)
	})

	t.Run("database lost", func(t *testing.T) {
		fx := setup(t, withHealthCheck(func(ctx context.Context) error { return errors.New("connection refused") }))
		req, rec := newRequest(http.MethodGet, "/api/health")
		fx.serve(req, rec)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		select {
		case <-fx.app.ShutdownSignal():
		case <-time.After(time.Second):
			t.Fatal("server was not asked to shut down")
		}
	})
}

func Test_authApi_login(t *testing.T) {
	fx := setup(t)

	tests := []httpTest{
		{
			name: "fields required", method: http.MethodPost, path: "/api/auth/login", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/auth/login",
			body:     marchallObj(t, admin.Credentials{Email: fx.conf.Admin.Email, Password: "nope"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "unknown email", method: http.MethodPost, path: "/api/auth/login",
			body:     marchallObj(t, admin.Credentials{Email: "intruder@test.school", Password: adminPassword}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
	}
	runHTTPTests(t, fx, tests)

	t.Run("success", func(t *testing.T) {
		// a success resets the failed attempts count
		res := login(t, fx, "ADMIN@test.school", adminPassword)
		require.NotNil(t, res)
		assert.NotEmpty(t, res.Token)

		req, rec := newAuthRequest(http.MethodGet, "/api/admin/feedback/stats", res.Token)
		fx.serve(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func Test_authApi_login_throttled(t *testing.T) {
	fx := setup(t)

	for i := 0; i < fx.conf.Server.LoginMaxAttempts; i++ {
		assert.Nil(t, login(t, fx, fx.conf.Admin.Email, "wrong"))
	}

	req, rec := newRequest(http.MethodPost, "/api/auth/login", marchallObj(t, admin.Credentials{Email: fx.conf.Admin.Email, Password: adminPassword}))
	fx.serve(req, rec)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusTooManyRequests,
		wantData: marchallObj(t, httpErr{Error: "too many failed login attempts, try again later"}),
	}, rec)

	// other clients are not affected
	req, rec = newRequest(http.MethodPost, "/api/auth/login", marchallObj(t, admin.Credentials{Email: fx.conf.Admin.Email, Password: adminPassword}))
	req.Header.Set("X-Real-IP", "203.0.113.7")
	fx.serve(req, rec)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func Test_authApi_refreshToken(t *testing.T) {
	fx := setup(t)
	adm := admin.Admin{Email: fx.conf.Admin.Email}
	expired := time.Now().Add(-fx.conf.Server.JWTRefreshExpirationDelta - time.Minute).Unix()

	tests := []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/api/auth/token-refresh", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "refresh expired", method: http.MethodPost, path: "/api/auth/token-refresh", token: getToken(t, fx.conf, adm, expired),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "refresh has expired"}),
		},
	}
	runHTTPTests(t, fx, tests)

	t.Run("refreshed", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/api/auth/token-refresh", fx.token(t))
		fx.serve(req, rec)
		require.Equal(t, http.StatusOK, rec.Code)

		var res LoginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		req, rec = newAuthRequest(http.MethodGet, "/api/admin/gallery", res.Token)
		fx.serve(req, rec)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func Test_authApi_logout(t *testing.T) {
	fx := setup(t)
	token := fx.token(t)
	other := fx.token(t)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodPost, path: "/api/auth/logout", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "logged out", method: http.MethodPost, path: "/api/auth/logout", token: token, wantCode: http.StatusNoContent},
		{
			name: "token revoked", path: "/api/admin/feedback", token: token,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "token has been revoked"}),
		},
		{
			name: "cannot refresh a revoked token", method: http.MethodPost, path: "/api/auth/token-refresh", token: token,
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "token has been revoked"}),
		},
		{name: "other sessions still valid", path: "/api/admin/feedback/stats", token: other, wantCode: http.StatusOK},
	}
	runHTTPTests(t, fx, tests)
}
