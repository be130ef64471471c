package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"

	"github.com/fatimaschool/website/core"
	"github.com/fatimaschool/website/core/admin"
)

const (
	contextTokenKey = "adminToken"
	tokenAudience   = "Admin"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Email        string `json:"email,omitempty"`
}

// NewAdminClaims returns fresh claims for `adm`. origIat is the time of the original login
// when refreshing a token.
func NewAdminClaims(adm admin.Admin, conf *core.Config, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   adm.Email,
			Audience:  tokenAudience,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Email:        adm.Email,
	}
}

// GenerateToken generates a signed JWT token string representing the admin Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func jwtConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextAdmin(ctx echo.Context) (admin.Admin, bool) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return admin.Admin{}, false
	}
	return admin.Admin{Email: claims.Email}, true
}

type (
	LoginResponse struct {
		Token string `json:"token"`
	}

	authApi struct {
		conf     *core.Config
		auth     *admin.Authenticator
		validate *validator.Validate

		// failed login attempts per client IP
		attempts *cache.Cache
		// revoked token ids, kept until the token expires
		revoked *cache.Cache
	}
)

func newAuthApi(conf *core.Config, auth *admin.Authenticator, validate *validator.Validate) *authApi {
	return &authApi{
		conf:     conf,
		auth:     auth,
		validate: validate,
		attempts: cache.New(conf.Server.LoginLockout, time.Minute),
		revoked:  cache.New(conf.Server.JWTExpirationDelta, 10*time.Minute),
	}
}

func (api *authApi) register(g *echo.Group, jwt echo.MiddlewareFunc) {
	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt, api.activeTokenMiddleware)
	ag.POST("/logout", api.logout, jwt, api.activeTokenMiddleware)
}

func (api *authApi) throttled(ip string) bool {
	if api.conf.Server.LoginMaxAttempts <= 0 {
		return false
	}
	n, ok := api.attempts.Get(ip)
	return ok && n.(int) >= api.conf.Server.LoginMaxAttempts
}

func (api *authApi) recordFailure(ip string) {
	if err := api.attempts.Add(ip, 1, api.conf.Server.LoginLockout); err != nil {
		_, _ = api.attempts.IncrementInt(ip, 1)
	}
}

func (api *authApi) login(ctx echo.Context) error {
	ip := ctx.RealIP()
	if api.throttled(ip) {
		return errTooManyAttempts
	}

	var creds admin.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := creds.Validate(api.validate); err != nil {
		return err
	}

	adm, err := api.auth.Authenticate(creds)
	if err != nil {
		if errors.Cause(err) == admin.ErrAuthenticationFailed {
			api.recordFailure(ip)
			return errAuthenticationFailed
		}
		return errors.Wrap(err, "authenticating")
	}
	api.attempts.Delete(ip)

	token, err := GenerateToken(api.conf, NewAdminClaims(adm, api.conf))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(api.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return errRefreshExpired
	}

	newClaims := NewAdminClaims(admin.Admin{Email: claims.Email}, api.conf, claims.OrigIssuedAt)
	token, err := GenerateToken(api.conf, newClaims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	api.revoke(claims)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *authApi) revoke(claims Claims) {
	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		return
	}
	api.revoked.Set(claims.Id, struct{}{}, ttl)
}

func (api *authApi) isRevoked(claims Claims) bool {
	_, found := api.revoked.Get(claims.Id)
	return found
}
