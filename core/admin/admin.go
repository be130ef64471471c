package admin

import (
	"crypto/subtle"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/fatimaschool/website/core"
)

var ErrAuthenticationFailed = errors.New("authentication failed")

// Admin is the single administrator of the site.
type Admin struct {
	Email string `json:"email"`
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

// Authenticator checks credentials against the configured admin account.
type Authenticator struct {
	email    string
	password string
	hash     []byte
}

func NewAuthenticator(conf core.AdminConfig) *Authenticator {
	return &Authenticator{
		email:    core.CleanString(conf.Email, true),
		password: conf.Password,
		hash:     []byte(conf.PasswordHash),
	}
}

// Configured reports whether any login can succeed.
func (a *Authenticator) Configured() bool {
	return a.email != "" && (len(a.hash) > 0 || a.password != "")
}

// Authenticate returns the admin matching `creds`.
// The bcrypt hash wins over the plain password when both are configured.
func (a *Authenticator) Authenticate(creds Credentials) (Admin, error) {
	if !a.Configured() {
		return Admin{}, ErrAuthenticationFailed
	}
	emailOK := subtle.ConstantTimeCompare([]byte(core.CleanString(creds.Email, true)), []byte(a.email)) == 1

	var pwdOK bool
	if len(a.hash) > 0 {
		pwdOK = bcrypt.CompareHashAndPassword(a.hash, []byte(creds.Password)) == nil
	} else {
		pwdOK = subtle.ConstantTimeCompare([]byte(creds.Password), []byte(a.password)) == 1
	}

	if !emailOK || !pwdOK {
		return Admin{}, ErrAuthenticationFailed
	}
	return Admin{Email: a.email}, nil
}

// HashPassword returns the bcrypt hash to configure as admin.passwordHash.
func HashPassword(pwd string) (string, error) {
	if pwd == "" {
		return "", errors.New("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}
