package admin

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/fatimaschool/website/core"
)

// password policy
var (
	pwdMinLen     = 8
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceText    = "password must not contain whitespace"
	pwdNotAllNumText  = "password cannot be entirely numeric"
	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to the admin email"

	errWeakPassword = errors.New("password is too weak")
)

// CheckPassword applies the admin password policy:
//   - at least 8 characters, no whitespace, not all digits
//   - 1 upper, 1 lower, 1 digit & 1 special character
//   - not similar to the admin email (or its local part)
func CheckPassword(pwd, email string) error {
	reportErr := func(text string) error {
		return core.NewValidationError(errWeakPassword, core.FieldError{Field: "password", Error: text})
	}

	if len(pwd) < pwdMinLen {
		return reportErr(pwdMinLenText)
	}

	var digitCount int
	var hasUpper, hasLower bool
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return reportErr(pwdNoSpaceText)
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		hasUpper = hasUpper || unicode.IsUpper(char)
		hasLower = hasLower || unicode.IsLower(char)
	}
	if digitCount == len(pwd) {
		return reportErr(pwdNotAllNumText)
	}
	if !(hasUpper && hasLower && digitCount > 0 && specialRegex.MatchString(pwd)) {
		return reportErr(pwdComplexityText)
	}

	email = core.CleanString(email, true)
	localPart := strings.SplitN(email, "@", 2)[0]
	lpwd := strings.ToLower(pwd)
	for _, attr := range []string{email, localPart} {
		if similarity(lpwd, attr) >= pwdMaxSim {
			return reportErr(pwdAttrSimText)
		}
	}
	return nil
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).QuickRatio()
}
