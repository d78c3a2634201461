// Package validation holds the input format rules shared by every endpoint.
package validation

import (
	"html"
	"net/mail"
	"regexp"
	"strings"

	"myfitapp/internal/models"
)

const (
	MaxEmailLength    = 255
	MinPasswordLength = 5
	MaxPasswordLength = 255
)

var (
	// SignUpUsernamePattern is the format required when creating an account.
	SignUpUsernamePattern = regexp.MustCompile(`^[a-z0-9]{5,20}$`)
	// SignInUsernamePattern is looser so that legacy four-character names can still log in.
	SignInUsernamePattern = regexp.MustCompile(`^[a-z0-9]{4,20}$`)

	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[^A-Za-z0-9]`)

	// emailDomainPattern needs at least two dot-separated hostname labels.
	emailDomainPattern = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?(?:\.[A-Za-z0-9](?:[A-Za-z0-9-]{0,61}[A-Za-z0-9])?)+$`)
)

// Sanitize trims s and escapes HTML special characters.
func Sanitize(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// NormalizeLogin lowercases and sanitizes an email or username.
func NormalizeLogin(s string) string {
	return Sanitize(strings.ToLower(s))
}

// IsEmail reports whether s is a bare ASCII address of at most 255 bytes
// with a dotted host name.
func IsEmail(s string) bool {
	if s == "" || len(s) > MaxEmailLength || !isASCII(s) {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	if addr.Name != "" || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return at > 0 && emailDomainPattern.MatchString(s[at+1:])
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}

// IsSignUpUsername checks the username format for new accounts.
func IsSignUpUsername(s string) bool {
	return SignUpUsernamePattern.MatchString(s)
}

// IsSignInUsername checks the username format accepted at sign-in.
func IsSignInUsername(s string) bool {
	return SignInUsernamePattern.MatchString(s)
}

// IsPassword requires 5-255 bytes with at least one uppercase letter,
// one lowercase letter, one digit and one special character.
func IsPassword(s string) bool {
	if len(s) < MinPasswordLength || len(s) > MaxPasswordLength {
		return false
	}
	return upperPattern.MatchString(s) &&
		lowerPattern.MatchString(s) &&
		digitPattern.MatchString(s) &&
		specialPattern.MatchString(s)
}

// IsVerificationCode reports whether code is a six-digit value.
func IsVerificationCode(code int) bool {
	return code >= models.MinVerificationCode && code <= models.MaxVerificationCode
}

// LooksLikeEmail is the heuristic used at sign-in to tell an email from a username.
func LooksLikeEmail(login string) bool {
	return strings.Contains(login, "@")
}
