package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"plain", "runner@gmail.com", true},
		{"dots and plus", "first.last+fit@outlook.es", true},
		{"empty", "", false},
		{"missing at", "runner.gmail.com", false},
		{"display name", "Runner <runner@gmail.com>", false},
		{"trailing at", "runner@", false},
		{"too long", strings.Repeat("a", 250) + "@gmail.com", false},
		{"dotless domain", "a@localhost", false},
		{"non-ascii local part", "corredor.ñandú@gmail.com", false},
		{"non-ascii domain", "runner@gmäil.com", false},
		{"empty label", "runner@gmail..com", false},
		{"hyphen edge", "runner@-gmail.com", false},
		{"subdomain", "runner@mail.fit.co.uk", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmail(tt.email))
		})
	}
}

func TestUsernamePatterns(t *testing.T) {
	assert.True(t, IsSignUpUsername("runner1"))
	assert.False(t, IsSignUpUsername("run4"), "sign-up needs five characters")
	assert.False(t, IsSignUpUsername("Runner1"), "uppercase is rejected")
	assert.False(t, IsSignUpUsername("runner_1"))
	assert.False(t, IsSignUpUsername(strings.Repeat("a", 21)))

	assert.True(t, IsSignInUsername("run4"))
	assert.False(t, IsSignInUsername("abc"))
}

func TestIsPassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Abc1!", true},
		{"Str0ng_pass", true},
		{"Ab1!", false},
		{"abcd1!", false},
		{"ABCD1!", false},
		{"Abcde!", false},
		{"Abcde1", false},
		{"Ab1!" + strings.Repeat("x", 252), false},
	}
	for _, tt := range tests {
		t.Run(tt.password[:min(len(tt.password), 12)], func(t *testing.T) {
			assert.Equal(t, tt.want, IsPassword(tt.password))
		})
	}
}

func TestIsVerificationCode(t *testing.T) {
	assert.True(t, IsVerificationCode(100000))
	assert.True(t, IsVerificationCode(999999))
	assert.False(t, IsVerificationCode(99999))
	assert.False(t, IsVerificationCode(1000000))
	assert.False(t, IsVerificationCode(0))
}

func TestSanitizeAndNormalize(t *testing.T) {
	assert.Equal(t, "runner@gmail.com", NormalizeLogin("  Runner@Gmail.com "))
	assert.Equal(t, "&lt;b&gt;", Sanitize(" <b> "))
	assert.True(t, LooksLikeEmail("a@b"))
	assert.False(t, LooksLikeEmail("runner"))
}
