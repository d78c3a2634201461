package mailer

import (
	"strings"
	"testing"
	"time"

	"myfitapp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer("http://localhost:5173/", 24*time.Hour, zap.NewNop())
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return r
}

func TestCompose_ActivateAccount(t *testing.T) {
	msg, err := newTestRenderer(t).Compose(models.PurposeActivateAccount, "runner@gmail.com", "runner01", 123456)
	require.NoError(t, err)

	assert.Equal(t, "runner@gmail.com", msg.To)
	assert.Equal(t, "Welcome to MyFitApp", msg.Subject)
	assert.Equal(t, models.PurposeActivateAccount, msg.Kind)
	assert.Contains(t, msg.HTML, "123456")
	assert.Contains(t, msg.HTML, "http://localhost:5173/checkCode?checkCode=123456")
	assert.Contains(t, msg.HTML, "24 hours")
	assert.Contains(t, msg.HTML, "2026 MyFitApp")
	assert.Contains(t, msg.Text, "123456")
}

func TestCompose_ChangePassword(t *testing.T) {
	msg, err := newTestRenderer(t).Compose(models.PurposeChangePassword, "runner@gmail.com", "runner01", 654321)
	require.NoError(t, err)

	assert.Equal(t, "Change Password MyFitApp", msg.Subject)
	assert.Contains(t, msg.HTML, "http://localhost:5173/changePassword?checkCode=654321")
	assert.False(t, strings.Contains(msg.HTML, "Welcome to MyFitApp!"))
}

func TestCompose_EscapesUsername(t *testing.T) {
	msg, err := newTestRenderer(t).Compose(models.PurposeActivateAccount, "runner@gmail.com", "<b>x</b>", 123456)
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<b>x</b>")
}

func TestCompose_UnknownPurpose(t *testing.T) {
	_, err := newTestRenderer(t).Compose(models.CodePurpose("other"), "runner@gmail.com", "runner01", 123456)
	assert.Error(t, err)
}

func TestHumanDuration(t *testing.T) {
	assert.Equal(t, "1 hour", humanDuration(time.Hour))
	assert.Equal(t, "24 hours", humanDuration(24*time.Hour))
	assert.Equal(t, "10 minutes", humanDuration(10*time.Minute))
	assert.Equal(t, "a short while", humanDuration(0))
}

func TestSMTPSender_BuildMessage(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{Host: "smtp.example.com", Port: 587, From: "noreply@myfitapp.com", FromName: "MyFitApp"}, zap.NewNop())

	m, err := s.buildMessage(models.EmailMessage{To: "runner@gmail.com", Subject: "Welcome", HTML: "<p>hi</p>", Text: "hi"})
	require.NoError(t, err)
	require.Len(t, m.GetTo(), 1)
	assert.Equal(t, "runner@gmail.com", m.GetTo()[0].Address)

	_, err = s.buildMessage(models.EmailMessage{To: "not an address", Subject: "Welcome"})
	assert.Error(t, err)
}
