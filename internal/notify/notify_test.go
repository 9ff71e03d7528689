package notify

import (
	"context"
	"testing"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/config"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PicksTransport(t *testing.T) {
	assert.IsType(t, &SMTPSender{}, New(config.MailConfig{SMTPHost: "smtp.example.com", SMTPPort: 587}))
	assert.IsType(t, &MailjetSender{}, New(config.MailConfig{MailjetAPIKey: "k", MailjetSecretKey: "s"}))
	assert.IsType(t, LogSender{}, New(config.MailConfig{MailjetAPIKey: "k"}))
}

func TestRenderOTP(t *testing.T) {
	expires := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	body, err := renderOTP(&domain.User{Username: "bob", FullName: "Bob <Admin>"}, "042917", expires)
	require.NoError(t, err)

	assert.Contains(t, body, "042917")
	assert.Contains(t, body, "15:04 UTC")
	assert.Contains(t, body, "Bob &lt;Admin&gt;")

	body, err = renderOTP(&domain.User{Username: "bob"}, "1", expires)
	require.NoError(t, err)
	assert.Contains(t, body, "Hello bob")
}

func TestSMTPSender_Unreachable(t *testing.T) {
	sender := NewSMTPSender(config.MailConfig{SMTPHost: "127.0.0.1", SMTPPort: 1, From: "noreply@example.com"})
	err := sender.SendOTP(context.Background(), &domain.User{Email: "a@example.com"}, "123456", time.Now())
	assert.Error(t, err)
}

func TestLogSender(t *testing.T) {
	assert.NoError(t, LogSender{}.SendOTP(context.Background(), &domain.User{ID: 1}, "123456", time.Now()))
}
