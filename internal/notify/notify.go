// Package notify delivers one-time codes to users out of band.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/config"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

const otpSubject = "Your login code"

var otpTemplate = template.Must(template.New("otp").Parse(`<body style="margin:0;padding:0;background:#f6f6f6;">
  <div style="max-width:600px;margin:0 auto;padding:32px;font-family:Arial,sans-serif;">
    <h1 style="font-size:24px;color:#111;">Hello {{.Name}},</h1>
    <p style="font-size:16px;color:#222;">Use this code to finish signing in:</p>
    <p style="font-size:32px;font-weight:700;letter-spacing:6px;color:#111;">{{.Code}}</p>
    <p style="font-size:13px;color:#888;">The code expires at {{.Expires}}. If you did not try to sign in, ignore this email.</p>
  </div>
</body>`))

// Sender delivers an OTP to user
type Sender interface {
	SendOTP(ctx context.Context, user *domain.User, code string, expires time.Time) error
}

// New picks SMTP when a host is configured, Mailjet when keys are set, and logging otherwise
func New(cfg config.MailConfig) Sender {
	switch {
	case cfg.SMTPHost != "":
		return NewSMTPSender(cfg)
	case cfg.MailjetAPIKey != "" && cfg.MailjetSecretKey != "":
		return NewMailjetSender(cfg)
	default:
		logrus.Warn("No mail transport configured, OTP codes will only be logged")
		return LogSender{}
	}
}

func renderOTP(user *domain.User, code string, expires time.Time) (string, error) {
	name := user.FullName
	if name == "" {
		name = user.Username
	}
	var buf bytes.Buffer
	err := otpTemplate.Execute(&buf, map[string]string{
		"Name":    name,
		"Code":    code,
		"Expires": expires.UTC().Format("15:04 MST"),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates an SMTPSender
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.From,
	}
}

// SendOTP mails the code
func (s *SMTPSender) SendOTP(_ context.Context, user *domain.User, code string, expires time.Time) error {
	body, err := renderOTP(user, code, expires)
	if err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", otpSubject)
	m.SetBody("text/html", body)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// MailjetSender sends mail through the Mailjet v3.1 API
type MailjetSender struct {
	client *mailjet.Client
	from   string
}

// NewMailjetSender creates a MailjetSender
func NewMailjetSender(cfg config.MailConfig) *MailjetSender {
	return &MailjetSender{
		client: mailjet.NewMailjetClient(cfg.MailjetAPIKey, cfg.MailjetSecretKey),
		from:   cfg.From,
	}
}

// SendOTP mails the code
func (s *MailjetSender) SendOTP(_ context.Context, user *domain.User, code string, expires time.Time) error {
	body, err := renderOTP(user, code, expires)
	if err != nil {
		return err
	}
	messages := &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{Email: s.from},
			To: &mailjet.RecipientsV31{
				{Email: user.Email, Name: user.FullName},
			},
			Subject:  otpSubject,
			HTMLPart: body,
		},
	}}
	if _, err := s.client.SendMailV31(messages); err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}
	return nil
}

// LogSender writes the code to the log. Meant for local development.
type LogSender struct{}

// SendOTP logs the code
func (LogSender) SendOTP(_ context.Context, user *domain.User, code string, expires time.Time) error {
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"otp":     code,
		"expires": expires.Format(time.RFC3339),
	}).Info("OTP issued")
	return nil
}
