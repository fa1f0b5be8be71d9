package email

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"github.com/taskhive/taskhive/internal/models"
)

// SMTPService implements Service over plain SMTP.
type SMTPService struct {
	config    *Config
	templates *Templates
	auth      smtp.Auth
}

// NewSMTPService creates an SMTP-backed email service.
func NewSMTPService(config *Config) *SMTPService {
	auth := smtp.PlainAuth("", config.SMTPUsername, config.SMTPPassword, config.SMTPHost)

	return &SMTPService{
		config:    config,
		templates: NewTemplates(),
		auth:      auth,
	}
}

// SendWelcomeEmail sends the post-registration welcome email.
func (s *SMTPService) SendWelcomeEmail(ctx context.Context, user *models.User) error {
	return s.send(ctx, user.Email, s.templates.Welcome, s.data(user))
}

// SendPasswordChangedNotification notifies the user of a password change.
func (s *SMTPService) SendPasswordChangedNotification(ctx context.Context, user *models.User) error {
	return s.send(ctx, user.Email, s.templates.PasswordChanged, s.data(user))
}

func (s *SMTPService) data(user *models.User) *Data {
	return &Data{
		User:         user,
		AppName:      s.config.AppName,
		BaseURL:      s.config.BaseURL,
		SupportEmail: s.config.SupportEmail,
	}
}

func (s *SMTPService) send(ctx context.Context, to string, tmpl Template, data *Data) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject, err := render(tmpl.Subject, data)
	if err != nil {
		return fmt.Errorf("render subject: %w", err)
	}
	body, err := render(tmpl.TextBody, data)
	if err != nil {
		return fmt.Errorf("render body: %w", err)
	}

	msg := fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.config.FromName, s.config.FromEmail, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)
	if err := smtp.SendMail(addr, s.auth, s.config.FromEmail, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}

func render(text string, data *Data) (string, error) {
	tmpl, err := template.New("email").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}
