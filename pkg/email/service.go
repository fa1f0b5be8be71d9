// Package email sends transactional notifications. Delivery failures are the
// caller's to tolerate; no service operation should fail a request because an
// email could not be sent.
package email

import (
	"context"
	"sync"
	"time"

	"github.com/taskhive/taskhive/internal/models"
)

// Service defines the interface for sending notification emails.
type Service interface {
	SendWelcomeEmail(ctx context.Context, user *models.User) error
	SendPasswordChangedNotification(ctx context.Context, user *models.User) error
}

// Template represents a renderable email template.
type Template struct {
	Subject  string
	TextBody string
}

// Data contains the values available to template rendering.
type Data struct {
	User         *models.User
	AppName      string
	BaseURL      string
	SupportEmail string
}

// Config holds email service configuration.
type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
	BaseURL      string
	AppName      string
	SupportEmail string
}

// Templates holds the notification templates.
type Templates struct {
	Welcome         Template
	PasswordChanged Template
}

// NewTemplates creates the default templates.
func NewTemplates() *Templates {
	return &Templates{
		Welcome: Template{
			Subject: "Welcome to {{.AppName}}",
			TextBody: `Hi {{.User.Name}},

Welcome to {{.AppName}}! Your account is ready.

Sign in at {{.BaseURL}} to create your first project.

Questions? Reach us at {{.SupportEmail}}.
`,
		},
		PasswordChanged: Template{
			Subject: "Your {{.AppName}} password was changed",
			TextBody: `Hi {{.User.Name}},

The password for your {{.AppName}} account was just changed.

If this wasn't you, contact {{.SupportEmail}} immediately.
`,
		},
	}
}

// SentEmail records a delivery made by the mock service.
type SentEmail struct {
	To       string
	Template string
	SentAt   time.Time
}

// MockService records emails instead of sending them. Used in development and
// tests.
type MockService struct {
	mu   sync.Mutex
	sent []SentEmail
}

// NewMockService creates a recording email service.
func NewMockService() *MockService {
	return &MockService{}
}

func (m *MockService) SendWelcomeEmail(_ context.Context, user *models.User) error {
	m.record(user.Email, "welcome")
	return nil
}

func (m *MockService) SendPasswordChangedNotification(_ context.Context, user *models.User) error {
	m.record(user.Email, "password_changed")
	return nil
}

func (m *MockService) record(to, template string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, Template: template, SentAt: time.Now()})
}

// SentEmails returns a copy of everything recorded so far.
func (m *MockService) SentEmails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}
