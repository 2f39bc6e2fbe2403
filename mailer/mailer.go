// Package mailer sends the transactional emails of the auth flow through
// Resend.
package mailer

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/resend/resend-go/v2"
)

const (
	DefaultFrom             = "onboarding@resend.dev"
	DefaultSubject          = "Confirm your email"
	DefaultBaseURL          = "http://localhost:3000"
	DefaultVerificationPath = "/auth/email-verification"
)

// EmailSender is the part of the Resend client the mailer uses
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

type Mailer struct {
	sender           EmailSender
	from             string
	subject          string
	baseURL          string
	verificationPath string
}

type Option func(*Mailer)

func WithFrom(from string) Option {
	return func(m *Mailer) {
		if from != "" {
			m.from = from
		}
	}
}

func WithSubject(subject string) Option {
	return func(m *Mailer) {
		if subject != "" {
			m.subject = subject
		}
	}
}

// WithBaseURL sets the origin used in verification links
func WithBaseURL(base string) Option {
	return func(m *Mailer) {
		if base != "" {
			m.baseURL = strings.TrimRight(base, "/")
		}
	}
}

func WithVerificationPath(path string) Option {
	return func(m *Mailer) {
		if path != "" {
			m.verificationPath = "/" + strings.TrimLeft(path, "/")
		}
	}
}

// New builds a Mailer backed by a Resend client for apiKey
func New(apiKey string, opts ...Option) *Mailer {
	return NewWithSender(resend.NewClient(apiKey).Emails, opts...)
}

func NewWithSender(sender EmailSender, opts ...Option) *Mailer {
	m := &Mailer{
		sender:           sender,
		from:             DefaultFrom,
		subject:          DefaultSubject,
		baseURL:          DefaultBaseURL,
		verificationPath: DefaultVerificationPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// VerificationLink builds <base><path>?token=<token>
func VerificationLink(base, path, token string) (string, error) {
	u, err := url.Parse(strings.TrimRight(base, "/") + path)
	if err != nil {
		return "", fmt.Errorf("parse verification base url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// VerificationLink returns the link this mailer embeds for token
func (m *Mailer) VerificationLink(token string) (string, error) {
	return VerificationLink(m.baseURL, m.verificationPath, token)
}

// SendVerificationEmail sends the confirmation message to email. Errors
// from the provider are returned unchanged.
func (m *Mailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	link, err := m.VerificationLink(token)
	if err != nil {
		return err
	}

	_, err = m.sender.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: m.subject,
		Html:    VerificationBody(link),
	})
	return err
}

// VerificationBody renders the HTML body for a confirmation link
func VerificationBody(link string) string {
	return fmt.Sprintf(`<p>Click <a href="%s">here</a> to confirm email.</p>`, html.EscapeString(link))
}
