package mailer_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/goliatone/go-merchant-auth/mailer"
	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSender struct {
	calls []*resend.SendEmailRequest
	err   error
}

func (f *fakeSender) SendWithContext(_ context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "email-1"}, nil
}

func TestSendVerificationEmail(t *testing.T) {
	sender := &fakeSender{}
	m := mailer.NewWithSender(sender)

	err := m.SendVerificationEmail(context.Background(), "merchant@example.com", "tok-123")
	require.NoError(t, err)
	require.Len(t, sender.calls, 1)

	req := sender.calls[0]
	assert.Equal(t, mailer.DefaultFrom, req.From)
	assert.Equal(t, []string{"merchant@example.com"}, req.To)
	assert.Equal(t, mailer.DefaultSubject, req.Subject)
	assert.Contains(t, req.Html, `href="http://localhost:3000/auth/email-verification?token=tok-123"`)
}

func TestSendVerificationEmailReturnsProviderError(t *testing.T) {
	providerErr := errors.New("resend: 422 validation_error")
	sender := &fakeSender{err: providerErr}
	m := mailer.NewWithSender(sender)

	err := m.SendVerificationEmail(context.Background(), "merchant@example.com", "tok-123")
	require.ErrorIs(t, err, providerErr)
	assert.Len(t, sender.calls, 1)
}

func TestVerificationLinkRoundTripsToken(t *testing.T) {
	tokens := []string{
		"6f1c2a5e-1d4b-4f53-9a39-0e8d8c0a4b11",
		"a+b/c=d",
		"with space&amp",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			link, err := mailer.VerificationLink("https://admin.example.com/", mailer.DefaultVerificationPath, token)
			require.NoError(t, err)

			u, err := url.Parse(link)
			require.NoError(t, err)
			assert.Equal(t, "https", u.Scheme)
			assert.Equal(t, "admin.example.com", u.Host)
			assert.Equal(t, "/auth/email-verification", u.Path)
			assert.Equal(t, []string{token}, u.Query()["token"])
		})
	}
}

func TestMailerOptions(t *testing.T) {
	sender := &fakeSender{}
	m := mailer.NewWithSender(sender,
		mailer.WithFrom("Store <no-reply@store.test>"),
		mailer.WithSubject("Verify your account"),
		mailer.WithBaseURL("https://store.test/"),
		mailer.WithVerificationPath("verify"),
	)

	link, err := m.VerificationLink("abc")
	require.NoError(t, err)
	assert.Equal(t, "https://store.test/verify?token=abc", link)

	require.NoError(t, m.SendVerificationEmail(context.Background(), "a@b.com", "abc"))
	assert.Equal(t, "Store <no-reply@store.test>", sender.calls[0].From)
	assert.Equal(t, "Verify your account", sender.calls[0].Subject)
}
