package auth

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds the options the auth surface reads at startup
type Config interface {
	GetBaseURL() string
	GetVerificationTTL() time.Duration
	GetStrictValidation() bool
	IsDevelopment() bool
}

// VerificationDispatcher delivers the confirmation email for a token
type VerificationDispatcher interface {
	SendVerificationEmail(ctx context.Context, email, token string) error
}

// VerificationIssuer records a verification token for an email and
// dispatches it, returning the token
type VerificationIssuer interface {
	Issue(ctx context.Context, email string) (string, error)
}

// EmailVerifier consumes a verification token
type EmailVerifier interface {
	Verify(ctx context.Context, token string) (*VerifyEmailResponse, error)
}

type defLogger struct{}

func (d defLogger) Debug(msg string, args ...any) { printLine("DBG", msg, args) }
func (d defLogger) Info(msg string, args ...any)  { printLine("INF", msg, args) }
func (d defLogger) Warn(msg string, args ...any)  { printLine("WRN", msg, args) }
func (d defLogger) Error(msg string, args ...any) { printLine("ERR", msg, args) }

func printLine(level, msg string, args []any) {
	if len(args) == 0 {
		fmt.Printf("[%s] AUTH %s\n", level, msg)
		return
	}
	fmt.Printf("[%s] AUTH %s %v\n", level, msg, args)
}
