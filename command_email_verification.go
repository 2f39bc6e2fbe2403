package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type VerifyEmailMessage struct {
	Token      string `json:"token" example:"350399bc-c095-4bdc-a59c-3352d44848e4" doc:"Email verification token"`
	OnResponse func(resp *VerifyEmailResponse)
}

func (e VerifyEmailMessage) Type() string { return "auth.email.verify" }

type VerifyEmailResponse struct {
	Email    string `json:"email,omitempty"`
	Found    bool   `json:"found"`
	Expired  bool   `json:"expired"`
	Verified bool   `json:"verified"`
}

type VerifyEmailHandler struct {
	repo     RepositoryManager
	ttl      time.Duration
	activity ActivitySink
	logger   Logger
}

var _ EmailVerifier = (*VerifyEmailHandler)(nil)

// NewVerifyEmailHandler creates a handler with sane defaults.
func NewVerifyEmailHandler(repo RepositoryManager) *VerifyEmailHandler {
	return &VerifyEmailHandler{
		repo:     repo,
		ttl:      DefaultVerificationTTL,
		activity: noopActivitySink{},
		logger:   defLogger{},
	}
}

// WithTTL sets how long issued tokens stay valid.
func (h *VerifyEmailHandler) WithTTL(ttl time.Duration) *VerifyEmailHandler {
	if ttl > 0 {
		h.ttl = ttl
	}
	return h
}

func (h *VerifyEmailHandler) WithActivitySink(sink ActivitySink) *VerifyEmailHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *VerifyEmailHandler) WithLogger(logger Logger) *VerifyEmailHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Verify implements EmailVerifier
func (h *VerifyEmailHandler) Verify(ctx context.Context, token string) (*VerifyEmailResponse, error) {
	var resp *VerifyEmailResponse
	err := h.Execute(ctx, VerifyEmailMessage{
		Token: token,
		OnResponse: func(r *VerifyEmailResponse) {
			resp = r
		},
	})
	return resp, err
}

func (h *VerifyEmailHandler) Execute(ctx context.Context, event VerifyEmailMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during email verification")
	default:
		return h.execute(ctx, event)
	}
}

func (h *VerifyEmailHandler) execute(ctx context.Context, event VerifyEmailMessage) error {
	if strings.TrimSpace(event.Token) == "" {
		return goerrors.Wrap(ErrMissingToken, goerrors.CategoryBadInput, "email verification requires a token")
	}

	resp := &VerifyEmailResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := h.repo.VerificationTokens().GetByTokenTx(ctx, tx, event.Token)
		if err != nil {
			// unknown tokens are part of the expected flow
			if goerrors.IsNotFound(err) {
				resp.Found = false
				return nil
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve verification token")
		}

		resp.Found = true
		resp.Email = record.Email

		if !record.IsPending() {
			resp.Expired = true
			return nil
		}

		if record.CreatedAt == nil {
			return goerrors.New("verification token is missing creation date", goerrors.CategoryInternal)
		}

		if !IsWithinDuration(*record.CreatedAt, h.ttl) {
			resp.Expired = true
			if err := h.repo.VerificationTokens().UpdateStatusTx(ctx, tx, record.ID, VerificationExpiredStatus); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to expire verification token").
					WithTextCode(TextCodeTokenExpired)
			}
			return nil
		}

		if err := h.repo.VerificationTokens().UpdateStatusTx(ctx, tx, record.ID, VerificationVerifiedStatus); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mark verification token as used")
		}

		resp.Verified = true
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to execute email verification")
	}

	if resp.Verified {
		recordActivity(ctx, h.activity, h.logger, ActivityEvent{
			EventType: ActivityEventEmailVerified,
			Email:     resp.Email,
			Outcome:   "verified",
		})
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
