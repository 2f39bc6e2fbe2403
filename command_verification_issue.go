package auth

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type IssueVerificationMessage struct {
	Email      string `json:"email" example:"pepe.rone@example.com" doc:"Recipient email."`
	OnResponse func(resp *IssueVerificationResponse)
}

func (e IssueVerificationMessage) Type() string { return "auth.verification.issue" }

type IssueVerificationResponse struct {
	Token      *VerificationToken
	Superseded int64
}

type IssueVerificationHandler struct {
	repo       RepositoryManager
	dispatcher VerificationDispatcher
	activity   ActivitySink
	logger     Logger
}

var _ VerificationIssuer = (*IssueVerificationHandler)(nil)

// NewIssueVerificationHandler creates a handler with sane defaults.
func NewIssueVerificationHandler(repo RepositoryManager, dispatcher VerificationDispatcher) *IssueVerificationHandler {
	return &IssueVerificationHandler{
		repo:       repo,
		dispatcher: dispatcher,
		activity:   noopActivitySink{},
		logger:     defLogger{},
	}
}

func (h *IssueVerificationHandler) WithActivitySink(sink ActivitySink) *IssueVerificationHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *IssueVerificationHandler) WithLogger(logger Logger) *IssueVerificationHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// Issue implements VerificationIssuer
func (h *IssueVerificationHandler) Issue(ctx context.Context, email string) (string, error) {
	var resp *IssueVerificationResponse
	err := h.Execute(ctx, IssueVerificationMessage{
		Email: email,
		OnResponse: func(r *IssueVerificationResponse) {
			resp = r
		},
	})
	if err != nil {
		return "", err
	}
	return resp.Token.Token(), nil
}

func (h *IssueVerificationHandler) Execute(ctx context.Context, event IssueVerificationMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during verification issue",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *IssueVerificationHandler) execute(ctx context.Context, event IssueVerificationMessage) error {
	if h.dispatcher == nil {
		return goerrors.Wrap(ErrMissingDispatcher, goerrors.CategoryInternal, "cannot issue verification token")
	}

	email := strings.TrimSpace(event.Email)
	if email == "" {
		return goerrors.New("verification email address is required", goerrors.CategoryBadInput)
	}

	recipientID, err := hashid.NewUUID(strings.ToLower(email))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to derive recipient id")
	}

	resp := &IssueVerificationResponse{}

	txCtx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	// the email goes out before commit so a failed send keeps earlier tokens usable
	var sendErr error
	err = h.repo.RunInTx(txCtx, nil, func(ctx context.Context, tx bun.Tx) error {
		superseded, err := h.repo.VerificationTokens().SupersedePendingTx(ctx, tx, recipientID)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to supersede pending verification tokens")
		}
		resp.Superseded = superseded

		now := time.Now().UTC()
		record := &VerificationToken{
			ID:          uuid.New(),
			RecipientID: recipientID,
			Email:       email,
			Status:      VerificationPendingStatus,
			CreatedAt:   &now,
			UpdatedAt:   &now,
		}

		created, err := h.repo.VerificationTokens().CreateTx(ctx, tx, record)
		if err != nil {
			if IsUniqueConstraintError(err) {
				return goerrors.Wrap(err, goerrors.CategoryConflict, "verification token collision")
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create verification token")
		}
		resp.Token = created

		if sendErr = h.dispatcher.SendVerificationEmail(ctx, email, created.Token()); sendErr != nil {
			return sendErr
		}
		return nil
	})

	// provider errors are returned as is
	if sendErr != nil {
		h.logger.Error("verification email failed", "email", email, "error", sendErr)
		return sendErr
	}

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return richErr
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue verification token")
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		EventType: ActivityEventVerificationIssued,
		Email:     email,
		Outcome:   "sent",
		Metadata: map[string]any{
			"superseded": resp.Superseded,
		},
	})

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
