package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type ForgotPasswordMessage struct {
	Value      string
	OnResponse func(res ActionResult)
}

func (e ForgotPasswordMessage) Type() string { return "auth.forgot_password" }

type ForgotPasswordHandler struct {
	mode     ValidationMode
	logger   Logger
	activity ActivitySink
}

// NewForgotPasswordHandler creates a handler with sane defaults.
func NewForgotPasswordHandler() *ForgotPasswordHandler {
	return &ForgotPasswordHandler{
		logger:   defLogger{},
		activity: noopActivitySink{},
	}
}

func (h *ForgotPasswordHandler) WithValidationMode(mode ValidationMode) *ForgotPasswordHandler {
	h.mode = mode
	return h
}

func (h *ForgotPasswordHandler) WithLogger(logger Logger) *ForgotPasswordHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *ForgotPasswordHandler) WithActivitySink(sink ActivitySink) *ForgotPasswordHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *ForgotPasswordHandler) Execute(ctx context.Context, event ForgotPasswordMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset request",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *ForgotPasswordHandler) execute(ctx context.Context, event ForgotPasswordMessage) error {
	h.logger.Info("forgot password", "value", event.Value)

	res := SuccessResult(MessageResetSuccess)

	parsed := SafeParseReset(event.Value)
	if !h.mode.Accepts(parsed) {
		res = ErrorResult(MessageInvalidFields)
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		EventType: ActivityEventPasswordResetRequested,
		Email:     event.Value,
		Outcome:   outcome(res),
	})

	respond(event.OnResponse, res)
	return nil
}
