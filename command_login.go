package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type LoginMessage struct {
	Values     LoginValues
	OnResponse func(res ActionResult)
}

func (e LoginMessage) Type() string { return "auth.login" }

type LoginHandler struct {
	mode     ValidationMode
	logger   Logger
	activity ActivitySink
}

// NewLoginHandler creates a handler with sane defaults.
func NewLoginHandler() *LoginHandler {
	return &LoginHandler{
		logger:   defLogger{},
		activity: noopActivitySink{},
	}
}

// WithValidationMode sets how parse results are read.
func (h *LoginHandler) WithValidationMode(mode ValidationMode) *LoginHandler {
	h.mode = mode
	return h
}

// WithLogger overrides the logger used by the handler.
func (h *LoginHandler) WithLogger(logger Logger) *LoginHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithActivitySink sets the sink used to emit login events.
func (h *LoginHandler) WithActivitySink(sink ActivitySink) *LoginHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

func (h *LoginHandler) Execute(ctx context.Context, event LoginMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginHandler) execute(ctx context.Context, event LoginMessage) error {
	h.logger.Info("login", "email", event.Values.Email, "password", redact(event.Values.Password))

	res := SuccessResult(MessageLoginSuccess)

	parsed := SafeParseLogin(event.Values)
	if !h.mode.Accepts(parsed) {
		h.logger.Debug("login rejected", "fields", parsed.Fields)
		res = ErrorResult(MessageInvalidFields)
	}

	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		EventType: ActivityEventLoginAttempt,
		Email:     event.Values.Email,
		Outcome:   outcome(res),
	})

	respond(event.OnResponse, res)
	return nil
}

func respond(fn func(ActionResult), res ActionResult) {
	if fn != nil {
		fn(res)
	}
}

func outcome(res ActionResult) string {
	if res.Succeeded() {
		return "success"
	}
	return "rejected"
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}
