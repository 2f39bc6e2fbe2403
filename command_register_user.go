package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

type RegisterUserMessage struct {
	Values     RegisterValues
	OnResponse func(res ActionResult)
}

func (e RegisterUserMessage) Type() string { return "user.register" }

type RegisterUserHandler struct {
	mode     ValidationMode
	logger   Logger
	activity ActivitySink
	issuer   VerificationIssuer
}

// NewRegisterUserHandler creates a handler with sane defaults. Without an
// issuer registration only logs.
func NewRegisterUserHandler() *RegisterUserHandler {
	return &RegisterUserHandler{
		logger:   defLogger{},
		activity: noopActivitySink{},
	}
}

func (h *RegisterUserHandler) WithValidationMode(mode ValidationMode) *RegisterUserHandler {
	h.mode = mode
	return h
}

func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterUserHandler) WithActivitySink(sink ActivitySink) *RegisterUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// WithVerificationIssuer makes registration send a confirmation email.
func (h *RegisterUserHandler) WithVerificationIssuer(issuer VerificationIssuer) *RegisterUserHandler {
	h.issuer = issuer
	return h
}

func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) error {
	h.logger.Info("register",
		"email", event.Values.Email,
		"name", event.Values.Name,
		"password", redact(event.Values.Password),
	)

	parsed := SafeParseRegister(event.Values)
	if !h.mode.Accepts(parsed) {
		res := ErrorResult(MessageInvalidFields)
		h.record(ctx, event, res)
		respond(event.OnResponse, res)
		return nil
	}

	// lenient mode answers success for any payload, only valid ones get a token
	if h.issuer != nil && parsed.Success {
		if _, err := h.issuer.Issue(ctx, event.Values.Email); err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to dispatch verification email")
		}
	}

	res := SuccessResult(MessageRegisterSuccess)
	h.record(ctx, event, res)
	respond(event.OnResponse, res)
	return nil
}

func (h *RegisterUserHandler) record(ctx context.Context, event RegisterUserMessage, res ActionResult) {
	recordActivity(ctx, h.activity, h.logger, ActivityEvent{
		EventType: ActivityEventRegister,
		Email:     event.Values.Email,
		Outcome:   outcome(res),
		Metadata:  map[string]any{"name": event.Values.Name},
	})
}
