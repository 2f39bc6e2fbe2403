package auth

import "context"

// ActionRunner is the contract shared by the HTTP controller and the
// GraphQL resolvers
type ActionRunner interface {
	Login(ctx context.Context, values LoginValues) (ActionResult, error)
	Register(ctx context.Context, values RegisterValues) (ActionResult, error)
	ForgotPassword(ctx context.Context, value string) (ActionResult, error)
}

// Actions runs the sign in, sign up and forgot password commands
type Actions struct {
	login    *LoginHandler
	register *RegisterUserHandler
	forgot   *ForgotPasswordHandler
}

var _ ActionRunner = (*Actions)(nil)

type actionsOptions struct {
	mode     ValidationMode
	logger   Logger
	activity ActivitySink
	issuer   VerificationIssuer
}

// ActionsOption configures Actions
type ActionsOption func(*actionsOptions)

func WithActionsValidationMode(mode ValidationMode) ActionsOption {
	return func(o *actionsOptions) {
		o.mode = mode
	}
}

// WithActionsConfig picks the validation mode from cfg
func WithActionsConfig(cfg Config) ActionsOption {
	return func(o *actionsOptions) {
		if cfg == nil {
			return
		}
		o.mode = ValidationLenient
		if cfg.GetStrictValidation() {
			o.mode = ValidationStrict
		}
	}
}

func WithActionsLogger(logger Logger) ActionsOption {
	return func(o *actionsOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithActionsActivitySink(sink ActivitySink) ActionsOption {
	return func(o *actionsOptions) {
		o.activity = sink
	}
}

// WithActionsVerificationIssuer wires the confirmation email into register
func WithActionsVerificationIssuer(issuer VerificationIssuer) ActionsOption {
	return func(o *actionsOptions) {
		o.issuer = issuer
	}
}

func NewActions(opts ...ActionsOption) *Actions {
	o := &actionsOptions{
		mode:   ValidationLenient,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	return &Actions{
		login: NewLoginHandler().
			WithValidationMode(o.mode).
			WithLogger(o.logger).
			WithActivitySink(o.activity),
		register: NewRegisterUserHandler().
			WithValidationMode(o.mode).
			WithLogger(o.logger).
			WithActivitySink(o.activity).
			WithVerificationIssuer(o.issuer),
		forgot: NewForgotPasswordHandler().
			WithValidationMode(o.mode).
			WithLogger(o.logger).
			WithActivitySink(o.activity),
	}
}

func (a *Actions) Login(ctx context.Context, values LoginValues) (ActionResult, error) {
	var res ActionResult
	err := a.login.Execute(ctx, LoginMessage{
		Values:     values,
		OnResponse: func(r ActionResult) { res = r },
	})
	return res, err
}

func (a *Actions) Register(ctx context.Context, values RegisterValues) (ActionResult, error) {
	var res ActionResult
	err := a.register.Execute(ctx, RegisterUserMessage{
		Values:     values,
		OnResponse: func(r ActionResult) { res = r },
	})
	return res, err
}

func (a *Actions) ForgotPassword(ctx context.Context, value string) (ActionResult, error) {
	var res ActionResult
	err := a.forgot.Execute(ctx, ForgotPasswordMessage{
		Value:      value,
		OnResponse: func(r ActionResult) { res = r },
	})
	return res, err
}
