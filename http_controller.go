package auth

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

// MessageActionFailed is shown when an action errors. Details stay in the log.
const MessageActionFailed = "Something went wrong!"

// RegisterAuthRoutes mounts the auth pages and the action endpoints on app
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Get(controller.Routes.Login, controller.LoginShow).
		SetName("sign-in.get")
	app.Post(controller.Routes.Login, controller.LoginPost).
		SetName("sign-in.post")

	app.Get(controller.Routes.Register, controller.RegistrationShow).
		SetName("register.get")
	app.Post(controller.Routes.Register, controller.RegistrationCreate).
		SetName("register.post")

	app.Get(controller.Routes.PasswordReset, controller.PasswordResetShow).
		SetName("pwd-reset.get")
	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost).
		SetName("pwd-reset.post")

	app.Get(controller.Routes.EmailVerification, controller.EmailVerification).
		SetName("email-verification.get")
	app.Get(controller.Routes.Callback, controller.Callback).
		SetName("callback.get")

	app.Post(controller.Routes.Actions+"/:action", controller.ActionPost).
		SetName("actions.post")

	return controller
}

type AuthControllerRoutes struct {
	Login             string
	Register          string
	PasswordReset     string
	EmailVerification string
	Callback          string
	Actions           string
}

type AuthControllerViews struct {
	Login             string
	Register          string
	PasswordReset     string
	EmailVerification string
	Callback          string
}

type AuthController struct {
	Debug    bool
	Logger   Logger
	Actions  ActionRunner
	Verifier EmailVerifier
	Routes   *AuthControllerRoutes
	Views    *AuthControllerViews
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerActions(actions ActionRunner) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Actions = actions
		return c
	}
}

// WithControllerVerifier enables token consumption on the verification page
func WithControllerVerifier(verifier EmailVerifier) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Verifier = verifier
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Login:             "/auth/login",
			Register:          "/auth/register",
			PasswordReset:     "/auth/reset-password",
			EmailVerification: "/auth/email-verification",
			Callback:          "/auth/callback",
			Actions:           "/auth/actions",
		},
		Views: &AuthControllerViews{
			Login:             "login",
			Register:          "register",
			PasswordReset:     "reset_password",
			EmailVerification: "email_verification",
			Callback:          "callback",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Actions == nil {
		panic("Missing ActionRunner in auth controller...")
	}

	return c
}

func (a *AuthController) view(title string, data router.ViewContext) router.ViewContext {
	out := router.ViewContext{
		"title": title,
		"routes": map[string]string{
			"login":    a.Routes.Login,
			"register": a.Routes.Register,
			"reset":    a.Routes.PasswordReset,
		},
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func resultView(res ActionResult) router.ViewContext {
	return router.ViewContext{
		"success": res.Success,
		"error":   res.Error,
	}
}

func (a *AuthController) LoginShow(ctx router.Context) error {
	return ctx.Render(a.Views.Login, a.view("Login", nil))
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(LoginValues)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Login, a.view("Login", router.ViewContext{
			"error": "Failed to parse form",
		}))
	}

	res, err := a.Actions.Login(ctx.Context(), *payload)
	if err != nil {
		a.Logger.Error("login action", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error running login",
		}).Status(fiber.StatusInternalServerError).Render(a.Views.Login, a.view("Login", router.ViewContext{
			"error":  MessageActionFailed,
			"record": payload,
		}))
	}

	data := resultView(res)
	data["record"] = payload
	data["fields"] = a.fieldErrors(res, SafeParseLogin(*payload))
	return ctx.Render(a.Views.Login, a.view("Login", data))
}

func (a *AuthController) RegistrationShow(ctx router.Context) error {
	return ctx.Render(a.Views.Register, a.view("Register", router.ViewContext{
		"record": RegisterValues{},
	}))
}

func (a *AuthController) RegistrationCreate(ctx router.Context) error {
	payload := new(RegisterValues)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.Register, a.view("Register", router.ViewContext{
			"error": "Failed to parse form",
		}))
	}

	if a.Debug {
		a.Logger.Debug("register payload", "payload", print.MaybePrettyJSON(RegisterValues{
			Email: payload.Email,
			Name:  payload.Name,
		}))
	}

	res, err := a.Actions.Register(ctx.Context(), *payload)
	if err != nil {
		a.Logger.Error("register action", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error registering user",
		}).Status(fiber.StatusInternalServerError).Render(a.Views.Register, a.view("Register", router.ViewContext{
			"error":  MessageActionFailed,
			"record": payload,
		}))
	}

	data := resultView(res)
	data["record"] = payload
	data["fields"] = a.fieldErrors(res, SafeParseRegister(*payload))
	return ctx.Render(a.Views.Register, a.view("Register", data))
}

func (a *AuthController) PasswordResetShow(ctx router.Context) error {
	return ctx.Render(a.Views.PasswordReset, a.view("Reset password", nil))
}

// PasswordResetPayload holds the forgot password form
type PasswordResetPayload struct {
	Email string `form:"email" json:"email"`
}

func (a *AuthController) PasswordResetPost(ctx router.Context) error {
	payload := new(PasswordResetPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("password reset parse payload", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error parsing body",
		}).Status(fiber.StatusBadRequest).Render(a.Views.PasswordReset, a.view("Reset password", router.ViewContext{
			"error": "Failed to parse form",
		}))
	}

	res, err := a.Actions.ForgotPassword(ctx.Context(), payload.Email)
	if err != nil {
		a.Logger.Error("password reset action", "error", err)
		return flash.WithError(ctx, router.ViewContext{
			"error_message":  err.Error(),
			"system_message": "Error requesting password reset",
		}).Status(fiber.StatusInternalServerError).Render(a.Views.PasswordReset, a.view("Reset password", router.ViewContext{
			"error":  MessageActionFailed,
			"record": payload.Email,
		}))
	}

	data := resultView(res)
	data["record"] = payload.Email
	return ctx.Render(a.Views.PasswordReset, a.view("Reset password", data))
}

const (
	verificationMissingToken = "Missing token!"
	verificationNotFound     = "Token does not exist!"
	verificationExpired      = "Token has expired!"
	verificationSuccess      = "Email verified!"
)

func (a *AuthController) EmailVerification(ctx router.Context) error {
	token := strings.TrimSpace(ctx.Query("token"))
	if token == "" {
		return ctx.Render(a.Views.EmailVerification, a.view("Email verification", router.ViewContext{
			"error": verificationMissingToken,
		}))
	}

	// without a verifier the page only shows the pending state
	if a.Verifier == nil {
		return ctx.Render(a.Views.EmailVerification, a.view("Email verification", router.ViewContext{
			"token": token,
		}))
	}

	resp, err := a.Verifier.Verify(ctx.Context(), token)
	if err != nil {
		a.Logger.Error("email verification", "error", err)
		return ctx.Status(fiber.StatusInternalServerError).Render(a.Views.EmailVerification, a.view("Email verification", router.ViewContext{
			"error": MessageActionFailed,
		}))
	}

	data := router.ViewContext{"token": token}
	switch {
	case !resp.Found:
		data["error"] = verificationNotFound
	case resp.Expired:
		data["error"] = verificationExpired
	default:
		data["success"] = verificationSuccess
	}

	return ctx.Render(a.Views.EmailVerification, a.view("Email verification", data))
}

func (a *AuthController) Callback(ctx router.Context) error {
	redirect := SafeRedirect(ctx.Query("redirect"), "/")
	return ctx.Render(a.Views.Callback, a.view("Signing in", router.ViewContext{
		"redirect": redirect,
	}))
}

// ActionPost runs a server action from a JSON or form body
func (a *AuthController) ActionPost(ctx router.Context) error {
	var (
		res ActionResult
		err error
	)

	action := ctx.Param("action")
	switch action {
	case "login":
		payload := new(LoginValues)
		if perr := ctx.Bind(payload); perr != nil {
			return a.actionParseError(ctx, action, perr)
		}
		res, err = a.Actions.Login(ctx.Context(), *payload)
	case "register":
		payload := new(RegisterValues)
		if perr := ctx.Bind(payload); perr != nil {
			return a.actionParseError(ctx, action, perr)
		}
		res, err = a.Actions.Register(ctx.Context(), *payload)
	case "forgot-password":
		payload := new(PasswordResetPayload)
		if perr := ctx.Bind(payload); perr != nil {
			return a.actionParseError(ctx, action, perr)
		}
		res, err = a.Actions.ForgotPassword(ctx.Context(), payload.Email)
	default:
		return ctx.JSON(fiber.StatusNotFound, ErrorResult(ErrUnknownAction.Error()))
	}

	if err != nil {
		a.Logger.Error("action failed", "action", action, "error", err)
		return ctx.JSON(router.StatusInternalServerError, ErrorResult(MessageActionFailed))
	}

	return ctx.JSON(router.StatusOK, res)
}

func (a *AuthController) actionParseError(ctx router.Context, action string, err error) error {
	a.Logger.Error("action parse payload", "action", action, "error", err)
	return ctx.JSON(router.StatusBadRequest, ErrorResult(ErrUnableToParseData.Error()))
}

// fieldErrors exposes per field messages only when the action rejected the payload
func (a *AuthController) fieldErrors(res ActionResult, parsed *ParseResult) map[string]string {
	if res.Succeeded() || parsed == nil {
		return map[string]string{}
	}
	return parsed.Fields
}

// SafeRedirect returns target when it is a local path, def otherwise
func SafeRedirect(target, def string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return def
	}

	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return def
	}

	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return def
	}

	return target
}
