package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-merchant-auth"
	"github.com/goliatone/go-merchant-auth/config"
	"github.com/goliatone/go-merchant-auth/graph"
	"github.com/goliatone/go-merchant-auth/mailer"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	mflash "github.com/goliatone/go-router/middleware/flash"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

var _ auth.Config = (*config.Config)(nil)

type App struct {
	config  *config.Config
	logger  *zap.Logger
	client  *persistence.Client
	db      *bun.DB
	repo    auth.RepositoryManager
	mailer  *mailer.Mailer
	actions *auth.Actions
	srv     router.Server[*fiber.App]
	fiber   *fiber.App
}

func (a *App) GetLogger(name string) auth.Logger {
	return auth.NewZapLogger(a.logger.Named(name))
}

func newPersistenceClient(cfg *config.Config) (*persistence.Client, error) {
	return auth.NewPersistenceClient(auth.PersistenceConfig{
		DSN:   cfg.DatabaseDSN,
		Debug: cfg.Debug,
	})
}

func WithPersistence(ctx context.Context, app *App) error {
	client, err := newPersistenceClient(app.config)
	if err != nil {
		return err
	}

	if err := client.Migrate(ctx); err != nil {
		_ = client.DB().Close()
		return err
	}

	if report := client.Report(); report != nil && !report.IsZero() {
		app.logger.Info("migrations applied", zap.String("report", report.String()))
	}

	repo := auth.NewRepositoryManager(client.DB())
	if err := repo.Validate(); err != nil {
		_ = client.DB().Close()
		return err
	}

	app.client = client
	app.db = client.DB()
	app.repo = repo
	return nil
}

func newMailer(cfg *config.Config) *mailer.Mailer {
	return mailer.New(cfg.ResendAPIKey,
		mailer.WithFrom(cfg.EmailFrom),
		mailer.WithSubject(cfg.EmailSubject),
		mailer.WithBaseURL(cfg.GetBaseURL()),
	)
}

func WithActions(_ context.Context, app *App) error {
	sink := auth.NewLoggerActivitySink(app.GetLogger("activity"))

	opts := []auth.ActionsOption{
		auth.WithActionsLogger(app.GetLogger("actions")),
		auth.WithActionsActivitySink(sink),
		auth.WithActionsConfig(app.config),
	}

	if app.config.HasEmailProvider() {
		app.mailer = newMailer(app.config)
		issuer := auth.NewIssueVerificationHandler(app.repo, app.mailer).
			WithLogger(app.GetLogger("verification")).
			WithActivitySink(sink)
		opts = append(opts, auth.WithActionsVerificationIssuer(issuer))
	} else {
		app.logger.Warn("RESEND_API_KEY not set, registration will not send verification emails")
	}

	app.actions = auth.NewActions(opts...)
	return nil
}

func WithHTTPServer(_ context.Context, app *App) error {
	srv := router.NewFiberAdapter(func(_ *fiber.App) *fiber.App {
		app.fiber = router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:               "merchant-admin",
			UnescapePath:          true,
			PassLocalsToViews:     true,
			Views:                 auth.NewViewEngine(),
			DisableStartupMessage: !app.config.IsDevelopment(),
		}))
		return app.fiber
	})

	srv.Router().Use(mflash.New(mflash.ConfigDefault))

	verifier := auth.NewVerifyEmailHandler(app.repo).
		WithTTL(app.config.GetVerificationTTL()).
		WithLogger(app.GetLogger("verification")).
		WithActivitySink(auth.NewLoggerActivitySink(app.GetLogger("activity")))

	auth.RegisterAuthRoutes(srv.Router(),
		auth.WithControllerDebug(app.config.Debug),
		auth.WithControllerLogger(app.GetLogger("http")),
		auth.WithControllerActions(app.actions),
		auth.WithControllerVerifier(verifier),
	)

	schema, err := graph.NewSchema(app.actions)
	if err != nil {
		return fmt.Errorf("build graphql schema: %w", err)
	}
	graph.Mount(app.fiber, app.config.GraphQLPath, graph.NewHandler(schema, app.config.IsDevelopment()))

	app.srv = srv
	return nil
}

func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
