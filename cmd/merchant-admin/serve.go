package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &App{config: cfg, logger: logger}
	defer app.Close()

	for _, step := range []func(context.Context, *App) error{
		WithPersistence,
		WithActions,
		WithHTTPServer,
	} {
		if err := step(ctx, app); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.Address),
			zap.String("env", cfg.Environment),
			zap.Bool("graphiql", cfg.IsDevelopment()),
		)
		if err := app.srv.Serve(cfg.Address); err != nil {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return app.fiber.ShutdownWithTimeout(10 * time.Second)
}
