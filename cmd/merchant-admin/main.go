package main

import (
	"fmt"
	"os"

	"github.com/goliatone/go-merchant-auth/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	logger  *zap.Logger
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "merchant-admin",
	Short: "Merchant admin auth and GraphQL server",
	Long: `merchant-admin serves the sign in, registration, email verification and
password reset pages of the merchant admin together with the GraphQL API.

Configuration is read from the environment (APP_ENV, HTTP_ADDR, APP_BASE_URL,
RESEND_API_KEY, DATABASE_DSN, ...).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if cfg.IsDevelopment() {
			zcfg = zap.NewDevelopmentConfig()
		}
		if verbose || cfg.Debug {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sendVerificationCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
