package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newPersistenceClient(cfg)
		if err != nil {
			return err
		}
		defer client.DB().Close()

		if err := client.Migrate(cmd.Context()); err != nil {
			return err
		}

		report := client.Report()
		if report == nil || report.IsZero() {
			logger.Info("no new migrations")
			return nil
		}
		logger.Info("migrated", zap.String("report", report.String()))
		return nil
	},
}
