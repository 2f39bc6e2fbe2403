package main

import (
	"errors"

	"github.com/goliatone/go-merchant-auth"
	"github.com/goliatone/go-print"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verifyEmail string
	verifyToken string
)

var sendVerificationCmd = &cobra.Command{
	Use:   "send-verification",
	Short: "Send a verification email",
	Long: `Sends the confirmation email to --email. With --token the given token is
sent as is; without it a new token is issued and stored first.

Example:
  merchant-admin send-verification --email owner@store.test`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if verifyEmail == "" {
			return errors.New("--email is required")
		}
		if !cfg.HasEmailProvider() {
			return errors.New("RESEND_API_KEY is not set")
		}

		m := newMailer(cfg)

		if verifyToken != "" {
			if err := m.SendVerificationEmail(cmd.Context(), verifyEmail, verifyToken); err != nil {
				return err
			}
			logger.Info("verification email sent", zap.String("email", verifyEmail))
			return nil
		}

		app := &App{config: cfg, logger: logger}
		defer app.Close()
		if err := WithPersistence(cmd.Context(), app); err != nil {
			return err
		}

		var resp *auth.IssueVerificationResponse
		err := auth.NewIssueVerificationHandler(app.repo, m).
			WithLogger(app.GetLogger("verification")).
			Execute(cmd.Context(), auth.IssueVerificationMessage{
				Email: verifyEmail,
				OnResponse: func(r *auth.IssueVerificationResponse) {
					resp = r
				},
			})
		if err != nil {
			return err
		}

		if verbose {
			cmd.Println(print.MaybePrettyJSON(resp.Token))
		}
		logger.Info("verification email sent",
			zap.String("email", verifyEmail),
			zap.Int64("superseded", resp.Superseded),
		)
		return nil
	},
}

func init() {
	sendVerificationCmd.Flags().StringVar(&verifyEmail, "email", "", "recipient address")
	sendVerificationCmd.Flags().StringVar(&verifyToken, "token", "", "send this token instead of issuing one")
}
