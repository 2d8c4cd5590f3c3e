package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"a4-contact-backend/config"
	"a4-contact-backend/internal/domain"
	"a4-contact-backend/internal/usecase"
	"a4-contact-backend/pkg/email"
	"a4-contact-backend/pkg/logger"

	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("smtp check failed")

var rootCmd = &cobra.Command{
	Use:          "smtpcheck",
	Short:        "SMTP diagnostics for the contact backend",
	SilenceUsage: true,
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Connect and authenticate against the relay without sending",
	RunE:  runVerify,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the full SMTP status as JSON (sends one test email)",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getHealthUsecase() (domain.HealthUsecase, time.Duration, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.LogLevel, "text")

	transport := email.NewSMTPTransport(email.SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.SMTPFromEmail,
		Secure:    cfg.SMTPSecure,
		Timeout:   time.Duration(cfg.SMTPTimeoutSeconds) * time.Second,
	})
	if !transport.IsConfigured() {
		return nil, 0, email.ErrNotConfigured
	}

	return usecase.NewHealthUsecase(transport, usecase.HealthOptions{
		BusinessAddress: cfg.ContactEmailTo,
		BusinessName:    cfg.BusinessName,
	}), transport.Timeout(), nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	healthUC, timeout, err := getHealthUsecase()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	if !healthUC.CheckConnection(ctx) {
		return errCheckFailed
	}
	fmt.Println("SMTP connection OK")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	healthUC, timeout, err := getHealthUsecase()
	if err != nil {
		return err
	}

	// Two round trips: the handshake and the test email.
	ctx, cancel := context.WithTimeout(cmd.Context(), 2*timeout)
	defer cancel()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(healthUC.SMTPStatus(ctx))
}
