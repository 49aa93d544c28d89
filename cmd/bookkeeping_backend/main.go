package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/SscSPs/bookkeeping_app/internal/platform/config"
	"github.com/spf13/cobra"
)

// @title Bookkeeping Backend API
// @version 1.0
// @description Payment reconciliation and ledger engine for small-business bookkeeping.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := newRootCmd(logger).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "bookkeeping_backend",
		Short: "Payment reconciliation and ledger backend",
		Long: `bookkeeping_backend serves the payment reconciliation API.

Example:
  bookkeeping_backend serve
  bookkeeping_backend migrate up`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(logger), newMigrateCmd(logger))
	return root
}

// loadConfig wraps config.LoadConfig so every command logs failures the same way.
func loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		return nil, err
	}
	return cfg, nil
}
