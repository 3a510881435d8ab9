package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/rentalmanager/internal/config"
	"github.com/mmynk/rentalmanager/internal/identity/local"
	"github.com/mmynk/rentalmanager/internal/storage/sqlite"
	"github.com/mmynk/rentalmanager/pkg/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "rentalmanager",
		Short:        "Tenant portal backend: bills, payments, maintenance and notifications",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		seedCmd(),
		accountCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the settings and installs the logger every command uses.
func loadConfig() (config.App, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.App{}, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, logging.Setup(cfg.LogLevel, cfg.LogFormat), nil
}

// openProvider opens the account database and builds the local identity
// provider on top of it. The caller closes the returned store.
func openProvider(cfg config.App, logger *slog.Logger) (*local.Provider, *sqlite.AccountStore, error) {
	accounts, err := sqlite.New(cfg.AuthDBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Account database ready", "database", cfg.AuthDBPath)

	tokens := local.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	provider := local.NewProvider(accounts, tokens, nil, local.Config{
		AllowSignUp:       cfg.AllowSignUp,
		MaxFailedAttempts: cfg.MaxFailedSignIns,
		LockoutWindow:     cfg.LockoutWindow,
	}, logger)
	return provider, accounts, nil
}
