package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/rentalmanager/internal/identity"
	"github.com/mmynk/rentalmanager/internal/rpc"
	"github.com/mmynk/rentalmanager/internal/storage"
	"github.com/mmynk/rentalmanager/internal/storage/jsonstore"
	"github.com/mmynk/rentalmanager/internal/storage/seeddata"
)

func serveCmd() *cobra.Command {
	var noSeed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Connect API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts := jsonstore.Options{SerializeWrites: cfg.SerializeWrites, Logger: logger}
			var templates fs.FS = seeddata.FS
			if noSeed {
				templates = nil
			}
			store, err := storage.Open(cfg.DataDir, templates, opts)
			if err != nil {
				return err
			}
			logger.Info("Record store ready", "dir", store.Dir(), "serialize_writes", cfg.SerializeWrites)

			provider, accounts, err := openProvider(cfg, logger)
			if err != nil {
				return err
			}
			defer accounts.Close()

			session := identity.NewSession(provider, store.Users, identity.SessionOptions{
				DefaultUnit: cfg.DefaultUnit,
				Logger:      logger,
			})
			defer session.Close()

			mux := rpc.NewMux(
				rpc.NewAuthHandler(session, provider, logger),
				rpc.NewTenantHandler(store, provider, cfg.Currency, logger),
			)
			handler := h2c.NewHandler(loggingMiddleware(rpc.CORS(mux)), &http2.Server{})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listen(ctx, fmt.Sprintf(":%d", cfg.Port), handler, logger)
		},
	}

	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "do not create missing collection files from the bundled sample data")
	return cmd
}

// listen serves handler on addr until ctx is canceled, then drains
// in-flight requests.
func listen(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
