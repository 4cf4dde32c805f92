package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/logiclens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the LogicLens HTTP server",
	Long: `Start the REST API server together with the background metrics sampler.

The server listens on SERVER_HOST:SERVER_PORT and shuts down gracefully on
SIGINT or SIGTERM, draining in-flight requests first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Config == nil {
			return fmt.Errorf("configuration not initialized")
		}

		srv := server.New(Config, Logs, Tracker, Monitor, Ollama, Notifier, Log)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go srv.RunSampler(ctx)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		Log.WithField("addr", Config.ListenAddr()).Info("server started")

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("running server: %w", err)
			}
		case <-ctx.Done():
			stop()
			Log.Info("shutdown signal received, draining requests")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down server: %w", err)
			}
		}

		fmt.Fprintln(os.Stderr, "server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
