package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	httpadapter "github.com/Trimetilamin/Temperature-monitor/internal/adapter/http"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := app.serviceLogger()
			slog.SetDefault(logger)
			session := app.newSession(logger, true)
			if file != "" {
				if _, err := session.Load(cmd.Context(), file); err != nil {
					return err
				}
			}

			srv := httpadapter.NewServer(app.Config.HTTPAddr, session, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return err
				}
			case <-ctx.Done():
			}
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
				return err
			}
			logger.Info("shutdown complete")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Logger file to load at startup")
	return cmd
}
