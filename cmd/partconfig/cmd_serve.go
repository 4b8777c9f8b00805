package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/JonMunkholm/partconfig/internal/web"
	"github.com/spf13/cobra"
)

func runServe(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), func(a *app) error {
		slog.Info("configuration loaded",
			"addr", a.cfg.Server.Addr(),
			"output_dir", a.cfg.Output.Dir,
			"database", a.pool != nil,
			"rate_limit_enabled", a.cfg.Rate.Enabled,
		)
		slog.Info("parts registered", "count", core.PartCount(), "groups", len(core.Groups()))

		server := web.NewServer(a.service, a.catalog, a.cfg)

		// Graceful shutdown
		done := make(chan struct{})
		go func() {
			defer close(done)
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			slog.Info("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				slog.Error("shutdown error", "error", err)
			}
		}()

		slog.Info("server starting", "addr", a.cfg.Server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		<-done
		slog.Info("server stopped")
		return nil
	})
}
