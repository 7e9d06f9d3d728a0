package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diewo77/go-facto/internal/command"
	"github.com/diewo77/go-facto/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(e *env) *cobra.Command {
	var port string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := e.cfg
			if port != "" {
				cfg.Server.Port = port
			}

			conn, err := e.open()
			if err != nil {
				return err
			}
			if err := db.Prepare(conn, cfg.App.Migrations, cfg.App.Seed, e.log); err != nil {
				return err
			}

			app := NewApp(command.NewDispatcher(conn, e.log), e.log)
			srv := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      withLogging(app, e.log),
				ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
				WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
				IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				e.log.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			e.log.Info("shutdown signal received")

			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				e.log.Error("error during shutdown", zap.Error(err))
				return err
			}
			e.log.Info("server stopped gracefully")
			return nil
		},
	}

	c.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return c
}
