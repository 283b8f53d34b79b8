package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const shutdownTimeout = 5 * time.Second

// serve starts handler on addr and blocks until the context is cancelled or
// the process receives an interrupt or termination signal, then drains
// in-flight requests before returning.
func (app *application) serve(ctx context.Context, addr string, handler http.Handler) error {
	idleTimeout := 2 * time.Minute
	srv := &http.Server{
		ErrorLog:          slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
		Handler:           handler,
		IdleTimeout:       idleTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	shutdownComplete := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)

		var reason string
		select {
		case <-sigint:
			reason = "signal"
		case <-ctx.Done():
			reason = "context"
		}

		logCtx := context.Background()
		app.logger.LogAttrs(logCtx, slog.LevelInfo, "shutting down server", slog.String("reason", reason))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.LogAttrs(logCtx, slog.LevelError, "error shutting down server", slog.Any("error", err))
		}

		app.flightRecorder.Stop(logCtx)

		close(shutdownComplete)
	}()

	listenCfg := net.ListenConfig{
		KeepAlive: idleTimeout,
		KeepAliveConfig: net.KeepAliveConfig{
			Enable: true,
			Idle:   idleTimeout,
		},
	}
	listener, err := listenCfg.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("tcp listen: %w", err)
	}

	app.logger.LogAttrs(ctx, slog.LevelInfo, "starting server", slog.String("addr", listener.Addr().String()))
	if err = srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server serve: %w", err)
	}
	<-shutdownComplete

	return nil
}
