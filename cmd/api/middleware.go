package main

import (
	"context"
	"crypto/rand"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dhartley/liftcoach/internal/apperrors"
	"github.com/dhartley/liftcoach/internal/contexthelpers"
	"github.com/dhartley/liftcoach/internal/errors"
	"github.com/dhartley/liftcoach/internal/logging"
)

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("Referrer-Policy", "origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func (app *application) corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && app.allowsOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (app *application) allowsOrigin(origin string) bool {
	if app.corsAllowedOrigins == "*" {
		return true
	}
	for _, allowed := range strings.Split(app.corsAllowedOrigins, ",") {
		if strings.TrimSpace(allowed) == origin {
			return true
		}
	}
	return false
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := rand.Text()
		r = contexthelpers.SetRequestID(r, requestID)
		ctx := logging.WithAttrs(r.Context(),
			slog.String("request_id", requestID),
			slog.String("method", r.Method),
			slog.String("uri", r.URL.RequestURI()),
		)
		r = r.WithContext(ctx)
		app.logger.LogAttrs(ctx, slog.LevelDebug, "received request")
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if recovered := recover(); recovered != nil {
				app.writeError(w, r, errors.DecoratePanic(recovered))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// authenticate verifies the Authorization header and injects the caller's
// user id into the request context. It is applied to every /api/v1 route;
// /health is mounted outside it.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := app.authVerifier.VerifyHeader(r.Header.Get("Authorization"))
		if err != nil {
			app.writeError(w, r, err)
			return
		}
		r = contexthelpers.AuthenticateContext(r, userID)
		next.ServeHTTP(w, r)
	})
}

// timeout bounds handler latency and captures a flight recording when a
// request is aborted, so slow AI calls can be diagnosed after the fact
// without needing to reproduce them.
func (app *application) timeout(next http.Handler) http.Handler {
	handlerTimeout := app.aiTimeout + 5*time.Second
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), handlerTimeout)
		defer cancel()
		r = r.WithContext(ctx)

		done := make(chan struct{})
		go func() {
			next.ServeHTTP(w, r)
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			app.logger.LogAttrs(r.Context(), slog.LevelWarn, "request timed out")
			app.flightRecorder.CaptureTimeoutTrace(r.Context())
			writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "request timed out"})
		}
	})
}

// writeError logs err and renders it as a JSON body with the status code
// apperrors.StatusCode maps it to.
func (app *application) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "request failed", errors.SlogError(err))
	} else {
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "request rejected", errors.SlogError(err))
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
