package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dhartley/liftcoach/internal/errors"
)

type healthResponse struct {
	Status string `json:"status"`
	DB     bool   `json:"db"`
	AI     bool   `json:"ai"`
}

// handleHealth reports whether the database and AI provider are reachable.
// It always responds 200 with the per-dependency booleans so callers can
// distinguish "service down" from "one dependency degraded", except when
// the database itself is unreachable, which is a 503: nothing in this
// service works without it.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dbOK := app.db.ReadWrite.PingContext(ctx) == nil
	aiOK, aiErr := app.aiProvider.HealthCheck(ctx)
	if aiErr != nil {
		app.logger.WarnContext(ctx, "ai provider health check failed", errors.SlogError(aiErr))
	}

	status := http.StatusOK
	statusText := "ok"
	if !dbOK {
		status = http.StatusServiceUnavailable
		statusText = "degraded"
	}

	writeJSON(w, status, healthResponse{Status: statusText, DB: dbOK, AI: aiOK})
}
