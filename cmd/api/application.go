// Command api runs the liftcoach recommendation service: an HTTP surface
// over the context builder, prompt builder, AI provider, rule engine, and
// set-logging transaction that make up the recommendation pipeline.
package main

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dhartley/liftcoach/internal/aiprovider"
	"github.com/dhartley/liftcoach/internal/auth"
	"github.com/dhartley/liftcoach/internal/flightrecorder"
	"github.com/dhartley/liftcoach/internal/sqlite"
)

// application wires every collaborator a handler might need. It is built
// once in main and referenced read-only from then on.
type application struct {
	logger             *slog.Logger
	db                 *sqlite.Database
	catalog            *sqlite.CatalogRepository
	aiProvider         aiprovider.Provider
	authVerifier       *auth.Verifier
	validator          *validator.Validate
	flightRecorder     *flightrecorder.Service
	corsAllowedOrigins string
	aiTimeout          time.Duration
}
