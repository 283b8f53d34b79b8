// Package config loads the process's environment-driven configuration using
// envstruct, the same reflection-based populator the rest of the stack uses
// for typed settings.
package config

import (
	"fmt"

	"github.com/dhartley/liftcoach/internal/envstruct"
)

// Config holds every environment-driven setting the service needs to start.
type Config struct {
	Addr string `env:"LIFTCOACH_ADDR" envDefault:"localhost:8080"`

	DatabaseURL    string `env:"LIFTCOACH_DATABASE_URL" envDefault:"liftcoach.db"`
	DBMaxOpenConns int    `env:"LIFTCOACH_DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int    `env:"LIFTCOACH_DB_MAX_IDLE_CONNS" envDefault:"10"`

	JWTSecret string `env:"LIFTCOACH_JWT_SECRET" envDefault:"dev-secret-change-me"`

	AIProvider        string `env:"LIFTCOACH_AI_PROVIDER" envDefault:"gemini"`
	AIAPIKey          string `env:"LIFTCOACH_AI_API_KEY" envDefault:""`
	AIModel           string `env:"LIFTCOACH_AI_MODEL" envDefault:"gemini-2.0-flash"`
	AIBaseURL         string `env:"LIFTCOACH_AI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	AITimeoutSeconds  int    `env:"LIFTCOACH_AI_TIMEOUT_SECONDS" envDefault:"15"`

	CORSAllowedOrigins string `env:"LIFTCOACH_CORS_ALLOWED_ORIGINS" envDefault:"*"`
	Environment        string `env:"LIFTCOACH_ENVIRONMENT" envDefault:"development"`
}

// Load populates a Config from the environment using lookupEnv, which has the
// same signature as [os.LookupEnv].
func Load(lookupEnv func(string) (string, bool)) (Config, error) {
	var cfg Config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return Config{}, fmt.Errorf("populate config: %w", err)
	}
	return cfg, nil
}
