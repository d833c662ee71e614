// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all runtime settings. A .env file in the working
// directory is loaded first if present; real environment variables win.
type Config struct {
	// Port is the HTTP listen port.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite database file.
	DBPath string `env:"DB_PATH" envDefault:"./data/santa.db"`

	// GatewaySecret signs and verifies gateway JWTs. Required.
	GatewaySecret string `env:"GATEWAY_SECRET,notEmpty"`

	// TokenDuration is how long issued gateway tokens stay valid.
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`

	// WebhookURL is the chat gateway endpoint for outbound DMs.
	WebhookURL string `env:"WEBHOOK_URL,notEmpty"`

	// WebhookToken authenticates the coordinator to the gateway webhook.
	WebhookToken string `env:"WEBHOOK_TOKEN" envDefault:""`

	// NotifyDelay is the pause between post-start assignment DMs.
	NotifyDelay time.Duration `env:"NOTIFY_DELAY" envDefault:"500ms"`

	// ProfileURLTemplate renders a participant's profile link for the QR
	// export; %s is replaced with the user ID.
	ProfileURLTemplate string `env:"PROFILE_URL_TEMPLATE" envDefault:"https://discord.com/users/%s"`
}

// Load reads configuration from .env (if any) and the environment.
func Load() (*Config, error) {
	// Missing .env is not an error; deployments set real env vars.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
