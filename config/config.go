// Package config loads runtime settings from the environment. A .env file
// in the working directory is honoured for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains all server configuration parameters.
type Config struct {
	Port        string `env:"PORT" envDefault:"3000"`
	FrontendURL string `env:"FRONTEND_URL"`
	CronSecret  string `env:"CRON_SECRET"`
	// LocalTicker runs the in-process minute loop. Disable it when an
	// external cron service drives /api/cron instead.
	LocalTicker bool `env:"LOCAL_TICKER" envDefault:"true"`

	VAPID VAPID `envPrefix:"VAPID_"`
	Push  Push  `envPrefix:"PUSH_"`
}

// VAPID holds the server's Web Push key pair and contact subject.
type VAPID struct {
	PublicKey  string `env:"PUBLIC_KEY"`
	PrivateKey string `env:"PRIVATE_KEY"`
	Subject    string `env:"SUBJECT" envDefault:"mailto:reminders@lakonic.dev"`
}

// Push contains delivery tuning parameters.
type Push struct {
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
	TTL     int           `env:"TTL" envDefault:"3600"`
}

// Load reads an optional .env file, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// AllowedOrigins returns the CORS allow-list: the configured frontend URL,
// the deployed frontends (including preview deployments), and the local
// development hosts.
func (c Config) AllowedOrigins() []string {
	origins := []string{
		"https://meal-notify.vercel.app",
		"https://meal-notify-git-main-*.vercel.app",
		"http://localhost:5173",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	if c.FrontendURL != "" {
		origins = append([]string{c.FrontendURL}, origins...)
	}
	return origins
}
