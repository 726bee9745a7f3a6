// Package config loads service settings from the environment.
package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const envPrefix = "dashboard"

// Config holds every setting of the dashboard service. Variables carry the
// DASHBOARD_ prefix, e.g. DASHBOARD_API_BASE_URL.
type Config struct {
	APIBaseURL string `envconfig:"API_BASE_URL" default:"http://127.0.0.1:8000/api"`
	APIToken   string `envconfig:"API_TOKEN"`

	// DatabaseURL points at a read-only replica. When set, snapshots are read
	// from it instead of the entity API.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	Port         string        `envconfig:"PORT" default:"8080"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
	FetchRetries uint64        `envconfig:"FETCH_RETRIES" default:"3"`

	// Carts idle for CartTTL are dropped; at most CartLimit are held at once.
	CartTTL   time.Duration `envconfig:"CART_TTL" default:"30m"`
	CartLimit int           `envconfig:"CART_LIMIT" default:"10000"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load reads an optional .env file, then the process environment. Variables
// already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return Config{}, errors.Wrap(err, "load env file")
	}

	var c Config
	if err := envconfig.Process(envPrefix, &c); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	if c.APIBaseURL == "" {
		return Config{}, errors.New("DASHBOARD_API_BASE_URL must not be empty")
	}
	return c, nil
}
