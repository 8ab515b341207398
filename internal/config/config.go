package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix namespaces every environment variable, e.g. BACKOFFICE_API_URL.
const Prefix = "BACKOFFICE"

// Config is the CLI runtime configuration.
type Config struct {
	APIURL       string        `envconfig:"API_URL" required:"true"`
	Token        string        `envconfig:"TOKEN"`
	SessionFile  string        `envconfig:"SESSION_FILE"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"10s"`
	Currency     string        `envconfig:"CURRENCY_SYMBOL" default:"₹"`
	Timezone     string        `envconfig:"TIMEZONE" default:"Asia/Kolkata"`
	FeedbackTTL  time.Duration `envconfig:"FEEDBACK_TTL" default:"6s"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"console"`

	location *time.Location
}

// Load reads the given dotenv files (missing files are skipped; real
// environment variables win) and then the environment.
func Load(envFiles ...string) (Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults is the configuration used without a remote backend (demo mode).
func Defaults() Config {
	cfg := Config{
		APIURL:       "memory://demo",
		Timeout:      10 * time.Second,
		Currency:     "₹",
		Timezone:     "Asia/Kolkata",
		FeedbackTTL:  6 * time.Second,
		PollInterval: 30 * time.Second,
		LogLevel:     "info",
		LogFormat:    "console",
	}
	_ = cfg.Validate()
	return cfg
}

// Validate checks values envconfig cannot and resolves the timezone.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		return errors.New("config: BACKOFFICE_API_URL is required")
	}
	if c.Timeout <= 0 {
		return errors.New("config: timeout must be positive")
	}
	if c.PollInterval < time.Second {
		return errors.New("config: poll interval must be at least 1s")
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.LogFormat)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: timezone: %w", err)
	}
	c.location = loc
	return nil
}

// Location is the timezone operators type dates in. UTC until Validate runs.
func (c Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}
