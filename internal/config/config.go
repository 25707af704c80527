// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment overrides. Sections are
// separated by double underscores so key names may contain single ones,
// e.g. STATUSPULSE_SERVER__READ_TIMEOUT sets server.read_timeout.
const EnvPrefix = "STATUSPULSE_"

// Config is the root application configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Log           LogConfig           `koanf:"log"`
	JWT           JWTConfig           `koanf:"jwt"`
	Data          DataConfig          `koanf:"data"`
	CORS          CORSConfig          `koanf:"cors"`
	Notifications NotificationsConfig `koanf:"notifications"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or text
}

// JWTConfig holds session token settings.
type JWTConfig struct {
	SecretKey           string        `koanf:"secret_key"`
	AccessTokenDuration time.Duration `koanf:"access_token_duration"`
}

// DataConfig holds the data directory for durable state (the setup flag).
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// NotificationsConfig holds email delivery settings. Transport settings
// (host, credentials) are managed at runtime by administrators; only the
// deployment-level knobs live here.
type NotificationsConfig struct {
	Sink          string        `koanf:"sink"` // log or smtp
	FromAddress   string        `koanf:"from_address"`
	BatchSize     int           `koanf:"batch_size"`
	SendRate      float64       `koanf:"send_rate"` // emails per second
	SimulateSMTP  bool          `koanf:"simulate_smtp"`
	SimulateDelay time.Duration `koanf:"simulate_delay"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		JWT: JWTConfig{
			AccessTokenDuration: 12 * time.Hour,
		},
		Data: DataConfig{
			Dir: "data",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Notifications: NotificationsConfig{
			Sink:          "smtp",
			FromAddress:   "status@conzex.com",
			BatchSize:     50,
			SendRate:      5,
			SimulateSMTP:  true,
			SimulateDelay: 1500 * time.Millisecond,
		},
	}
}

// Load reads configuration from the given YAML file (optional, may be "")
// and applies STATUSPULSE_* environment overrides on top of defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log format %q: must be json or text", c.Log.Format)
	}
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("jwt.secret_key is required (set %sJWT__SECRET_KEY)", EnvPrefix)
	}
	if c.Notifications.Sink != "log" && c.Notifications.Sink != "smtp" {
		return fmt.Errorf("invalid notifications sink %q: must be log or smtp", c.Notifications.Sink)
	}
	if c.Notifications.BatchSize < 1 {
		return fmt.Errorf("notifications.batch_size must be positive")
	}
	return nil
}
