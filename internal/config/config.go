// Package config provides configuration management for StoragePulse.
// It uses Viper to load settings from files, environment variables, and CLI flags.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration for StoragePulse.
type Config struct {
	// ── Server ───────────────────────────────────────────────────────────────
	ServerHost string `mapstructure:"server_host"`
	Port       int    `mapstructure:"port"`

	// ── Catalog ──────────────────────────────────────────────────────────────
	// CatalogDSN is the SQLite DSN holding device templates. The default keeps
	// everything in memory; templates are reseeded on every start.
	CatalogDSN string `mapstructure:"catalog_dsn"`
	// CatalogFile optionally replaces the built-in templates (yaml or json).
	CatalogFile string `mapstructure:"catalog_file"`

	// ── Generator ────────────────────────────────────────────────────────────
	// Seed for the metrics generator; 0 seeds from the clock.
	Seed uint64 `mapstructure:"seed"`

	// ── Dashboard / poller ───────────────────────────────────────────────────
	// APIURL is the devices endpoint to poll. Empty means this server's own
	// endpoint; see PollURL.
	APIURL              string `mapstructure:"api_url"`
	PollIntervalSeconds int    `mapstructure:"poll_interval_seconds"`
	FetchTimeoutSeconds int    `mapstructure:"fetch_timeout_seconds"`
	DefaultSortKey      string `mapstructure:"default_sort_key"`
	DefaultSortDir      string `mapstructure:"default_sort_direction"`

	// ── Logging ──────────────────────────────────────────────────────────────
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // console | json
}

// Load reads config from file (./config.yaml or ~/.storagepulse/config.yaml)
// and falls back to defaults. Environment variables with prefix PULSE_
// override file values.
func Load() (*Config, error) {
	return load(viper.New(), true)
}

func load(v *viper.Viper, readFile bool) (*Config, error) {
	setDefaults(v)

	if readFile {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.storagepulse")
		if err := v.ReadInConfig(); err != nil {
			// config file is optional; ignore "not found" errors
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("PULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("port", 4000)

	v.SetDefault("catalog_dsn", ":memory:")
	v.SetDefault("catalog_file", "")

	v.SetDefault("seed", 0)

	v.SetDefault("api_url", "")
	v.SetDefault("poll_interval_seconds", 600) // 10 minutes
	v.SetDefault("fetch_timeout_seconds", 10)
	v.SetDefault("default_sort_key", "deviceScore")
	v.SetDefault("default_sort_direction", "desc")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("poll_interval_seconds must be positive, got %d", c.PollIntervalSeconds)
	}
	switch c.DefaultSortDir {
	case "asc", "desc":
	default:
		return fmt.Errorf("default_sort_direction must be asc or desc, got %q", c.DefaultSortDir)
	}
	return nil
}

// ListenAddr is host:port for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.Port)
}

// PollURL is the devices endpoint the dashboard polls: APIURL when set,
// otherwise this server's own endpoint reached over loopback.
func (c *Config) PollURL() string {
	if c.APIURL != "" {
		return c.APIURL
	}
	host := c.ServerHost
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port)) + "/api/devices"
}
