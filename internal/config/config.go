// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/JakeFAU/text-scraper/internal/scraper"
	"github.com/JakeFAU/text-scraper/internal/storage"
)

// EnvPrefix is prepended to every environment override, e.g. TEXTSCRAPER_STORE_PATH.
const EnvPrefix = "TEXTSCRAPER"

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Scraper ScraperConfig `mapstructure:"scraper"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ScraperConfig governs which pages are visited and how politely.
type ScraperConfig struct {
	URLTemplate   string        `mapstructure:"url_template"`
	StartID       int64         `mapstructure:"start_id"`
	EndID         int64         `mapstructure:"end_id"`
	Delay         time.Duration `mapstructure:"delay"`
	UserAgent     string        `mapstructure:"user_agent"`
	RespectRobots bool          `mapstructure:"respect_robots"`
}

// HTTPConfig configures the page request.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// StoreConfig selects the database backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
	Table  string `mapstructure:"table"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// MetricsConfig controls the optional Prometheus textfile dump.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.url_template", scraper.DefaultURLTemplate)
	v.SetDefault("scraper.start_id", 3640650)
	v.SetDefault("scraper.end_id", 3640660)
	v.SetDefault("scraper.delay", scraper.DefaultDelay)
	v.SetDefault("scraper.user_agent", "")
	v.SetDefault("scraper.respect_robots", false)
	v.SetDefault("http.timeout_seconds", 10)
	v.SetDefault("store.driver", storage.DriverSQLite)
	v.SetDefault("store.path", "texts.db")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.table", "texts")
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "")
	v.SetDefault("metrics.textfile_path", "")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if err := scraper.ValidateURLTemplate(c.Scraper.URLTemplate); err != nil {
		return fmt.Errorf("scraper.url_template: %w", err)
	}
	if c.Scraper.StartID > c.Scraper.EndID {
		return fmt.Errorf("scraper.start_id (%d) must be <= scraper.end_id (%d)", c.Scraper.StartID, c.Scraper.EndID)
	}
	if c.Scraper.Delay < 0 {
		return fmt.Errorf("scraper.delay must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	switch strings.ToLower(c.Store.Driver) {
	case storage.DriverSQLite:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path must be set for the sqlite driver")
		}
	case storage.DriverPostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver %q is not supported", c.Store.Driver)
	}
	return nil
}

// RequestTimeout converts the HTTP timeout into a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// StorageConfig maps the store section onto storage.Config.
func (c Config) StorageConfig() storage.Config {
	return storage.Config{
		Driver: c.Store.Driver,
		Path:   c.Store.Path,
		DSN:    c.Store.DSN,
		Table:  c.Store.Table,
	}
}
