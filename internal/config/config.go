// Package config loads service configuration from an optional YAML file
// and environment variables. Environment variables win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quentinrf/plant-monitor/services/rangefinder-service/internal/domain"
)

// Config holds application configuration
type Config struct {
	Port           string        `yaml:"port"`
	Backend        string        `yaml:"backend"`         // "script" | "sim"
	UpdateInterval time.Duration `yaml:"update_interval"` // backend reconcile tick
	RecordInterval time.Duration `yaml:"record_interval"` // snapshot cadence
	Retention      time.Duration `yaml:"retention"`
	Timeout        time.Duration `yaml:"timeout"` // script readings go stale after this
	MinDistanceM   float64       `yaml:"min_distance_m"`
	MaxDistanceM   float64       `yaml:"max_distance_m"`
	RepoType       string        `yaml:"repo_type"` // "memory" | "sqlite"
	DBDriver       string        `yaml:"db_driver"` // "sqlite3" (cgo) | "sqlite" (pure Go)
	DBPath         string        `yaml:"db_path"`
	TLSCert        string        `yaml:"tls_cert"`
	TLSKey         string        `yaml:"tls_key"`
	TLSCA          string        `yaml:"tls_ca"`
	LogLevel       string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	params := domain.DefaultParams()
	return Config{
		Port:           "50052",
		Backend:        "script",
		UpdateInterval: 50 * time.Millisecond,
		RecordInterval: time.Second,
		Retention:      7 * 24 * time.Hour,
		Timeout:        500 * time.Millisecond,
		MinDistanceM:   params.MinDistanceM,
		MaxDistanceM:   params.MaxDistanceM,
		RepoType:       "memory",
		DBDriver:       "sqlite3",
		DBPath:         "./rangefinder.db",
		LogLevel:       "info",
	}
}

// Load reads configuration. If CONFIG_FILE is set the YAML file is applied
// over the defaults, then environment variables are applied over that.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Params returns the sensing bounds
func (c Config) Params() domain.Params {
	return domain.Params{
		MinDistanceM: c.MinDistanceM,
		MaxDistanceM: c.MaxDistanceM,
	}
}

// Validate checks values that would make the service misbehave
func (c Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update_interval must be positive, got %v", c.UpdateInterval))
	}
	if c.RecordInterval <= 0 {
		errs = append(errs, fmt.Errorf("record_interval must be positive, got %v", c.RecordInterval))
	}
	if c.Retention <= 0 {
		errs = append(errs, fmt.Errorf("retention must be positive, got %v", c.Retention))
	}
	if c.Timeout < time.Millisecond {
		errs = append(errs, fmt.Errorf("timeout must be at least 1ms, got %v", c.Timeout))
	}
	if c.TLSCert != "" && (c.TLSKey == "" || c.TLSCA == "") {
		errs = append(errs, errors.New("tls_cert requires tls_key and tls_ca"))
	}
	if err := c.Params().Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.Backend, "BACKEND")
	setString(&c.RepoType, "REPO_TYPE")
	setString(&c.DBDriver, "DB_DRIVER")
	setString(&c.DBPath, "DB_PATH")
	setString(&c.TLSCert, "TLS_CERT")
	setString(&c.TLSKey, "TLS_KEY")
	setString(&c.TLSCA, "TLS_CA")
	setString(&c.LogLevel, "LOG_LEVEL")

	durations := []struct {
		dst *time.Duration
		key string
	}{
		{&c.UpdateInterval, "UPDATE_INTERVAL"},
		{&c.RecordInterval, "RECORD_INTERVAL"},
		{&c.Retention, "RETENTION"},
		{&c.Timeout, "TIMEOUT"},
	}
	for _, d := range durations {
		if err := setDuration(d.dst, d.key); err != nil {
			return err
		}
	}

	if err := setFloat(&c.MinDistanceM, "MIN_DISTANCE_M"); err != nil {
		return err
	}
	return setFloat(&c.MaxDistanceM, "MAX_DISTANCE_M")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = f
	return nil
}
