package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fhop/bookclub/pkg/plan"
)

// FileName is the config file looked up in the data directory.
const FileName = "config.yaml"

const defaultPollInterval = 2 * time.Second

// Config holds application configuration.
type Config struct {
	DataDir string `yaml:"-"`

	// Mode is the plan shown by default: "year" or "six_months".
	Mode string `yaml:"mode"`
	// Year pins the plan year. Zero means the current calendar year.
	Year int `yaml:"year,omitempty"`
	// PollInterval is how often the TUI rechecks progress files when the
	// file watcher misses a change. Zero disables polling.
	PollInterval time.Duration `yaml:"poll_interval"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the configuration used when no file or env is present.
func Default(dataDir string) *Config {
	return &Config{
		DataDir:      dataDir,
		Mode:         plan.ModeYear,
		PollInterval: defaultPollInterval,
		LogLevel:     "info",
	}
}

// Load reads <dataDir>/config.yaml if it exists, then applies environment
// overrides, then validates the result.
func Load(dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	path := filepath.Join(dataDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Mode = getEnv("BOOKCLUB_MODE", c.Mode)
	c.LogLevel = getEnv("BOOKCLUB_LOG_LEVEL", c.LogLevel)

	if v := os.Getenv("BOOKCLUB_YEAR"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BOOKCLUB_YEAR: %w", err)
		}
		c.Year = year
	}
	if v := os.Getenv("BOOKCLUB_POLL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("BOOKCLUB_POLL: %w", err)
		}
		c.PollInterval = d
	}
	return nil
}

// Validate checks that every field holds a supported value.
func (c *Config) Validate() error {
	if _, err := plan.ParseDuration(c.Mode); err != nil {
		return fmt.Errorf("config mode: %w", err)
	}
	if c.Year < 0 {
		return fmt.Errorf("config year must not be negative, got %d", c.Year)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("config poll_interval must not be negative, got %s", c.PollInterval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Duration returns the configured plan duration.
func (c *Config) Duration() plan.Duration {
	d, err := plan.ParseDuration(c.Mode)
	if err != nil {
		return plan.Year
	}
	return d
}

// PlanYear resolves the year plans are generated for.
func (c *Config) PlanYear(now time.Time) int {
	if c.Year != 0 {
		return c.Year
	}
	return now.Year()
}

// Level parses LogLevel into a slog level.
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config log_level: %w", err)
	}
	return lvl, nil
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
