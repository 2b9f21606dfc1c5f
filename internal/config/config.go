package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models planline.yml.
type Config struct {
	Calendar struct {
		Timezone      string `yaml:"timezone"`
		GridCap       int    `yaml:"grid_cap"`
		BirthdayMatch string `yaml:"birthday_match"`
	} `yaml:"calendar"`
	Server struct {
		BasePath  string `yaml:"base_path"`
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"server"`
}

// Load reads and validates config from the workspace, falling back to
// defaults when the file does not exist.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "planline.yml")
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Calendar.GridCap < 0 {
		return fmt.Errorf("calendar.grid_cap must not be negative")
	}
	switch c.Calendar.BirthdayMatch {
	case "", "day-of-month", "day-and-month":
	default:
		return fmt.Errorf("calendar.birthday_match must be day-of-month or day-and-month, got %q", c.Calendar.BirthdayMatch)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("calendar.timezone: %w", err)
	}
	return nil
}

// Location resolves the configured time zone. "Local" or empty means the
// process-local zone.
func (c *Config) Location() (*time.Location, error) {
	tz := c.Calendar.Timezone
	if tz == "" || tz == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `calendar:
  timezone: Local
  grid_cap: 2
  birthday_match: day-of-month

server:
  base_path: /v0
  jwt_secret: ""
`
