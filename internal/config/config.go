package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the service settings of the formstage server.
type Config struct {
	Addr    string        `yaml:"addr"`
	Form    string        `yaml:"form"`
	Logging LoggingConfig `yaml:"logging"`
	Assets  AssetsConfig  `yaml:"assets"`
	// StartStage overrides the form's start stage when positive.
	StartStage int `yaml:"start_stage"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// AssetsConfig controls how pages reference their script and styles.
type AssetsConfig struct {
	HTMX      string `yaml:"htmx"`
	InlineCSS bool   `yaml:"inline_css"`
}

// DefaultHTMX is the script URL pages load when none is configured.
const DefaultHTMX = "https://unpkg.com/htmx.org@1.9.12"

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Addr:    ":8080",
		Logging: LoggingConfig{Level: "info"},
		Assets: AssetsConfig{
			HTMX:      DefaultHTMX,
			InlineCSS: true,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv resolves FORMSTAGE_ADDR first, then PORT, then LOG_LEVEL and
// FORMSTAGE_START_STAGE.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if addr, ok := lookup("FORMSTAGE_ADDR"); ok && strings.TrimSpace(addr) != "" {
		c.Addr = strings.TrimSpace(addr)
	} else if port, ok := lookup("PORT"); ok && strings.TrimSpace(port) != "" {
		c.Addr = ":" + strings.TrimSpace(port)
	}
	if level, ok := lookup("LOG_LEVEL"); ok && strings.TrimSpace(level) != "" {
		c.Logging.Level = strings.TrimSpace(level)
	}
	if raw, ok := lookup("FORMSTAGE_START_STAGE"); ok && strings.TrimSpace(raw) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("config: FORMSTAGE_START_STAGE: %w", err)
		}
		c.StartStage = n
	}
	return nil
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
