// Package config loads the service configuration from a YAML or JSON file
// with K_-prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/courseadvisor/core/factory"
	"github.com/kilianp07/courseadvisor/core/metrics"
	"github.com/kilianp07/courseadvisor/core/recommend"
	"github.com/kilianp07/courseadvisor/infra/mqtt"
)

// EnvPrefix marks environment overrides. Nested keys are separated by a
// double underscore: K_HTTP__ADDR=:9000.
const EnvPrefix = "K_"

type Config struct {
	HTTP      HTTPConfig           `json:"http"`
	Catalog   factory.ModuleConfig `json:"catalog"`
	Recommend recommend.Config     `json:"recommend"`
	Extractor factory.ModuleConfig `json:"extractor"`
	Metrics   metrics.Config       `json:"metrics"`
	Logging   LoggingConfig        `json:"logging"`
	MQTT      mqtt.Config          `json:"mqtt"`
	Sentry    SentryConfig         `json:"sentry"`
	Calendar  CalendarConfig       `json:"calendar"`
}

// Default returns a configuration usable without any file: sample catalog,
// JSON extractor, JSONL logs and no external services.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills every unset section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	if c.Catalog.Type == "" {
		c.Catalog.Type = "sample"
	}
	if c.Extractor.Type == "" {
		c.Extractor.Type = "json"
	}
	c.Recommend.SetDefaults()
	c.Logging.SetDefaults()
	c.Calendar.SetDefaults()
	c.Sentry.SetDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return err
	}
	if err := c.Recommend.Validate(); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	if err := c.Sentry.Validate(); err != nil {
		return err
	}
	if c.MQTT.Enabled() {
		if err := c.MQTT.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, err
	}
	// Weights are seeded so a partial override keeps the other defaults and
	// an explicit zero disables a term.
	cfg := Config{Recommend: recommend.Config{Weights: recommend.DefaultWeights()}}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps K_LOGGING__MAX_SIZE_MB to logging.max_size_mb.
func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}
