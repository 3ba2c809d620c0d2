package config

import (
	"fmt"

	"github.com/kilianp07/courseadvisor/core/recommend/logging"
)

// LoggingConfig defines settings for recommendation log storage and rotation.
type LoggingConfig struct {
	// Backend selects the log store type: "jsonl", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
	// MaxSizeMB triggers rotation when the file exceeds this size in megabytes.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "recommendations.log"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Backend {
	case "jsonl", "sqlite", "none":
	default:
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" && c.Backend != "none" {
		return fmt.Errorf("path is required")
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("rotation settings cannot be negative")
	}
	return nil
}

// OpenStore opens the configured log store. The "none" backend returns nil.
// JSONL logs rotate when MaxSizeMB is set.
func (c LoggingConfig) OpenStore() (logging.LogStore, error) {
	var (
		store logging.LogStore
		err   error
	)
	switch {
	case c.Backend == "none":
		return nil, nil
	case c.Backend == "sqlite":
		store, err = logging.NewSQLiteStore(c.Path)
	case c.MaxSizeMB > 0:
		store, err = logging.NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	default:
		store, err = logging.NewJSONLStore(c.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s log store: %w", c.Backend, err)
	}
	return store, nil
}
