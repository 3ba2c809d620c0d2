package recommend

import "fmt"

// Config tunes the engine.
type Config struct {
	// Weights of the scoring heuristic. An all-zero value means
	// DefaultWeights; config.Load merges file values over the defaults
	// field by field.
	Weights Weights `json:"weights"`
	// IgnoreMinGap disables the minimum gap requested in preferences and
	// falls back to the plain overlap rule.
	IgnoreMinGap bool `json:"ignore_min_gap"`
}

// SetDefaults applies the reference weights when none are configured.
func (c *Config) SetDefaults() {
	if c.Weights.IsZero() {
		c.Weights = DefaultWeights()
	}
}

// Validate rejects negative weights.
func (c Config) Validate() error {
	w := c.Weights
	for name, v := range map[string]float64{
		"time_slot":    w.TimeSlot,
		"day_match":    w.DayMatch,
		"subject":      w.Subject,
		"campus":       w.Campus,
		"availability": w.Availability,
	} {
		if v < 0 {
			return fmt.Errorf("recommend: negative weight %s", name)
		}
	}
	return nil
}
