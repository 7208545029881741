package types

import (
	"errors"
	"time"
)

// Config holds the user-tunable settings loaded from config.yaml.
type Config struct {
	DateLayout string `json:"date_layout" yaml:"date_layout" mapstructure:"date_layout"`
	EventsPath string `json:"events_path" yaml:"events_path,omitempty" mapstructure:"events_path"`
	Color      bool   `json:"color" yaml:"color" mapstructure:"color"`
}

// DefaultDateLayout matches the short numeric en-US date, e.g. 1/31/2024.
const DefaultDateLayout = "1/2/2006"

// Config validation errors.
var (
	ErrDateLayoutEmpty   = errors.New("date layout must not be empty")
	ErrDateLayoutInvalid = errors.New("date layout has no date fields")
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		DateLayout: DefaultDateLayout,
		Color:      true,
	}
}

// layoutProbe is a date whose formatting differs from every layout that
// contains at least one reference-time field.
var layoutProbe = time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.DateLayout == "" {
		return ErrDateLayoutEmpty
	}
	if layoutProbe.Format(c.DateLayout) == c.DateLayout {
		return ErrDateLayoutInvalid
	}
	return nil
}
