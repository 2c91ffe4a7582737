package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bft-labs/redcap/pkg/log"
	"github.com/bft-labs/redcap/pkg/redcap"
)

// Config holds CLI configuration for redcap.
type Config struct {
	APIURL   string
	APIToken string

	LogLevel string
	LogFile  string

	// HTTPTimeout of zero leaves requests unbounded.
	HTTPTimeout time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		LogLevel: log.DefaultLevel,
	}
}

// Validate checks the configuration for errors.
// Missing credentials are reported as *redcap.ConfigError.
func (c *Config) Validate() error {
	if err := c.RedcapConfig().Validate(); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}

// RedcapConfig returns the subset of c used by redcap.Sender.
func (c Config) RedcapConfig() redcap.Config {
	return redcap.Config{
		APIURL:      c.APIURL,
		APIToken:    c.APIToken,
		HTTPTimeout: c.HTTPTimeout,
	}
}

// Masked returns a copy of c safe to log.
func (c Config) Masked() Config {
	if c.APIToken != "" {
		c.APIToken = "*****"
	}
	return c
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		// bare numbers are seconds
		secs, nerr := strconv.ParseFloat(value, 64)
		if nerr != nil {
			return fmt.Errorf("parse %s: %w", flag, err)
		}
		d = time.Duration(secs * float64(time.Second))
	}
	*dst = d
	return nil
}
