package redcap

import (
	"os"
	"time"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvAPIURL   = "REDCAP_API_URL"
	EnvAPIToken = "REDCAP_API_TOKEN"
	EnvLogLevel = "LOG_LEVEL"
)

// Config holds what a Sender needs to reach a REDCap project.
type Config struct {
	// APIURL is the full API endpoint, e.g. https://redcap.example.org/api/.
	APIURL string

	// APIToken is the project API token.
	APIToken string

	// HTTPTimeout bounds a whole request. Zero means no timeout.
	HTTPTimeout time.Duration
}

// ConfigFromEnv reads REDCAP_API_URL and REDCAP_API_TOKEN.
// It returns a *ConfigError naming the first variable that is unset.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	var ok bool
	if cfg.APIURL, ok = os.LookupEnv(EnvAPIURL); !ok {
		return Config{}, &ConfigError{Variable: EnvAPIURL}
	}
	if cfg.APIToken, ok = os.LookupEnv(EnvAPIToken); !ok {
		return Config{}, &ConfigError{Variable: EnvAPIToken}
	}
	return cfg, nil
}

// Validate reports a *ConfigError when the URL or token is empty.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return &ConfigError{Variable: EnvAPIURL}
	}
	if c.APIToken == "" {
		return &ConfigError{Variable: EnvAPIToken}
	}
	return nil
}
