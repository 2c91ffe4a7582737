package cliconfig

import (
	"os"

	"github.com/bft-labs/redcap/pkg/redcap"
)

// Environment variables read by ApplyEnvConfig besides the redcap ones.
const (
	EnvLogFile     = "REDCAP_LOG_FILE"
	EnvHTTPTimeout = "REDCAP_HTTP_TIMEOUT"
)

// ApplyEnvConfig applies REDCAP_API_URL, REDCAP_API_TOKEN, LOG_LEVEL,
// REDCAP_LOG_FILE and REDCAP_HTTP_TIMEOUT. It respects flags that have been
// explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("api-url", os.Getenv(redcap.EnvAPIURL), &cfg.APIURL)
	s.setString("api-token", os.Getenv(redcap.EnvAPIToken), &cfg.APIToken)
	s.setString("log-level", os.Getenv(redcap.EnvLogLevel), &cfg.LogLevel)
	s.setString("log-file", os.Getenv(EnvLogFile), &cfg.LogFile)

	return s.setDuration("timeout", os.Getenv(EnvHTTPTimeout), &cfg.HTTPTimeout)
}
