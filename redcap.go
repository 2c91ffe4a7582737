// Package redcap is a thin client for the REDCap API.
//
// Example usage:
//
//	cfg, err := redcap.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fields, err := redcap.NewSender(cfg).Send(ctx, "metadata", nil)
//
// The sender lives in pkg/redcap; this package re-exports it.
package redcap

import (
	"context"

	"github.com/bft-labs/redcap/pkg/redcap"
)

type (
	Config         = redcap.Config
	Sender         = redcap.Sender
	Option         = redcap.Option
	HTTPClient     = redcap.HTTPClient
	ConfigError    = redcap.ConfigError
	TransportError = redcap.TransportError
	HTTPError      = redcap.HTTPError
	DecodeError    = redcap.DecodeError
)

// ErrMissingConfig matches every *ConfigError with errors.Is.
var ErrMissingConfig = redcap.ErrMissingConfig

// NewSender creates a Sender for cfg.
func NewSender(cfg Config, opts ...Option) *Sender {
	return redcap.NewSender(cfg, opts...)
}

// ConfigFromEnv reads REDCAP_API_URL and REDCAP_API_TOKEN.
func ConfigFromEnv() (Config, error) {
	return redcap.ConfigFromEnv()
}

// Post sends one request using configuration read from the environment at
// call time.
func Post(ctx context.Context, content string, params map[string]string) (interface{}, error) {
	return redcap.Post(ctx, content, params)
}

// WithHTTPClient sets the client used to deliver requests.
var WithHTTPClient = redcap.WithHTTPClient

// WithLogger sets the logger that receives response diagnostics.
var WithLogger = redcap.WithLogger
