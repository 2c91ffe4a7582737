package redcap

import (
	"context"
	"os"

	"github.com/bft-labs/redcap/pkg/log"
)

// Post reads REDCAP_API_URL, REDCAP_API_TOKEN and LOG_LEVEL at call time and
// sends a single request with a fresh Sender. Diagnostics go to stderr.
// Long-running programs should build a Sender once instead.
func Post(ctx context.Context, content string, params map[string]string) (interface{}, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	var logger log.Logger = log.NewNoopLogger()
	if lvl, err := log.ParseLevel(os.Getenv(EnvLogLevel)); err == nil {
		logger = log.NewZerologAdapter(lvl)
	}

	return NewSender(cfg, WithLogger(logger)).Send(ctx, content, params)
}
