// Package log provides the logging abstraction used by the redcap sender.
//
// The sender only talks to the Logger interface, so callers decide where
// diagnostics end up. A zerolog adapter and a no-op logger are provided.
//
// # Usage
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//	sender := redcap.NewSender(cfg, redcap.WithLogger(logger))
//
// The level of the zerolog adapter is usually taken from LOG_LEVEL:
//
//	lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package log
