package cliconfig

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bft-labs/redcap/pkg/log"
)

// Logger builds the CLI logger. Output goes to stderr through a console
// writer, or as JSON lines to a rotating file when LogFile is set.
// The returned closer must be called before exit.
func Logger(cfg Config) (zerolog.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	if cfg.LogFile == "" {
		return log.NewConsoleLogger(os.Stderr, lvl), nopCloser{}, nil
	}

	rotate := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    20, // megabytes
		MaxBackups: 2,
		MaxAge:     10, // days
	}
	return zerolog.New(rotate).Level(lvl).With().Timestamp().Logger(), rotate, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
