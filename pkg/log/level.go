package log

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when LOG_LEVEL is empty.
const DefaultLevel = "debug"

// ParseLevel maps a LOG_LEVEL value to a zerolog level. Matching is
// case-insensitive and an empty value selects DefaultLevel. "warning" and
// "critical" are accepted as aliases for warn and fatal.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		s = DefaultLevel
	case "warning":
		s = "warn"
	case "critical":
		s = "fatal"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}
