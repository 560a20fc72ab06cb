// Package logging configures the global zerolog logger for the commands.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvLevel is the environment variable consulted when no level is given.
const EnvLevel = "ZONE_LOG_LEVEL"

// Setup installs a human-readable console writer on w (stderr when nil) and
// sets the global level.
//
// level is one of debug, info, warn or error; empty falls back to $ZONE_LOG_LEVEL
// and then to info. An unknown level also falls back to info. The level in
// effect is returned.
func Setup(level string, w io.Writer) zerolog.Level {
	if w == nil {
		w = os.Stderr
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly})

	lvl := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

// ParseLevel resolves a level name, consulting $ZONE_LOG_LEVEL when name is empty.
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		name = os.Getenv(EnvLevel)
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
