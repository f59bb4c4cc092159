// Package logging configures the global zerolog logger for sdlcwiz.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var debugEnabled bool

// Init sets up the global console logger. Debug enables the debug level,
// which the workflow engines use for per-decision and per-recovery detail.
func Init(debug bool) {
	debugEnabled = debug

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// DebugEnabled reports whether Init was called with debug logging on.
func DebugEnabled() bool {
	return debugEnabled
}
