package shared

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger configures zerolog. Console output by default, structured
// JSON when requested.
func SetupLogger(debug, structured bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	if structured {
		zerolog.TimeFieldFormat = time.RFC3339Nano
		return zerolog.New(os.Stderr).
			Level(level).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
