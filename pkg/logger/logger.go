package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	Setup("debug")
}

// Setup configures the global logger for a server mode. Debug mode keeps a
// colored console writer for local development; release switches to plain
// JSON on stdout at info level; test quiets everything below warn. The
// package-global zerolog logger is rebound too, so code logging through
// zerolog/log picks up the same output and level.
func Setup(mode string) {
	var level zerolog.Level
	var out zerolog.Logger

	switch mode {
	case "release":
		level = zerolog.InfoLevel
		out = zerolog.New(os.Stdout)
	case "test":
		level = zerolog.WarnLevel
		out = zerolog.New(os.Stdout)
	default:
		if mode != "debug" {
			log.Warn().Str("mode", mode).Msg("unknown server mode, using debug logging")
		}
		level = zerolog.DebugLevel
		out = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "2006-01-02 15:04:05",
		})
	}

	zerolog.SetGlobalLevel(level)
	Log = out.Level(level).With().Timestamp().Caller().Logger()
	log.Logger = Log
}
