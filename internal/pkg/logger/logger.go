package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the global zerolog logger.
type Options struct {
	Level      string // debug, info, warn, error
	File       string // rotate into this file when set
	Production bool   // JSON to stdout instead of the console writer
}

// Setup configures the global zerolog logger used through github.com/rs/zerolog/log.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(ParseLevel(opts.Level))
	zerolog.TimeFieldFormat = time.RFC3339

	log.Logger = zerolog.New(writer(opts)).With().Timestamp().Logger()
}

func writer(opts Options) io.Writer {
	if opts.File != "" {
		return &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
	}
	if opts.Production {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}
