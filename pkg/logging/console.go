package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewConsoleLogger creates a human-readable logger, typically on stderr
func NewConsoleLogger(w io.Writer, level Level, color bool) Logger {
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.TimeOnly,
	}
	return &zlogger{
		zl: zerolog.New(console).Level(level.zerolog()).With().Timestamp().Logger(),
	}
}
