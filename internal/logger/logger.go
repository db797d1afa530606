// Package logger builds the zerolog logger shared by the server components.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console logger for development and a JSON logger otherwise.
// An unknown level falls back to info.
func New(level string, development bool) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, development)
}

func NewWithWriter(w io.Writer, level string, development bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if development {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
