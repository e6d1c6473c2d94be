// SPDX-License-Identifier: EPL-2.0

// Package logging builds the zerolog loggers used by the commands.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a console logger at info level, or debug when debug is set.
func New(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return build(w, level)
}

// NewWithLevel parses level ("debug", "info", ...) and returns a console
// logger at that level. An empty level means info.
func NewWithLevel(w io.Writer, level string) (zerolog.Logger, error) {
	if level == "" {
		return build(w, zerolog.InfoLevel), nil
	}
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return build(w, l), nil
}

func build(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(w),
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
