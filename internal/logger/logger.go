// Package logger provides a thin wrapper around zerolog for structured,
// leveled logging. Components receive a *Logger and derive per-entity
// contexts from it (e.g. a session stamps its id and peer address once
// instead of on every line).
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration. All fields are optional; the zero value
// yields an info-level logger writing to stdout.
type Config struct {
	Level   string `toml:"level"`   // debug, info, warn, error; defaults to info
	File    string `toml:"file"`    // log file path; empty disables file output
	Console bool   `toml:"console"` // enable console (stdout) output
	Pretty  bool   `toml:"pretty"`  // human-readable console format instead of JSON
}

// Logger wraps a zerolog.Logger together with the file sink it may own.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New creates a logger from cfg. An unrecognized level falls back to info
// rather than failing; a file that cannot be opened is an error.
func New(cfg Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if cfg.Console {
		var console io.Writer = os.Stdout
		if cfg.Pretty {
			console = zerolog.ConsoleWriter{
				Out:        os.Stdout,
				TimeFormat: time.RFC3339,
			}
		}
		writers = append(writers, console)
	}

	var file *os.File
	if cfg.File != "" {
		file, err = os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		writers = append(writers, file)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = os.Stdout
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: l, file: file}, nil
}

// Nop returns a logger that discards everything. Useful as a default when a
// caller passes no logger, and in tests.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Close closes the file sink, if any. The logger must not be used afterwards
// if it was writing to that file.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
