// =============================================================================
// Daily Sales Report - Logging Module
// =============================================================================
//
// This module builds the process logger. It is created once at startup,
// handed to every component as a logrus.FieldLogger, and closed at exit.
//
// OUTPUT:
//   - The log file, opened in append mode (parent directory created)
//   - The console writer given by the caller
//
// FORMAT:
//   time=2024-01-15T06:00:00Z level=info msg="Logging setup complete"
//
// =============================================================================

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultFile is the log file used when none is configured.
	DefaultFile = "logs/automation.log"

	// DefaultLevel is the level used when none is configured.
	DefaultLevel = "info"
)

// Options configures New.
type Options struct {
	// Level is a logrus level name. Empty means DefaultLevel.
	Level string

	// FilePath is appended to. Empty disables the file sink.
	FilePath string

	// Console receives a copy of every line. Nil disables the console sink.
	Console io.Writer
}

// Logger is a logrus logger that owns its log file.
type Logger struct {
	*logrus.Logger
	file *os.File
}

// New builds a logger writing timestamp, level and message to every
// configured sink. An invalid level is an error.
func New(opts Options) (*Logger, error) {
	levelName := opts.Level
	if levelName == "" {
		levelName = DefaultLevel
	}
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", levelName, err)
	}

	var (
		sinks []io.Writer
		file  *os.File
	)
	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file, err = os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		sinks = append(sinks, file)
	}
	if opts.Console != nil {
		sinks = append(sinks, opts.Console)
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})
	switch len(sinks) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(sinks[0])
	default:
		l.SetOutput(io.MultiWriter(sinks...))
	}

	return &Logger{Logger: l, file: file}, nil
}

// Close closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
