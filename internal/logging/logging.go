// Package logging configures logrus and adapts it to the key/value Logger
// interface used across the dashboard packages.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Logger is the structured logger accepted by the ui packages. Arguments
// after msg are alternating keys and values, as with log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// New returns a logrus logger writing to out with the given level and format
// ("text" or "json").
func New(out io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return logger, nil
}

// ConfigureCommandLineLogging sets up the standard logrus logger for CLI
// commands that print to the terminal.
func ConfigureCommandLineLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stderr)
}

// Adapt wraps a logrus entry point as a Logger.
func Adapt(l log.FieldLogger) Logger {
	return &logrusLogger{delegate: l}
}

type logrusLogger struct {
	delegate log.FieldLogger
}

func (l *logrusLogger) Debug(msg string, args ...any) {
	l.delegate.WithFields(fields(args)).Debug(msg)
}

func (l *logrusLogger) Info(msg string, args ...any) {
	l.delegate.WithFields(fields(args)).Info(msg)
}

func (l *logrusLogger) Warn(msg string, args ...any) {
	l.delegate.WithFields(fields(args)).Warn(msg)
}

func (l *logrusLogger) Error(msg string, args ...any) {
	l.delegate.WithFields(fields(args)).Error(msg)
}

// fields turns alternating key/value arguments into logrus fields. A trailing
// key without a value is kept under "!BADKEY", matching slog.
func fields(args []any) log.Fields {
	f := make(log.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		f[key] = args[i+1]
	}
	return f
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return Adapt(l)
}
