package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const badKey = "!BADKEY"

type LogrusLogger struct {
	entry *logrus.Entry
}

var _ Logger = (*LogrusLogger)(nil)

func NewLogrusLogger(l *logrus.Logger) *LogrusLogger {
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

// New builds a logrus-backed Logger writing to w (stdout when nil).
// format is "json" or "text"; level is any logrus level name.
func New(w io.Writer, level, format string) (*LogrusLogger, error) {
	if w == nil {
		w = os.Stdout
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)

	switch format {
	case "", "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}

	return NewLogrusLogger(l), nil
}

func (l *LogrusLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.withArgs(ctx, args).Debug(msg)
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, args ...any) {
	l.withArgs(ctx, args).Info(msg)
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.withArgs(ctx, args).Warn(msg)
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, args ...any) {
	l.withArgs(ctx, args).Error(msg)
}

func (l *LogrusLogger) With(args ...any) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(toFields(args))}
}

func (l *LogrusLogger) withArgs(ctx context.Context, args []any) *logrus.Entry {
	e := l.entry
	if ctx != nil {
		e = e.WithContext(ctx)
	}
	if len(args) == 0 {
		return e
	}
	return e.WithFields(toFields(args))
}

// toFields pairs up args as key/value. A dangling value or a non-string key
// is kept under badKey rather than dropped.
func toFields(args []any) logrus.Fields {
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			fields[badKey] = args[i]
			i--
			continue
		}
		if err, isErr := args[i+1].(error); isErr {
			fields[key] = err.Error()
			continue
		}
		fields[key] = args[i+1]
	}
	return fields
}
