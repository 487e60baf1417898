// Package logging builds the structured logger shared by the CLI and TUIs.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StderrPath selects stderr instead of a log file.
const StderrPath = "-"

// Options describe how to configure a logger instance.
type Options struct {
	Level  string
	Format string
	// Path is a log file, StderrPath, or empty when Output is set.
	Path   string
	Output io.Writer
}

// New creates a structured logger. The returned close func releases the log
// file, if one was opened.
func New(opts Options) (*slog.Logger, func() error, error) {
	lvl, err := parseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	closeFn := func() error { return nil }
	out := opts.Output
	if out == nil {
		switch opts.Path {
		case "", StderrPath:
			out = os.Stderr
		default:
			if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
			f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to open log file: %w", err)
			}
			out = f
			closeFn = f.Close
		}
	}

	handlerOpts := slog.HandlerOptions{
		Level:       lvl,
		ReplaceAttr: replaceTimeAttr,
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", "text", "console":
		handler = slog.NewTextHandler(out, &handlerOpts)
	case "json":
		handler = slog.NewJSONHandler(out, &handlerOpts)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("unsupported log format %q", opts.Format)
	}

	return slog.New(handler), closeFn, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(level string) (slog.Leveler, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return nil, fmt.Errorf("unhandled log level %q", level)
	}
}

func replaceTimeAttr(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.TimeKey && attr.Value.Kind() == slog.KindTime {
		attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
	}
	return attr
}
