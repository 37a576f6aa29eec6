// Package logging builds the slog loggers used by the command line tools.
// Text output is rendered by zerolog's console writer; JSON output is
// written as is.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sapo-creations/sapodi/internal/errors"
)

// Format selects how log records are rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New
type Options struct {
	Format  Format
	Level   slog.Level
	NoColor bool
}

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", errors.Newf(errors.ConfigurationErrorCode, "log format %q is not supported", s).
			Suggest("Use --log-format text or --log-format json")
	}
}

// New creates a logger writing to w
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}

	// zerolog's console writer expects its own message key
	handlerOpts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 || a.Key != slog.MessageKey {
			return a
		}
		if a.Value.Kind() == slog.KindString {
			return slog.Any(zerolog.MessageFieldName, a.Value)
		}
		return slog.String(zerolog.MessageFieldName, fmt.Sprint(a.Value.Any()))
	}

	return slog.New(slog.NewJSONHandler(&zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    opts.NoColor,
		TimeFormat: time.TimeOnly,
		FormatLevel: func(i interface{}) string {
			if level, ok := i.(string); ok {
				return fmt.Sprintf("%-5s", strings.ToUpper(level))
			}
			return "?????"
		},
		FormatMessage: func(i interface{}) string {
			if s, ok := i.(string); ok {
				return s
			}
			return fmt.Sprint(i)
		},
	}, handlerOpts))
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
