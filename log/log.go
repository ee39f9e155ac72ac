// Package log provides logging utilities.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/golang-cz/devslog"
	"github.com/phsym/console-slog"
	slogformatter "github.com/samber/slog-formatter"

	"github.com/ghettovoice/sipstack/header"
)

var newHandler = slogformatter.NewFormatterHandler(
	slogformatter.ErrorFormatter("error"),
	slogformatter.FormatByType(func(hdr header.Header) slog.Value {
		if hdr == nil {
			return slog.StringValue("<nil>")
		}
		return slog.GroupValue(
			slog.String("type", fmt.Sprintf("%T", hdr)),
			slog.String("name", string(hdr.CanonicName())),
			slog.String("value", hdr.RenderValue()),
		)
	}),
	slogformatter.FormatByType(func(err *header.MalformedError) slog.Value {
		return slog.GroupValue(
			slog.String("name", string(err.Name)),
			slog.Int("offset", err.Offset),
			slog.String("message", err.Error()),
		)
	}),
)

// Console creates a human readable logger writing to w.
func Console(w io.Writer, lvl slog.Leveler) *slog.Logger {
	return slog.New(newHandler(
		console.NewHandler(w, &console.HandlerOptions{
			AddSource:  true,
			Level:      lvl,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

// Dev creates a developer logger writing to w.
func Dev(w io.Writer, lvl slog.Leveler) *slog.Logger {
	return slog.New(newHandler(
		devslog.NewHandler(w, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     lvl,
			},
			SortKeys:   true,
			TimeFormat: time.RFC3339Nano,
		}),
	))
}

// JSON creates a structured JSON logger writing to w.
func JSON(w io.Writer, lvl slog.Leveler) *slog.Logger {
	return slog.New(newHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})))
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }

// Noop is a noop logger.
var Noop = slog.New(noopHandler{})

var def atomic.Pointer[slog.Logger]

func init() {
	def.Store(Console(os.Stderr, slog.LevelInfo))
}

// Default returns the package-wide logger used when no logger is configured.
func Default() *slog.Logger { return def.Load() }

// SetDefault replaces the package-wide logger. A nil logger disables logging.
func SetDefault(l *slog.Logger) {
	if l == nil {
		l = Noop
	}
	def.Store(l)
}

type stringValue[T ~string | ~[]byte] struct {
	v T
}

func (v stringValue[T]) LogValue() slog.Value {
	return slog.StringValue(string(v.v))
}

// StringValue returns a value logger that formats v as string.
func StringValue[T ~string | ~[]byte](v T) slog.LogValuer { return stringValue[T]{v} }

type calcValue struct{ fn func() any }

func (v calcValue) LogValue() slog.Value {
	cv := v.fn()
	switch cv := cv.(type) {
	case slog.Value:
		return cv
	default:
		return slog.AnyValue(cv)
	}
}

// CalcValue returns a value logger that computes a value using a fn.
// The fn is only called when the record is actually written.
func CalcValue(fn func() any) slog.LogValuer { return calcValue{fn} }
