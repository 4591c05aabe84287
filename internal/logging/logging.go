// Package logging configures the process-wide slog logger and carries the
// per-request wide event through the context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

const service = "blogicum-api"

var (
	current     atomic.Pointer[slog.Logger]
	defaultOnce sync.Once
)

// Options select the level, encoding and destination of log records.
type Options struct {
	Level   slog.Level
	Text    bool
	Output  io.Writer
	Version string
}

// OptionsFromEnv reads LOG_LEVEL (debug|info|warn|error), LOG_FORMAT (json|text)
// and VERSION. Unknown values fall back to info and json.
func OptionsFromEnv() Options {
	opts := Options{
		Level:   ParseLevel(os.Getenv("LOG_LEVEL")),
		Text:    strings.EqualFold(os.Getenv("LOG_FORMAT"), "text"),
		Output:  os.Stdout,
		Version: os.Getenv("VERSION"),
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return opts
}

func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger tagged with the service name and version.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.Text {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}
	return slog.New(handler).With(
		slog.String("service", service),
		slog.String("version", opts.Version),
	)
}

// Init installs the logger described by the environment as the process default.
func Init() {
	Set(New(OptionsFromEnv()))
}

func Set(l *slog.Logger) {
	current.Store(l)
	slog.SetDefault(l)
}

// Get returns the installed logger, initialising it from the environment on
// first use. Safe for concurrent callers.
func Get() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	defaultOnce.Do(func() {
		if current.Load() == nil {
			Init()
		}
	})
	return current.Load()
}

type contextKey struct{}

// Event accumulates the attributes of one request and is logged once at the end.
type Event struct {
	mu    sync.Mutex
	attrs []slog.Attr
}

func (e *Event) Add(attrs ...slog.Attr) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.attrs = append(e.attrs, attrs...)
}

func (e *Event) Attrs() []slog.Attr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]slog.Attr(nil), e.attrs...)
}

// Emit writes the event as a single record.
func (e *Event) Emit(ctx context.Context, level slog.Level, msg string) {
	Get().LogAttrs(ctx, level, msg, e.Attrs()...)
}

func NewEventContext(ctx context.Context) (context.Context, *Event) {
	e := &Event{}
	return context.WithValue(ctx, contextKey{}, e), e
}

func EventFromContext(ctx context.Context) *Event {
	e, _ := ctx.Value(contextKey{}).(*Event)
	return e
}

// AddToEvent is a no-op when ctx carries no event.
func AddToEvent(ctx context.Context, attrs ...slog.Attr) {
	if e := EventFromContext(ctx); e != nil {
		e.Add(attrs...)
	}
}
