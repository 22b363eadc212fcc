// Package log provides component-scoped structured logging on top of
// log/slog, together with the field-name vocabulary shared by every
// component of the service.
package log

import (
	"io"
	"log/slog"
)

// Logger is a slog.Logger bound to a component name. The component
// attribute is attached once, when the logger is derived, so every
// record carries it without repeating it at call sites.
type Logger struct {
	*slog.Logger
	base      *slog.Logger // without the component attribute
	component string
}

// New builds the root logger, writing text records to w.
func New(w io.Writer, level slog.Level) *Logger {
	base := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	return &Logger{
		Logger:    base.With(FieldComponent, ComponentApp),
		base:      base,
		component: ComponentApp,
	}
}

// Default wraps the process-wide slog default logger.
func Default() *Logger {
	base := slog.Default()
	return &Logger{Logger: base, base: base, component: ComponentApp}
}

// SetDefault installs l as the process-wide slog default, so packages
// logging through slog directly share the same handler.
func SetDefault(l *Logger) {
	slog.SetDefault(l.base)
}

// WithComponent derives a logger whose records carry the given
// component name in place of the receiver's.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{
		Logger:    l.base.With(FieldComponent, name),
		base:      l.base,
		component: name,
	}
}

// With derives a logger carrying the given attributes on every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		base:      l.base.With(args...),
		component: l.component,
	}
}

// Component reports the component name this logger is bound to.
func (l *Logger) Component() string {
	return l.component
}
