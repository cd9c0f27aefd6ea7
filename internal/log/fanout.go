package log

import (
	"context"
	"errors"
	"log/slog"
)

// Fanout delivers every record to all wrapped handlers. Each handler keeps
// its own level, so a debug console handler and an error-only file handler
// can share one logger.
type Fanout struct {
	handlers []slog.Handler
}

func NewFanout(handlers ...slog.Handler) Fanout {
	return Fanout{handlers: handlers}
}

func (f Fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f Fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f Fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return Fanout{handlers: next}
}

func (f Fanout) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return Fanout{handlers: next}
}
