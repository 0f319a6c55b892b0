// Package logging provides a custom slog handler that integrates with
// the store's event log. It forwards records at WARN level and above to
// the events table for auditing.
package logging

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/cloudhost/hostcms/internal/model"
	"github.com/cloudhost/hostcms/internal/store"
)

// EventLogHandler is a slog.Handler that wraps another handler and also
// writes WARN and ERROR level records to the store's event log. Event
// writes are best effort and rate limited so a log storm cannot turn
// every line into a database write.
type EventLogHandler struct {
	inner   slog.Handler
	store   *store.Store
	level   slog.Level
	limiter *rate.Limiter
}

// NewEventLogHandler creates an EventLogHandler that wraps the given
// handler. Records at WARN level and above go to both the wrapped
// handler and the event log.
func NewEventLogHandler(inner slog.Handler, st *store.Store) *EventLogHandler {
	return &EventLogHandler{
		inner:   inner,
		store:   st,
		level:   slog.LevelWarn,
		limiter: rate.NewLimiter(rate.Limit(5), 20),
	}
}

// Enabled implements slog.Handler.
func (h *EventLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *EventLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level && h.store.Ready() && h.limiter.Allow() {
		h.writeToEventLog(r)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *EventLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithAttrs(attrs),
		store:   h.store,
		level:   h.level,
		limiter: h.limiter,
	}
}

// WithGroup implements slog.Handler.
func (h *EventLogHandler) WithGroup(name string) slog.Handler {
	return &EventLogHandler{
		inner:   h.inner.WithGroup(name),
		store:   h.store,
		level:   h.level,
		limiter: h.limiter,
	}
}

// writeToEventLog records the entry. A background context is used so
// the event lands even when the request context is already cancelled.
func (h *EventLogHandler) writeToEventLog(r slog.Record) {
	severity := model.EventSeverityWarning
	if r.Level >= slog.LevelError {
		severity = model.EventSeverityError
	}
	_ = h.store.RecordEvent(context.Background(), severity, extractSource(r), r.Message)
}

// extractSource looks for a "source" attribute on the record, falling
// back to "system".
func extractSource(r slog.Record) string {
	source := "system"
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "source" {
			source = strings.ToLower(a.Value.String())
			return false
		}
		return true
	})
	return source
}
