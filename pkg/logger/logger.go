// Package logger provides an slog handler that copies attributes out of a record's context.
package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/trace"
)

// Extractor returns the attributes ctx contributes to a record, or nil.
type Extractor func(ctx context.Context) []slog.Attr

// ContextHandler wraps an slog.Handler and appends the attributes its extractors find
// in the context of each record.
type ContextHandler struct {
	next       slog.Handler
	extractors []Extractor
}

// NewContextHandler wraps handler. Without extractors it uses TraceAttrs, RequestIDAttr and Attrs.
func NewContextHandler(handler slog.Handler, extractors ...Extractor) *ContextHandler {
	if len(extractors) == 0 {
		extractors = []Extractor{TraceAttrs, RequestIDAttr, Attrs}
	}
	return &ContextHandler{next: handler, extractors: extractors}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, extract := range h.extractors {
		if attrs := extract(ctx); len(attrs) > 0 {
			r.AddAttrs(attrs...)
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{next: h.next.WithGroup(group), extractors: h.extractors}
}

// TraceAttrs reports the trace and span ids of the span in ctx.
func TraceAttrs(ctx context.Context) []slog.Attr {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}

// RequestIDAttr reports the id chi's RequestID middleware stored in ctx.
func RequestIDAttr(ctx context.Context) []slog.Attr {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return []slog.Attr{slog.String("request_id", reqID)}
	}
	return nil
}

type attrsKey struct{}

// ContextWithAttrs returns a copy of ctx carrying attrs in addition to those already attached.
func ContextWithAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, attrsKey{}, merged)
}

// Attrs reports the attributes attached with ContextWithAttrs.
func Attrs(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}
