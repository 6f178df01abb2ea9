package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

var (
	traceID = trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	spanID  = trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8}
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func tracedContext() context.Context {
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID})
	return trace.ContextWithSpanContext(context.Background(), spanCtx)
}

func Test_ContextHandler_DefaultExtractors(t *testing.T) {
	testCases := []struct {
		name     string
		ctx      func() context.Context
		expected map[string]any
		missing  []string
	}{
		{
			name:     "no context values",
			ctx:      context.Background,
			expected: map[string]any{},
			missing:  []string{"trace_id", "span_id", "request_id", "lifecycle"},
		},
		{
			name: "span and request id",
			ctx: func() context.Context {
				return context.WithValue(tracedContext(), middleware.RequestIDKey, "abc")
			},
			expected: map[string]any{"trace_id": traceID.String(), "span_id": spanID.String(), "request_id": "abc"},
			missing:  []string{"lifecycle"},
		},
		{
			name: "attached attributes",
			ctx: func() context.Context {
				ctx := ContextWithAttrs(context.Background(), slog.String("lifecycle", "poll"))
				return ContextWithAttrs(ctx, slog.Int("attempt", 2))
			},
			expected: map[string]any{"lifecycle": "poll", "attempt": float64(2)},
			missing:  []string{"trace_id", "request_id"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			var buf bytes.Buffer
			log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))

			// when
			log.InfoContext(tc.ctx(), "hello")

			// then
			record := decode(t, &buf)
			for k, v := range tc.expected {
				assert.Equal(t, v, record[k], k)
			}
			for _, k := range tc.missing {
				assert.NotContains(t, record, k)
			}
		})
	}
}

func Test_ContextHandler_KeepsAttrsAndGroups(t *testing.T) {
	// given
	var buf bytes.Buffer
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil)))
	ctx := context.WithValue(tracedContext(), middleware.RequestIDKey, "abc")

	// when
	log.With("component", "store").WithGroup("g").InfoContext(ctx, "hello", "k", "v")

	// then: extracted attributes land in the open group
	record := decode(t, &buf)
	assert.Equal(t, "store", record["component"])
	group := record["g"].(map[string]any)
	assert.Equal(t, traceID.String(), group["trace_id"])
	assert.Equal(t, "abc", group["request_id"])
	assert.Equal(t, "v", group["k"])
}

func Test_ContextHandler_CustomExtractors(t *testing.T) {
	// given
	var buf bytes.Buffer
	tenant := func(ctx context.Context) []slog.Attr {
		if v, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
			return []slog.Attr{slog.String("tenant", "t-"+v)}
		}
		return nil
	}
	log := slog.New(NewContextHandler(slog.NewJSONHandler(&buf, nil), tenant))
	ctx := context.WithValue(tracedContext(), middleware.RequestIDKey, "abc")

	// when
	log.InfoContext(ctx, "hello")

	// then: only the given extractors run
	record := decode(t, &buf)
	assert.Equal(t, "t-abc", record["tenant"])
	assert.NotContains(t, record, "trace_id")
	assert.NotContains(t, record, "request_id")
}

func Test_ContextWithAttrs_DoesNotLeakIntoParent(t *testing.T) {
	// given
	parent := ContextWithAttrs(context.Background(), slog.String("lifecycle", "load"))

	// when
	child := ContextWithAttrs(parent, slog.String("result", "ok"))

	// then
	assert.Len(t, Attrs(parent), 1)
	assert.Len(t, Attrs(child), 2)
	assert.Same(t, parent, ContextWithAttrs(parent))
}

func Test_ContextHandler_Enabled(t *testing.T) {
	h := NewContextHandler(slog.NewJSONHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}))

	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
