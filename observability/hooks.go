// Package observability instruments the SDK's HTTP core with OpenTelemetry
// spans. Only the otel API is imported; without a host-installed tracer
// provider the hooks are inert no-ops.
package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/zendra/zendra-go/rest"
)

const tracerName = "github.com/zendra/zendra-go"

// NewHooks returns a rest.Hooks set that opens one span per attempt and
// closes it from the matching OnResponse or OnError callback. Retries show
// up as sibling spans carrying the attempt index.
func NewHooks(opts ...Option) rest.Hooks {
	t := &tracingHooks{
		tracer: otel.Tracer(tracerName),
		spans:  make(map[*rest.RequestContext]oteltrace.Span),
	}
	for _, opt := range opts {
		opt(t)
	}
	return rest.Hooks{
		OnRequest:  t.onRequest,
		OnResponse: t.onResponse,
		OnError:    t.onError,
		OnRetry:    t.onRetry,
	}
}

// Option configures the tracing hooks.
type Option func(*tracingHooks)

// WithTracerProvider uses an explicit provider instead of the global one.
func WithTracerProvider(tp oteltrace.TracerProvider) Option {
	return func(t *tracingHooks) {
		t.tracer = tp.Tracer(tracerName)
	}
}

type tracingHooks struct {
	tracer oteltrace.Tracer

	mu    sync.Mutex
	spans map[*rest.RequestContext]oteltrace.Span
}

func (t *tracingHooks) onRequest(ctx context.Context, req *rest.RequestContext) error {
	_, span := t.tracer.Start(ctx, "zendra.request",
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL),
			attribute.Int("zendra.attempt", req.Attempt),
		))
	t.mu.Lock()
	t.spans[req] = span
	t.mu.Unlock()
	return nil
}

func (t *tracingHooks) onResponse(_ context.Context, resp *rest.ResponseContext) {
	span := t.take(resp.Request)
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.Status))
	if resp.RequestID != "" {
		span.SetAttributes(attribute.String("zendra.request_id", resp.RequestID))
	}
	span.SetStatus(codes.Ok, "")
	span.End()
}

func (t *tracingHooks) onError(_ context.Context, err error, req *rest.RequestContext) {
	span := t.take(req)
	if span == nil {
		return
	}
	if e, ok := rest.AsError(err); ok {
		span.SetAttributes(attribute.String("zendra.error_kind", string(e.Kind)))
		if e.StatusCode > 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", e.StatusCode))
		}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}

func (t *tracingHooks) onRetry(ctx context.Context, req *rest.RequestContext, err error, delay time.Duration) {
	// The attempt span has already ended in onError; record the scheduled
	// retry on the surrounding span if the caller has one.
	attrs := []attribute.KeyValue{
		attribute.Int("zendra.attempt", req.Attempt),
		attribute.String("zendra.delay", delay.String()),
	}
	if e, ok := rest.AsError(err); ok {
		attrs = append(attrs, attribute.String("zendra.error_kind", string(e.Kind)))
	}
	span := oteltrace.SpanFromContext(ctx)
	span.AddEvent("zendra.retry", oteltrace.WithAttributes(attrs...))
}

func (t *tracingHooks) take(req *rest.RequestContext) oteltrace.Span {
	t.mu.Lock()
	defer t.mu.Unlock()
	span, ok := t.spans[req]
	if !ok {
		return nil
	}
	delete(t.spans, req)
	return span
}
