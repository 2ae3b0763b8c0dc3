package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "tenantkit-api"

// SpanContext pairs a span with the context that carries it.
type SpanContext struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan opens a child span of whatever trace ctx carries. Log records
// written with sc.Context() pick up its ids through TraceHandler.
//
//	sc := logger.StartSpan(ctx, "workos.create_organization", trace.WithSpanKind(trace.SpanKindClient))
//	defer sc.End()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, opts...)
	return &SpanContext{ctx: ctx, span: span}
}

func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

func (sc *SpanContext) End() {
	sc.span.End()
}

func (sc *SpanContext) SetAttributes(kv ...attribute.KeyValue) {
	sc.span.SetAttributes(kv...)
}

// RecordError marks the span failed. A nil error is ignored.
func (sc *SpanContext) RecordError(err error) {
	if err == nil {
		return
	}
	sc.span.RecordError(err)
	sc.span.SetStatus(codes.Error, err.Error())
}
