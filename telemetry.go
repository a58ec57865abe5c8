package leaf

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/toutaio/toutago-leaf"

// telemetry bundles the tracer and counters a scope tree reports to.
type telemetry struct {
	tracer        trace.Tracer
	resolutions   metric.Int64Counter
	constructions metric.Int64Counter
	providerCalls metric.Int64Counter
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	meter := mp.Meter(instrumentationName)

	resolutions, err := meter.Int64Counter("leaf.resolutions",
		metric.WithDescription("Number of resolve calls, by outcome"))
	if err != nil {
		return nil, err
	}

	constructions, err := meter.Int64Counter("leaf.constructions",
		metric.WithDescription("Number of constructor invocations"))
	if err != nil {
		return nil, err
	}

	providerCalls, err := meter.Int64Counter("leaf.provider.calls",
		metric.WithDescription("Number of provider invocations"))
	if err != nil {
		return nil, err
	}

	return &telemetry{
		tracer:        tp.Tracer(instrumentationName),
		resolutions:   resolutions,
		constructions: constructions,
		providerCalls: providerCalls,
	}, nil
}

func (t *telemetry) startResolve(ctx context.Context, scopeID string, key Key) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "leaf.resolve", trace.WithAttributes(
		attribute.String("leaf.key", key.String()),
		attribute.String("leaf.scope_id", scopeID),
	))
}

func (t *telemetry) endResolve(ctx context.Context, span trace.Span, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	t.resolutions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	span.End()
}
