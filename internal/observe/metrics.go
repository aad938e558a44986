// Package observe holds the OpenTelemetry metric instruments for the gateway
// and the provider that exports them to Prometheus.
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "speaksmart-be"

// Metrics is safe for concurrent use.
type Metrics struct {
	LLMDuration metric.Float64Histogram
	TTSDuration metric.Float64Histogram

	// attrs: provider, operation, status
	ProviderRequests metric.Int64Counter
	// attrs: provider, operation, kind (rate_limited|overloaded|parse|invalid|transport)
	ProviderErrors metric.Int64Counter
	// attrs: mode
	Fallbacks metric.Int64Counter
	// attrs: cache, result (hit|miss)
	CacheLookups metric.Int64Counter
	// attrs: mode, outcome
	Evaluations metric.Int64Counter

	HTTPRequestDuration metric.Float64Histogram
}

var latencyBuckets = []float64{
	0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 32,
}

func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.LLMDuration, err = m.Float64Histogram("speaksmart.llm.duration",
		metric.WithDescription("Latency of a single upstream LLM call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TTSDuration, err = m.Float64Histogram("speaksmart.tts.duration",
		metric.WithDescription("Latency of text-to-speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ProviderRequests, err = m.Int64Counter("speaksmart.provider.requests",
		metric.WithDescription("Upstream provider calls by provider, operation and status."),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("speaksmart.provider.errors",
		metric.WithDescription("Failed upstream attempts by provider, operation and kind."),
	); err != nil {
		return nil, err
	}
	if met.Fallbacks, err = m.Int64Counter("speaksmart.questions.fallbacks",
		metric.WithDescription("Question sets served from the canned fallback pool."),
	); err != nil {
		return nil, err
	}
	if met.CacheLookups, err = m.Int64Counter("speaksmart.cache.lookups",
		metric.WithDescription("Cache lookups by cache and result."),
	); err != nil {
		return nil, err
	}
	if met.Evaluations, err = m.Int64Counter("speaksmart.evaluations",
		metric.WithDescription("Answer evaluations by mode and outcome."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("speaksmart.http.request.duration",
		metric.WithDescription("HTTP request latency by method, route and status."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// NewNopMetrics discards every measurement.
func NewNopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, operation, status string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	m.ProviderRequests.Add(ctx, 1, attrs)
	m.LLMDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) RecordProviderError(ctx context.Context, provider, operation, kind string) {
	m.ProviderErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("operation", operation),
			attribute.String("kind", kind),
		),
	)
}

func (m *Metrics) RecordFallback(ctx context.Context, mode string) {
	m.Fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", mode)))
}

func (m *Metrics) RecordCacheLookup(ctx context.Context, cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("cache", cache),
			attribute.String("result", result),
		),
	)
}

func (m *Metrics) RecordEvaluation(ctx context.Context, mode, outcome string) {
	m.Evaluations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("mode", mode),
			attribute.String("outcome", outcome),
		),
	)
}

func (m *Metrics) RecordTTS(ctx context.Context, elapsed time.Duration) {
	m.TTSDuration.Record(ctx, elapsed.Seconds())
}
