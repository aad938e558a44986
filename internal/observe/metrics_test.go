package observe

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestRecordCacheLookup(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordCacheLookup(ctx, "questions", true)
	m.RecordCacheLookup(ctx, "questions", false)
	m.RecordCacheLookup(ctx, "questions", false)

	got := findMetric(collect(t, reader), "speaksmart.cache.lookups")
	require.NotNil(t, got)
	sum, ok := got.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byResult := map[string]int64{}
	for _, dp := range sum.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("result"))
		byResult[v.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"hit": 1, "miss": 2}, byResult)
}

func TestRecordProviderRequest_RecordsLatency(t *testing.T) {
	m, reader := newTestMetrics(t)

	m.RecordProviderRequest(context.Background(), "groq", "evaluate", "ok", 1500*time.Millisecond)

	rm := collect(t, reader)
	hist := findMetric(rm, "speaksmart.llm.duration")
	require.NotNil(t, hist)
	data, ok := hist.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.EqualValues(t, 1, data.DataPoints[0].Count)
	assert.InDelta(t, 1.5, data.DataPoints[0].Sum, 1e-9)

	assert.NotNil(t, findMetric(rm, "speaksmart.provider.requests"))
}

func TestNewNopMetrics(t *testing.T) {
	m := NewNopMetrics()
	require.NotNil(t, m)
	m.RecordFallback(context.Background(), "job")
}

func TestMetricsHandler_ExposesPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	mp, err := NewPrometheusProvider(reg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	m.RecordFallback(context.Background(), "ielts")

	app := fiber.New()
	app.Use(Middleware(m))
	app.Get("/metrics", MetricsHandler(reg))

	res, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	body, _ := io.ReadAll(res.Body)
	assert.Regexp(t, `speaksmart.questions.fallbacks`, string(body))
}
