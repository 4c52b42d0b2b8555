package observability

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"resumescan/internal/analyzer"
	"resumescan/internal/config"
)

func newTestManager(t *testing.T, mutate func(*config.Config)) *ObservabilityManager {
	t.Helper()
	cfg := config.Defaults()
	cfg.Observability.ConsoleOutput = false
	if mutate != nil {
		mutate(cfg)
	}
	om, err := NewObservabilityManager(GetObservabilityConfig(cfg, "test"), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	return om
}

// collect gathers the manual reader's data points keyed by metric name.
func collect(t *testing.T, om *ObservabilityManager) map[string]metricdata.Aggregation {
	t.Helper()
	require.NotNil(t, om.manualReader)
	var rm metricdata.ResourceMetrics
	require.NoError(t, om.manualReader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func testReport() *analyzer.BatchReport {
	return &analyzer.BatchReport{
		ID:               "b1",
		Industry:         "finance",
		IndustryDetected: true,
		Results: []*analyzer.Result{
			{Name: "a", Score: 12.5, RelevanceScore: 40},
			{Name: "b", Score: 3, RelevanceScore: 5},
		},
		Skipped: []analyzer.SkippedDocument{{Name: "c", Reason: "blank"}},
	}
}

func TestGetObservabilityConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Observability.ServiceVersion = ""
	cfg.Observability.ServiceInstance = "node-7"

	obs := GetObservabilityConfig(cfg, "1.2.3")
	assert.Equal(t, "resumescan", obs.ServiceName)
	assert.Equal(t, "1.2.3", obs.ServiceVersion)
	assert.Equal(t, "node-7", obs.ServiceInstance)
	assert.Equal(t, cfg.Observability.Prometheus.Port, obs.Prometheus.Port)

	fallback := GetObservabilityConfig(nil, "dev")
	assert.Equal(t, "resumescan", fallback.ServiceName)
	assert.False(t, fallback.Prometheus.Enabled)
}

func TestTrackAnalysisRecordsMetrics(t *testing.T) {
	om := newTestManager(t, nil)
	metrics := om.GetMetrics()

	report, err := metrics.TrackAnalysis(context.Background(), "cli", func(context.Context) (*analyzer.BatchReport, error) {
		return testReport(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "b1", report.ID)

	_, err = metrics.TrackAnalysis(context.Background(), "cli", func(context.Context) (*analyzer.BatchReport, error) {
		return nil, stderrors.New("boom")
	})
	assert.EqualError(t, err, "boom")

	data := collect(t, om)
	assert.Equal(t, int64(2), sumOf(t, data["resumescan_batches_total"]))
	assert.Equal(t, int64(2), sumOf(t, data["resumescan_resumes_analyzed_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["resumescan_resumes_skipped_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["resumescan_industry_detections_total"]))

	scores, ok := data["resumescan_resume_score"].(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, scores.DataPoints, 1)
	assert.Equal(t, uint64(2), scores.DataPoints[0].Count)
	assert.InDelta(t, 15.5, scores.DataPoints[0].Sum, 1e-9)
}

func TestScoreTrackingSwitch(t *testing.T) {
	om := newTestManager(t, func(cfg *config.Config) {
		cfg.Observability.CustomMetrics.Analysis.TrackScores = false
	})

	_, err := om.GetMetrics().TrackAnalysis(context.Background(), "http", func(context.Context) (*analyzer.BatchReport, error) {
		return testReport(), nil
	})
	require.NoError(t, err)

	data := collect(t, om)
	assert.Contains(t, data, "resumescan_resumes_analyzed_total")
	assert.NotContains(t, data, "resumescan_resume_score")
}

func TestInfrastructureMetrics(t *testing.T) {
	om := newTestManager(t, func(cfg *config.Config) {
		cfg.Observability.CustomMetrics.Infrastructure.TrackRateLimits = false
	})
	metrics := om.GetMetrics()
	ctx := context.Background()

	metrics.RecordSourceFetch(ctx, "http", nil)
	metrics.RecordSourceFetch(ctx, "s3", stderrors.New("denied"))
	metrics.RecordRateLimitHit(ctx)
	metrics.RecordCertReload(ctx, true)
	metrics.RecordIndustryDetection(ctx, "technology")

	data := collect(t, om)
	assert.Equal(t, int64(2), sumOf(t, data["resumescan_source_fetches_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["resumescan_cert_reloads_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["resumescan_industry_detections_total"]))
	assert.NotContains(t, data, "resumescan_rate_limit_hits_total")
}

func TestDisabledManager(t *testing.T) {
	om := newTestManager(t, func(cfg *config.Config) {
		cfg.Observability.Enabled = false
	})
	assert.False(t, om.Enabled())

	metrics := om.GetMetrics()
	report, err := metrics.TrackAnalysis(context.Background(), "cli", func(context.Context) (*analyzer.BatchReport, error) {
		return testReport(), nil
	})
	require.NoError(t, err)
	assert.NotNil(t, report)
	metrics.RecordSourceFetch(context.Background(), "http", nil)
	metrics.RecordRateLimitHit(context.Background())

	called := false
	h := ObservabilityMiddleware(om, "GET /health")(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.True(t, called)
}

func TestObservabilityMiddlewareRecordsStatus(t *testing.T) {
	om := newTestManager(t, nil)
	h := ObservabilityMiddleware(om, "POST /analyze")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestPrometheusExporter(t *testing.T) {
	reader, mux, err := SetupPrometheusExporter(PrometheusConfig{Enabled: true, Endpoint: "/metrics"})
	require.NoError(t, err)
	require.NotNil(t, reader)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "go_goroutines")

	reader, mux, err = SetupPrometheusExporter(PrometheusConfig{})
	require.NoError(t, err)
	assert.Nil(t, reader)
	assert.Nil(t, mux)
}
