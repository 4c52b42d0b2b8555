package observability

import (
	"context"
	"fmt"
	"time"

	"resumescan/internal/analyzer"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for resumescan
type Metrics struct {
	// Analysis metrics
	BatchDuration      metric.Float64Histogram
	BatchCount         metric.Int64Counter
	ResumesAnalyzed    metric.Int64Counter
	ResumesSkipped     metric.Int64Counter
	ResumeScore        metric.Float64Histogram
	ResumeRelevance    metric.Float64Histogram
	IndustryDetections metric.Int64Counter

	// Certificate metrics
	CertReloadCount metric.Int64Counter

	// Infrastructure metrics
	RateLimitHits metric.Int64Counter
	SourceFetches metric.Int64Counter

	om *ObservabilityManager
}

// initCustomMetrics creates all custom metrics for resumescan
func (om *ObservabilityManager) initCustomMetrics() error {
	meter := om.meterProvider.Meter(om.config.ServiceName)
	om.metrics = &Metrics{om: om}

	if err := om.metrics.createAnalysisMetrics(meter); err != nil {
		return err
	}
	return om.metrics.createInfrastructureMetrics(meter)
}

func (m *Metrics) createAnalysisMetrics(meter metric.Meter) error {
	var err error

	m.BatchDuration, err = meter.Float64Histogram(
		"resumescan_batch_duration_seconds",
		metric.WithDescription("Time spent analyzing a batch of resumes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create batch duration metric: %w", err)
	}

	m.BatchCount, err = meter.Int64Counter(
		"resumescan_batches_total",
		metric.WithDescription("Total number of analysis batches"),
	)
	if err != nil {
		return fmt.Errorf("failed to create batch count metric: %w", err)
	}

	m.ResumesAnalyzed, err = meter.Int64Counter(
		"resumescan_resumes_analyzed_total",
		metric.WithDescription("Total number of resumes scored"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes analyzed metric: %w", err)
	}

	m.ResumesSkipped, err = meter.Int64Counter(
		"resumescan_resumes_skipped_total",
		metric.WithDescription("Total number of resumes that produced no result"),
	)
	if err != nil {
		return fmt.Errorf("failed to create resumes skipped metric: %w", err)
	}

	m.ResumeScore, err = meter.Float64Histogram(
		"resumescan_resume_score",
		metric.WithDescription("Composite score of analyzed resumes"),
		metric.WithExplicitBucketBoundaries(0, 4, 8, 12, 15, 20, 30, 50),
	)
	if err != nil {
		return fmt.Errorf("failed to create resume score metric: %w", err)
	}

	m.ResumeRelevance, err = meter.Float64Histogram(
		"resumescan_resume_relevance_percent",
		metric.WithDescription("Job description relevance of analyzed resumes"),
		metric.WithUnit("%"),
		metric.WithExplicitBucketBoundaries(0, 10, 20, 40, 55, 70, 85, 100),
	)
	if err != nil {
		return fmt.Errorf("failed to create resume relevance metric: %w", err)
	}

	m.IndustryDetections, err = meter.Int64Counter(
		"resumescan_industry_detections_total",
		metric.WithDescription("Total number of industries detected from job descriptions"),
	)
	if err != nil {
		return fmt.Errorf("failed to create industry detection metric: %w", err)
	}

	return nil
}

func (m *Metrics) createInfrastructureMetrics(meter metric.Meter) error {
	var err error

	m.CertReloadCount, err = meter.Int64Counter(
		"resumescan_cert_reloads_total",
		metric.WithDescription("Total number of certificate reloads"),
	)
	if err != nil {
		return fmt.Errorf("failed to create certificate reload count metric: %w", err)
	}

	m.RateLimitHits, err = meter.Int64Counter(
		"resumescan_rate_limit_hits_total",
		metric.WithDescription("Total number of rate limit hits"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limit hits metric: %w", err)
	}

	m.SourceFetches, err = meter.Int64Counter(
		"resumescan_source_fetches_total",
		metric.WithDescription("Total number of remote document fetches"),
	)
	if err != nil {
		return fmt.Errorf("failed to create source fetch metric: %w", err)
	}

	return nil
}

// BatchFunc runs one batch analysis.
type BatchFunc func(context.Context) (*analyzer.BatchReport, error)

// TrackAnalysis instruments a batch analysis with a span and, when enabled,
// duration, count and score metrics.
func (m *Metrics) TrackAnalysis(ctx context.Context, source string, fn BatchFunc) (*analyzer.BatchReport, error) {
	ctx, span := otel.Tracer("resumescan.analysis").Start(ctx, "analysis.batch")
	defer span.End()

	start := time.Now()
	report, err := fn(ctx)
	duration := time.Since(start).Seconds()

	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.Bool("success", err == nil),
	}
	if report != nil {
		attrs = append(attrs, attribute.String("industry", report.Industry))
		span.SetAttributes(
			attribute.String("batch.id", report.ID),
			attribute.Bool("industry.detected", report.IndustryDetected),
			attribute.Int("resumes.analyzed", len(report.Results)),
			attribute.Int("resumes.skipped", len(report.Skipped)),
		)
	}
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	m.recordBatch(ctx, report, duration, attrs)
	return report, err
}

func (m *Metrics) recordBatch(ctx context.Context, report *analyzer.BatchReport, duration float64, attrs []attribute.KeyValue) {
	enabled, trackDuration, trackScores := m.om.analysisMetricsEnabled()
	if !enabled || m.BatchCount == nil {
		return
	}
	opt := metric.WithAttributes(attrs...)

	m.BatchCount.Add(ctx, 1, opt)
	if trackDuration {
		m.BatchDuration.Record(ctx, duration, opt)
	}
	if report == nil {
		return
	}

	industry := metric.WithAttributes(attribute.String("industry", report.Industry))
	m.ResumesAnalyzed.Add(ctx, int64(len(report.Results)), industry)
	m.ResumesSkipped.Add(ctx, int64(len(report.Skipped)), industry)
	if report.IndustryDetected {
		m.IndustryDetections.Add(ctx, 1, industry)
	}
	if !trackScores {
		return
	}
	for _, r := range report.Results {
		m.ResumeScore.Record(ctx, r.Score, industry)
		m.ResumeRelevance.Record(ctx, r.RelevanceScore, industry)
	}
}

// RecordIndustryDetection counts a standalone industry detection.
func (m *Metrics) RecordIndustryDetection(ctx context.Context, industry string) {
	if enabled, _, _ := m.om.analysisMetricsEnabled(); !enabled || m.IndustryDetections == nil {
		return
	}
	m.IndustryDetections.Add(ctx, 1, metric.WithAttributes(attribute.String("industry", industry)))
}

// RecordRateLimitHit counts a rejected request.
func (m *Metrics) RecordRateLimitHit(ctx context.Context, attrs ...attribute.KeyValue) {
	if rateLimits, _ := m.om.infrastructureMetricsEnabled(); !rateLimits || m.RateLimitHits == nil {
		return
	}
	m.RateLimitHits.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSourceFetch counts a remote document read. Its signature matches the
// extractor's fetch observer.
func (m *Metrics) RecordSourceFetch(ctx context.Context, kind string, err error) {
	if _, fetches := m.om.infrastructureMetricsEnabled(); !fetches || m.SourceFetches == nil {
		return
	}
	m.SourceFetches.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("success", err == nil),
	))
}

// RecordCertReload counts a certificate reload attempt.
func (m *Metrics) RecordCertReload(ctx context.Context, success bool) {
	if m.CertReloadCount == nil {
		return
	}
	m.CertReloadCount.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}
