package telemetry

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	ReportSubmissionsTotal metric.Int64Counter
	ReportReviewsTotal     metric.Int64Counter
	VisitResolutionsTotal  metric.Int64Counter
	News2ScoresTotal       metric.Int64Counter
	PartialWriteFailures   metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("github.com/WailSalutem-Health-Care/care-report-service")

	// HTTP request counter
	httpRequestsTotal, err := meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	// HTTP duration histogram
	httpDurationMs, err := meter.Float64Histogram(
		"http_server_duration_milliseconds",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	// Report submission counter
	reportSubmissionsTotal, err := meter.Int64Counter(
		"report_submissions_total",
		metric.WithDescription("Total number of service report submissions"),
		metric.WithUnit("{submission}"),
	)
	if err != nil {
		return nil, err
	}

	// Report review counter
	reportReviewsTotal, err := meter.Int64Counter(
		"report_reviews_total",
		metric.WithDescription("Total number of report review decisions"),
		metric.WithUnit("{review}"),
	)
	if err != nil {
		return nil, err
	}

	// Visit resolution counter
	visitResolutionsTotal, err := meter.Int64Counter(
		"visit_resolutions_total",
		metric.WithDescription("Total number of visit record resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, err
	}

	// NEWS2 score counter by risk tier
	news2ScoresTotal, err := meter.Int64Counter(
		"news2_scores_total",
		metric.WithDescription("Total number of NEWS2 scores recorded, by risk tier"),
		metric.WithUnit("{score}"),
	)
	if err != nil {
		return nil, err
	}

	// Partial write failure counter
	partialWriteFailures, err := meter.Int64Counter(
		"report_partial_write_failures_total",
		metric.WithDescription("Total number of per-row write failures during report submission"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	// Auth failures counter
	authFailuresTotal, err := meter.Int64Counter(
		"auth_failures_total",
		metric.WithDescription("Total number of authentication failures"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	// Permission check duration histogram
	permissionCheckDuration, err := meter.Float64Histogram(
		"permission_check_duration_ms",
		metric.WithDescription("Permission check duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✓ Custom metrics initialized")

	return &Metrics{
		HTTPRequestsTotal:       httpRequestsTotal,
		HTTPDurationMs:          httpDurationMs,
		ReportSubmissionsTotal:  reportSubmissionsTotal,
		ReportReviewsTotal:      reportReviewsTotal,
		VisitResolutionsTotal:   visitResolutionsTotal,
		News2ScoresTotal:        news2ScoresTotal,
		PartialWriteFailures:    partialWriteFailures,
		AuthFailuresTotal:       authFailuresTotal,
		PermissionCheckDuration: permissionCheckDuration,
	}, nil
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordReportSubmission records a report submission metric
func (m *Metrics) RecordReportSubmission(ctx context.Context, mode string, warnings int) {
	m.ReportSubmissionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.Bool("degraded", warnings > 0),
	))
	if warnings > 0 {
		m.PartialWriteFailures.Add(ctx, int64(warnings), metric.WithAttributes(
			attribute.String("mode", mode),
		))
	}
}

// RecordReportReview records a review decision metric
func (m *Metrics) RecordReportReview(ctx context.Context, status string) {
	m.ReportReviewsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordVisitResolution records how a visit record was resolved
func (m *Metrics) RecordVisitResolution(ctx context.Context, outcome string) {
	m.VisitResolutionsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordNews2Score records a vitals score by risk tier
func (m *Metrics) RecordNews2Score(ctx context.Context, risk string) {
	m.News2ScoresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("risk", risk),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
