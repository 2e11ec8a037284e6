package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	HTTPRequestsTotal    metric.Int64Counter
	HTTPRequestDuration  metric.Float64Histogram
	AuthRequestsTotal    metric.Int64Counter
	BookingsCreatedTotal metric.Int64Counter
	PaymentsVerified     metric.Int64Counter
	SessionRestores      metric.Int64Counter
	ActiveSessionsGauge  metric.Int64Gauge
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("autornexus-platform")
		var err error
		m := &AppMetrics{}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		m.HTTPRequestDuration, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.AuthRequestsTotal, err = meter.Int64Counter(
			"auth_requests_total",
			metric.WithDescription("Total number of authentication requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create auth_requests_total: %v", err)
		}

		m.BookingsCreatedTotal, err = meter.Int64Counter(
			"bookings_created_total",
			metric.WithDescription("Total number of bookings created"),
			metric.WithUnit("{booking}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create bookings_created_total: %v", err)
		}

		m.PaymentsVerified, err = meter.Int64Counter(
			"payments_verified_total",
			metric.WithDescription("Total number of gateway payment verifications"),
			metric.WithUnit("{payment}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create payments_verified_total: %v", err)
		}

		m.SessionRestores, err = meter.Int64Counter(
			"session_restores_total",
			metric.WithDescription("Total number of shell restores from a saved session"),
			metric.WithUnit("{restore}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create session_restores_total: %v", err)
		}

		m.ActiveSessionsGauge, err = meter.Int64Gauge(
			"active_sessions_current",
			metric.WithDescription("Current number of live sessions"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create active_sessions_current: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}
