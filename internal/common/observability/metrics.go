package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider    *metric.MeterProvider
	meter            otelmetric.Meter
	runCounter       otelmetric.Int64Counter
	runDuration      otelmetric.Float64Histogram
	attemptCounter   otelmetric.Int64Counter
	rateLimitCounter otelmetric.Int64Counter
}

func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	runCounter, _ := meter.Int64Counter(
		"pipeline.runs",
		otelmetric.WithDescription("Number of pipeline runs"),
	)

	runDuration, _ := meter.Float64Histogram(
		"pipeline.duration",
		otelmetric.WithDescription("Pipeline run duration"),
		otelmetric.WithUnit("ms"),
	)

	attemptCounter, _ := meter.Int64Counter(
		"provider.attempts",
		otelmetric.WithDescription("Number of provider call attempts"),
	)

	rateLimitCounter, _ := meter.Int64Counter(
		"ratelimit.denials",
		otelmetric.WithDescription("Number of rate-limited requests"),
	)

	return &Observability{
		meterProvider:    provider,
		meter:            meter,
		runCounter:       runCounter,
		runDuration:      runDuration,
		attemptCounter:   attemptCounter,
		rateLimitCounter: rateLimitCounter,
	}
}

func (o *Observability) RecordRun(ctx context.Context, phase, status string) {
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("phase", phase),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordRunDuration(ctx context.Context, duration time.Duration, phase, status string) {
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("phase", phase),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordProviderAttempt(ctx context.Context, outcome string) {
	if o.attemptCounter != nil {
		o.attemptCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("outcome", outcome),
		))
	}
}

func (o *Observability) RecordRateLimitDenial(ctx context.Context) {
	if o.rateLimitCounter != nil {
		o.rateLimitCounter.Add(ctx, 1)
	}
}

func (o *Observability) Shutdown() {
	if o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
