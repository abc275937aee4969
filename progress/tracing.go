package progress

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig controls the OpenTelemetry TracerProvider installed by
// InitGlobalTracer.
type TracingConfig struct {
	Enabled      bool
	ServiceName  string
	SamplingRate float64
}

// InitGlobalTracer installs a process-wide TracerProvider so that the
// spans Tracker opens per agent invocation are actually sampled and
// resource-tagged rather than discarded by the default no-op provider.
// When cfg.Enabled is false it returns the existing global provider
// unchanged (callers that never enable tracing pay no SDK cost).
//
// No span exporter is wired here: this module has no retrieved OTLP
// client dependency, so spans are sampled and hang off the resource but
// are not shipped anywhere. Callers that need a real backend can call
// otel.SetTracerProvider themselves with their own exporter before
// building the Orchestrator.
func InitGlobalTracer(ctx context.Context, cfg TracingConfig) (trace.TracerProvider, error) {
	if !cfg.Enabled {
		return otel.GetTracerProvider(), nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "deepresearch"
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", serviceName),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build otel resource: %w", err)
	}

	rate := cfg.SamplingRate
	if rate <= 0 {
		rate = 1.0
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(rate)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}
