package progress

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracker is the Observer the orchestrator drives in production: it fans
// every callback out to a delegate Observer (usually the caller's own UI
// hook), a Prometheus recorder, and an OpenTelemetry span per agent
// invocation.
type Tracker struct {
	delegate Observer
	recorder *PrometheusRecorder
	tracer   trace.Tracer
	logger   *slog.Logger

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewTracker builds a Tracker. delegate may be nil (defaults to Noop).
func NewTracker(delegate Observer, recorder *PrometheusRecorder, logger *slog.Logger) *Tracker {
	if delegate == nil {
		delegate = Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		delegate: delegate,
		recorder: recorder,
		tracer:   otel.Tracer("research/orchestrator"),
		logger:   logger,
		spans:    make(map[string]trace.Span),
	}
}

func (t *Tracker) OnAgentStart(step SubStep) {
	_, span := t.tracer.Start(context.Background(), step.AgentName,
		trace.WithAttributes(
			attribute.String("agent.name", step.AgentName),
			attribute.String("agent.type", step.AgentType),
		))
	t.mu.Lock()
	t.spans[step.ID] = span
	t.mu.Unlock()

	if t.recorder != nil {
		t.recorder.recordStart(step)
	}
	t.logger.Info("agent started", slog.String("agent", step.AgentName), slog.String("step_id", step.ID))
	t.delegate.OnAgentStart(step)
}

func (t *Tracker) OnAgentProgress(step SubStep) {
	t.logger.Debug("agent progress", slog.String("agent", step.AgentName), slog.Float64("progress", step.Progress))
	t.delegate.OnAgentProgress(step)
}

func (t *Tracker) OnAgentComplete(step SubStep) {
	t.endSpan(step, nil)
	if t.recorder != nil {
		t.recorder.recordFinish(step)
	}
	t.logger.Info("agent completed", slog.String("agent", step.AgentName), slog.Duration("duration", step.Duration))
	t.delegate.OnAgentComplete(step)
}

func (t *Tracker) OnAgentError(step SubStep) {
	t.endSpan(step, step.Error)
	if t.recorder != nil {
		t.recorder.recordFinish(step)
	}
	t.logger.Warn("agent error", slog.String("agent", step.AgentName), slog.String("error", step.Error))
	t.delegate.OnAgentError(step)
}

func (t *Tracker) OnAgentSkipped(step SubStep) {
	t.endSpan(step, nil)
	t.logger.Info("agent skipped", slog.String("agent", step.AgentName))
	t.delegate.OnAgentSkipped(step)
}

func (t *Tracker) endSpan(step SubStep, errMsg any) {
	t.mu.Lock()
	span, ok := t.spans[step.ID]
	if ok {
		delete(t.spans, step.ID)
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	if s, ok := errMsg.(string); ok && s != "" {
		span.SetAttributes(attribute.String("error.message", s))
	}
	span.End()
}

var _ Observer = (*Tracker)(nil)
