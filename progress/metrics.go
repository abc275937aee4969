package progress

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder exposes agent-level counters and histograms under a
// dedicated registry, mirroring the shape of an agent-call dashboard: call
// counts, duration, errors, and token usage per agent.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	agentCalls        *prometheus.CounterVec
	agentCallDuration *prometheus.HistogramVec
	agentErrors       *prometheus.CounterVec
	agentTokens       *prometheus.CounterVec
	agentActiveRuns   *prometheus.GaugeVec
}

// NewPrometheusRecorder builds a recorder with its own registry, namespaced
// under "research".
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{registry: prometheus.NewRegistry()}

	r.agentCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "research",
		Subsystem: "agent",
		Name:      "calls_total",
		Help:      "Total number of agent invocations",
	}, []string{"agent_name", "agent_type"})

	r.agentCallDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "research",
		Subsystem: "agent",
		Name:      "call_duration_seconds",
		Help:      "Agent invocation duration in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 15),
	}, []string{"agent_name", "agent_type"})

	r.agentErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "research",
		Subsystem: "agent",
		Name:      "errors_total",
		Help:      "Total number of agent errors",
	}, []string{"agent_name", "agent_type"})

	r.agentTokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "research",
		Subsystem: "agent",
		Name:      "tokens_total",
		Help:      "Total number of LLM tokens consumed per agent",
	}, []string{"agent_name"})

	r.agentActiveRuns = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "research",
		Subsystem: "agent",
		Name:      "active_runs",
		Help:      "Number of currently active agent runs",
	}, []string{"agent_name"})

	r.registry.MustRegister(r.agentCalls, r.agentCallDuration, r.agentErrors, r.agentTokens, r.agentActiveRuns)
	return r
}

func (r *PrometheusRecorder) recordStart(step SubStep) {
	r.agentActiveRuns.WithLabelValues(step.AgentName).Inc()
}

func (r *PrometheusRecorder) recordFinish(step SubStep) {
	r.agentActiveRuns.WithLabelValues(step.AgentName).Dec()
	r.agentCalls.WithLabelValues(step.AgentName, step.AgentType).Inc()
	r.agentCallDuration.WithLabelValues(step.AgentName, step.AgentType).Observe(step.Duration.Seconds())
	if step.Metrics.TokensUsed > 0 {
		r.agentTokens.WithLabelValues(step.AgentName).Add(float64(step.Metrics.TokensUsed))
	}
	if step.Status == StatusFailed {
		r.agentErrors.WithLabelValues(step.AgentName, step.AgentType).Inc()
	}
}

// Handler serves the recorder's registry over HTTP for scraping.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (r *PrometheusRecorder) Registry() *prometheus.Registry {
	return r.registry
}
