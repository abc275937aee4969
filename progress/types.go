// Package progress reports the orchestrator's step-by-step execution to an
// observer, and mirrors that same information into Prometheus metrics and
// OpenTelemetry spans (§6.4).
package progress

import "time"

// Status is the lifecycle state of a pipeline sub-step.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusSkipped   Status = "skipped"
)

// Metrics accumulates per-run counters surfaced to callers and to
// Prometheus (ProgressMetrics in §6.4).
type Metrics struct {
	LLMCalls     int           `json:"llm_calls"`
	TokensUsed   int           `json:"tokens_used"`
	ResponseTime time.Duration `json:"response_time"`
	Confidence   float64       `json:"confidence"`
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
}

// SubStep describes one agent invocation within a research run.
type SubStep struct {
	ID             string        `json:"id"`
	AgentName      string        `json:"agent_name"`
	AgentType      string        `json:"agent_type"`
	Status         Status        `json:"status"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time,omitempty"`
	Duration       time.Duration `json:"duration,omitempty"`
	Thinking       string        `json:"thinking,omitempty"`
	Progress       float64       `json:"progress"`
	Stage          string        `json:"stage,omitempty"`
	ItemsProcessed int           `json:"items_processed"`
	TotalItems     int           `json:"total_items"`
	Error          string        `json:"error,omitempty"`
	RetryCount     int           `json:"retry_count"`
	Metrics        Metrics       `json:"metrics"`
}

// Observer receives progress callbacks from the orchestrator as each
// agent starts, reports interim progress, finishes, or is skipped.
type Observer interface {
	OnAgentStart(step SubStep)
	OnAgentProgress(step SubStep)
	OnAgentComplete(step SubStep)
	OnAgentError(step SubStep)
	OnAgentSkipped(step SubStep)
}
