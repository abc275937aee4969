package progress

import (
	"testing"
	"time"
)

type recordingObserver struct {
	started, completed, errored, skipped []SubStep
}

func (r *recordingObserver) OnAgentStart(s SubStep)    { r.started = append(r.started, s) }
func (r *recordingObserver) OnAgentProgress(SubStep)   {}
func (r *recordingObserver) OnAgentComplete(s SubStep) { r.completed = append(r.completed, s) }
func (r *recordingObserver) OnAgentError(s SubStep)    { r.errored = append(r.errored, s) }
func (r *recordingObserver) OnAgentSkipped(s SubStep)  { r.skipped = append(r.skipped, s) }

func TestTracker_DelegatesCallbacks(t *testing.T) {
	rec := &recordingObserver{}
	tr := NewTracker(rec, NewPrometheusRecorder(), nil)

	step := SubStep{ID: "s1", AgentName: "Extractor", AgentType: "extraction", Status: StatusRunning}
	tr.OnAgentStart(step)

	step.Status = StatusCompleted
	step.Duration = 50 * time.Millisecond
	step.Metrics.TokensUsed = 120
	tr.OnAgentComplete(step)

	if len(rec.started) != 1 || rec.started[0].AgentName != "Extractor" {
		t.Fatalf("expected one start callback, got %+v", rec.started)
	}
	if len(rec.completed) != 1 {
		t.Fatalf("expected one complete callback, got %+v", rec.completed)
	}
}

func TestTracker_ErrorPath(t *testing.T) {
	rec := &recordingObserver{}
	tr := NewTracker(rec, NewPrometheusRecorder(), nil)

	step := SubStep{ID: "s2", AgentName: "PatternGenerator", Status: StatusRunning}
	tr.OnAgentStart(step)

	step.Status = StatusFailed
	step.Error = "boom"
	tr.OnAgentError(step)

	if len(rec.errored) != 1 || rec.errored[0].Error != "boom" {
		t.Fatalf("expected errored callback with message, got %+v", rec.errored)
	}
}

func TestTracker_NilDelegateDefaultsToNoop(t *testing.T) {
	tr := NewTracker(nil, nil, nil)
	// Should not panic even with no recorder and no delegate.
	tr.OnAgentStart(SubStep{ID: "s3", AgentName: "DataInspector"})
	tr.OnAgentComplete(SubStep{ID: "s3", AgentName: "DataInspector", Status: StatusCompleted})
}
