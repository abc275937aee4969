// Package orchestrator drives the decision loop that advances the
// research pipeline to a validated completion: asking an LLM advisor
// what to do next, normalizing and validating its answer against the
// execution plan and dependency graph, invoking the chosen agent, and
// assessing the quality of its output before deciding whether to retry,
// continue, or stop (§4.1).
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dax8it/deepresearch-core/agent"
	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/normalize"
	"github.com/dax8it/deepresearch-core/progress"
	"github.com/dax8it/deepresearch-core/researchctx"
	"github.com/dax8it/deepresearch-core/vectorstore"
)

const maxIterations = 15

// Orchestrator is the Master Orchestrator (§4.1): it owns no cross-run
// state, rebuilding a fresh runState for every Research call.
type Orchestrator struct {
	registry   *agent.Registry
	advisor    llmadvisor.Advisor
	normalizer *normalize.Normalizer
	store      vectorstore.Adapter
	observer   progress.Observer
	logger     *slog.Logger
	clock      func() time.Time
}

// New builds an Orchestrator over reg. advisor drives decision-making
// and quality assessment; store is optional (nil disables the
// post-DataInspector chunk expansion; RxDB augmentation uses the store
// PatternGenerator was built with); observer is optional (nil uses a
// no-op).
func New(reg *agent.Registry, advisor llmadvisor.Advisor, store vectorstore.Adapter, observer progress.Observer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = progress.Noop{}
	}
	return &Orchestrator{
		registry:   reg,
		advisor:    advisor,
		normalizer: normalize.New(reg.Names(), logger),
		store:      store,
		observer:   observer,
		logger:     logger,
	}
}

// ResearchRun runs the decision loop against query and ragChunks,
// returning synthesis.answer or a diagnostic fallback message, together
// with a Run handle that RerunAgent can later target (§4.1 research).
func (o *Orchestrator) ResearchRun(ctx context.Context, query string, ragChunks []researchctx.Chunk) (string, *Run, error) {
	rc := researchctx.New(query, ragChunks)
	run := newRunState()

	for i := 0; i < maxIterations; i++ {
		decision := o.decide(ctx, rc, run)

		switch decision.Action {
		case llmadvisor.ActionComplete:
			check := o.validateCompletion(rc, run)
			if check.allowed {
				return o.finalize(rc, run), &Run{ctx: rc, state: run}, nil
			}
			o.handleCallTool(ctx, check.nextAgent, rc, run)
		case llmadvisor.ActionCallTool:
			o.handleCallTool(ctx, decision.ToolName, rc, run)
		default:
			// ActionOther: advisor gave nothing actionable; fall back to
			// the same default-sequence logic completion validation uses.
			o.handleCallTool(ctx, nextInFallbackSequence(rc, run), rc, run)
		}
	}

	return o.finalize(rc, run), &Run{ctx: rc, state: run}, nil
}

func (o *Orchestrator) finalize(rc *researchctx.Context, run *runState) string {
	if rc.Synthesis.Answer == "" {
		rc.Synthesis.Answer = diagnosticFallback(rc, run)
	}
	return rc.Synthesis.Answer
}

func (o *Orchestrator) decide(ctx context.Context, rc *researchctx.Context, run *runState) llmadvisor.Decision {
	if o.advisor == nil {
		return llmadvisor.Decision{Action: llmadvisor.ActionCallTool, ToolName: nextInFallbackSequence(rc, run)}
	}
	prompt := o.buildDecisionPrompt(rc, run)
	response, err := o.advisor.Complete(ctx, prompt)
	if err != nil {
		o.logger.Warn("decision advisor call failed", "error", err)
		return llmadvisor.Decision{Action: llmadvisor.ActionOther}
	}
	return llmadvisor.ParseDecision(response, o.normalizer.Normalize)
}

func (o *Orchestrator) handleCallTool(ctx context.Context, rawTarget string, rc *researchctx.Context, run *runState) {
	if rawTarget == "" {
		return
	}
	target, _ := o.normalizer.Normalize(rawTarget)

	validation := o.validateCallTarget(target, rc, run)
	if !validation.allowed {
		o.recordSkipped(rc, target, "prerequisite missing", validation.nextAgent)
		return
	}

	if run.calledAgents[target] {
		rd := o.rerunPolicy(target, rc, run)
		if !rd.shouldRerun {
			o.recordSkipped(rc, target, rd.reason, "")
			return
		}
		run.uncall(target)
		run.agentRerunCount[target]++
	}

	if isSynthesisAgent(target) && o.evidenceGate(ctx, rc, run) {
		run.markCalled(target, AgentResult{Success: true, Timestamp: o.now()})
		return
	}

	ag, ok := o.registry.GetAgent(target)
	if !ok {
		o.recordSkipped(rc, target, "agent not registered", "")
		return
	}

	run.agentInputSignatures[target] = inputSignature(target, rc)
	stepID := uuid.NewString()
	o.observer.OnAgentStart(progress.SubStep{ID: stepID, AgentName: target, Status: progress.StatusRunning, StartTime: o.now()})

	start := o.now()
	err := ag.Process(ctx, rc)
	duration := o.now().Sub(start)

	run.markCalled(target, AgentResult{Success: err == nil, Duration: duration, Err: err, Timestamp: o.now()})

	if err != nil {
		o.logger.Warn("agent invocation failed", "agent", target, "error", err)
		o.observer.OnAgentError(progress.SubStep{ID: stepID, AgentName: target, Status: progress.StatusFailed, Error: err.Error()})
		return
	}
	o.observer.OnAgentComplete(progress.SubStep{ID: stepID, AgentName: target, Status: progress.StatusCompleted, Duration: duration})

	if target == normalize.DataInspector {
		o.expandChunksPostDataInspector(ctx, rc)
	}

	if o.assessQuality(ctx, target, rc, run) {
		o.handleCallTool(ctx, target, rc, run)
	}
}

func isSynthesisAgent(name string) bool {
	return name == normalize.SynthesisCoordinator || name == normalize.Synthesizer
}
