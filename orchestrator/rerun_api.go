package orchestrator

import (
	"context"

	"github.com/dax8it/deepresearch-core/normalize"
	"github.com/dax8it/deepresearch-core/researchctx"
)

// Run captures the state of a completed (or in-progress) Research call so
// that RerunAgent can target a single agent within it afterward (§4.1
// public operations: rerunAgent).
type Run struct {
	ctx   *researchctx.Context
	state *runState
}

// Context exposes the underlying ResearchContext for inspection. Callers
// must not mutate it directly; use RerunAgent to advance the pipeline.
func (r *Run) Context() *researchctx.Context { return r.ctx }

// CalledAgents reports which canonical agent names have executed at
// least once in this run.
func (r *Run) CalledAgents() []string {
	names := make([]string, 0, len(r.state.calledAgents))
	for name, called := range r.state.calledAgents {
		if called {
			names = append(names, name)
		}
	}
	return names
}

// pipelineOrder is the fixed dependency chain used to compute downstream
// agents for rerunAgent's "clear all downstream results" contract.
var pipelineOrder = []string{
	normalize.DataInspector,
	normalize.PlanningAgent,
	normalize.PatternGenerator,
	normalize.Extractor,
	normalize.SynthesisCoordinator,
	normalize.Synthesizer,
	normalize.ResponseFormatter,
}

func downstreamOf(agentName string) []string {
	idx := -1
	for i, name := range pipelineOrder {
		if name == agentName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	return pipelineOrder[idx+1:]
}

// Research runs the decision loop and returns only the final answer,
// discarding the Run handle. Use ResearchRun when a later rerunAgent
// call against the same context is needed.
func (o *Orchestrator) Research(ctx context.Context, query string, ragChunks []researchctx.Chunk) (string, error) {
	answer, _, err := o.ResearchRun(ctx, query, ragChunks)
	return answer, err
}

// RerunAgent performs a targeted rerun of agentName within an existing
// Run: it clears agentName and everything downstream of it from
// calledAgents (preserving upstream results and already-accumulated
// patterns/items per I2), then re-invokes the pipeline's normal
// validation and dispatch path for that single agent.
func (o *Orchestrator) RerunAgent(ctx context.Context, run *Run, agentName string) (string, error) {
	target, _ := o.normalizer.Normalize(agentName)

	run.state.uncall(target)
	for _, downstream := range downstreamOf(target) {
		run.state.uncall(downstream)
	}
	run.state.agentRerunCount[target]++

	o.handleCallTool(ctx, target, run.ctx, run.state)
	return o.finalize(run.ctx, run.state), nil
}
