package orchestrator

import (
	"github.com/dax8it/deepresearch-core/normalize"
	"github.com/dax8it/deepresearch-core/researchctx"
)

// completionCheck is the result of completion validation (§4.1.2).
type completionCheck struct {
	allowed   bool
	nextAgent string
}

func (o *Orchestrator) validateCompletion(rc *researchctx.Context, run *runState) completionCheck {
	if !run.calledAgents[normalize.DataInspector] {
		return completionCheck{allowed: false, nextAgent: normalize.DataInspector}
	}

	if plan := rc.SharedKnowledge.ExecutionPlan; plan != nil {
		for _, step := range plan.Steps {
			name, _ := o.normalizer.Normalize(step.Agent)
			if !run.calledAgents[name] {
				return completionCheck{allowed: false, nextAgent: name}
			}
		}
	}

	synthesisCalled := run.calledAgents[normalize.SynthesisCoordinator] || run.calledAgents[normalize.Synthesizer]
	if synthesisCalled && rc.Synthesis.Answer != "" {
		return completionCheck{allowed: true}
	}

	// Emergency clause: any non-empty answer, however poor, unblocks completion.
	if rc.Synthesis.Answer != "" {
		return completionCheck{allowed: true}
	}

	if rc.SharedKnowledge.ExecutionPlan == nil {
		return completionCheck{allowed: false, nextAgent: nextInFallbackSequence(rc, run)}
	}

	return completionCheck{allowed: false, nextAgent: normalize.SynthesisCoordinator}
}

// nextInFallbackSequence enforces the fixed fallback order used when no
// execution plan exists: DataInspector -> PlanningAgent -> (PatternGenerator
// if no extraction yet) -> Extractor -> Synthesizer.
func nextInFallbackSequence(rc *researchctx.Context, run *runState) string {
	switch {
	case !run.calledAgents[normalize.DataInspector]:
		return normalize.DataInspector
	case !run.calledAgents[normalize.PlanningAgent]:
		return normalize.PlanningAgent
	case len(rc.Patterns) == 0 && !run.calledAgents[normalize.PatternGenerator]:
		return normalize.PatternGenerator
	case !run.calledAgents[normalize.Extractor]:
		return normalize.Extractor
	default:
		return normalize.Synthesizer
	}
}

// validationResult is the outcome of plan-aware validation (§4.1.4).
type validationResult struct {
	allowed   bool
	nextAgent string
}

func (o *Orchestrator) validateCallTarget(target string, rc *researchctx.Context, run *runState) validationResult {
	if target != normalize.DataInspector && !run.calledAgents[normalize.DataInspector] {
		return validationResult{allowed: false, nextAgent: normalize.DataInspector}
	}
	if target == normalize.DataInspector {
		return validationResult{allowed: true}
	}

	plan := rc.SharedKnowledge.ExecutionPlan
	if plan == nil {
		return o.validateWithoutPlan(target, rc)
	}

	for _, step := range plan.Steps {
		stepAgent, _ := o.normalizer.Normalize(step.Agent)
		if stepAgent != target {
			continue
		}
		if critical := o.firstCriticalPrerequisite(target, rc, run); critical != "" {
			return validationResult{allowed: false, nextAgent: critical}
		}
		return validationResult{allowed: true}
	}

	// Intelligent addition: agent not in the plan.
	return o.validateIntelligentAddition(target, rc)
}

func (o *Orchestrator) validateWithoutPlan(target string, rc *researchctx.Context) validationResult {
	switch target {
	case normalize.PatternGenerator, normalize.Extractor, normalize.PlanningAgent, normalize.WebSearchAgent:
		return validationResult{allowed: true}
	case normalize.SynthesisCoordinator, normalize.Synthesizer, normalize.ResponseFormatter:
		if len(rc.ExtractedData.Raw) > 0 || rc.DocumentAnalysis != nil || len(rc.RAGResults.Chunks) > 0 {
			return validationResult{allowed: true}
		}
		return validationResult{allowed: false, nextAgent: normalize.Extractor}
	default:
		return validationResult{allowed: true}
	}
}

func (o *Orchestrator) validateIntelligentAddition(target string, rc *researchctx.Context) validationResult {
	switch target {
	case normalize.Extractor, normalize.PatternGenerator, normalize.PlanningAgent, normalize.WebSearchAgent:
		return validationResult{allowed: true}
	case normalize.SynthesisCoordinator, normalize.Synthesizer, normalize.ResponseFormatter:
		if len(rc.ExtractedData.Raw) > 0 || rc.DocumentAnalysis != nil || len(rc.RAGResults.Chunks) > 0 {
			return validationResult{allowed: true}
		}
		return validationResult{allowed: false, nextAgent: normalize.Extractor}
	default:
		return validationResult{allowed: true}
	}
}

// firstCriticalPrerequisite implements §4.1.6: the uncompleted plan steps
// whose absence would invalidate target's own input contract.
func (o *Orchestrator) firstCriticalPrerequisite(target string, rc *researchctx.Context, run *runState) string {
	if target != normalize.DataInspector && !run.calledAgents[normalize.DataInspector] {
		return normalize.DataInspector
	}

	consumesExtractedData := target == normalize.SynthesisCoordinator || target == normalize.Synthesizer ||
		target == normalize.ResponseFormatter
	if consumesExtractedData && !run.calledAgents[normalize.Extractor] {
		return normalize.Extractor
	}

	if target == normalize.Extractor && len(rc.Patterns) == 0 && !run.calledAgents[normalize.PatternGenerator] {
		return normalize.PatternGenerator
	}

	if target == normalize.Synthesizer {
		if _, registered := o.registry.GetAgent(normalize.SynthesisCoordinator); registered {
			if !run.calledAgents[normalize.SynthesisCoordinator] {
				return normalize.SynthesisCoordinator
			}
		}
	}

	return ""
}
