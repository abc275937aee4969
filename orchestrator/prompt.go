package orchestrator

import (
	"fmt"
	"strings"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func (o *Orchestrator) buildDecisionPrompt(rc *researchctx.Context, run *runState) string {
	var b strings.Builder
	b.WriteString("You are directing a research pipeline. Decide the next action.\n")
	fmt.Fprintf(&b, "QUERY: %s\n\n", rc.Query)

	b.WriteString("PIPELINE STATUS:\n")
	for _, name := range o.registry.Names() {
		status := "available"
		if run.calledAgents[name] {
			status = "already called"
		}
		fmt.Fprintf(&b, "- %s: %s\n", name, status)
	}

	fmt.Fprintf(&b, "\nDATA SUMMARY: chunks=%d patterns=%d extracted_items=%d synthesis_answer_len=%d\n",
		len(rc.RAGResults.Chunks), len(rc.Patterns), len(rc.ExtractedData.Raw), len(rc.Synthesis.Answer))

	if plan := rc.SharedKnowledge.ExecutionPlan; plan != nil {
		if next := firstUncompletedStep(plan, run); next != "" {
			fmt.Fprintf(&b, "NEXT PLANNED STEP: %s\n", next)
		}
	}

	if skipped := rc.SharedKnowledge.LastSkippedAgent; skipped != nil {
		fmt.Fprintf(&b, "LAST SKIPPED: %s (%s), recommended next: %s\n", skipped.Agent, skipped.Reason, skipped.RecommendedNext)
	}

	b.WriteString("\nRespond with:\nACTION: <CALL_TOOL|COMPLETE>\nTOOL_NAME: <agent name, if CALL_TOOL>\nREASONING: <why>\nNEXT_GOAL: <what you expect next>\n")
	return b.String()
}

func firstUncompletedStep(plan *researchctx.ExecutionPlan, run *runState) string {
	for _, step := range plan.Steps {
		if !run.calledAgents[step.Agent] {
			return step.Agent
		}
	}
	return ""
}

func diagnosticFallback(rc *researchctx.Context, run *runState) string {
	return fmt.Sprintf(
		"Unable to reach a validated synthesis within the iteration budget for query %q. "+
			"Agents called: %d. Chunks available: %d. Items extracted: %d.",
		rc.Query, len(run.calledAgents), len(rc.RAGResults.Chunks), len(rc.ExtractedData.Raw),
	)
}
