package orchestrator

import (
	"context"
	"fmt"

	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/normalize"
	"github.com/dax8it/deepresearch-core/researchctx"
)

// assessQuality implements §4.1.7: after a successful invocation (except
// PlanningAgent, to avoid recursion), ask the advisor whether the agent's
// output is good enough, and retry once or twice if not.
func (o *Orchestrator) assessQuality(ctx context.Context, agentName string, rc *researchctx.Context, run *runState) bool {
	if agentName == normalize.PlanningAgent {
		return false
	}
	if o.advisor == nil {
		return false
	}

	prompt := buildQualityPrompt(agentName, rc)
	response, err := o.advisor.Complete(ctx, prompt)
	if err != nil {
		o.logger.Warn("quality assessment call failed", "agent", agentName, "error", err)
		return false
	}

	qa := llmadvisor.ParseQualityAssessment(response)
	flag := mapQualityStatus(qa.Status)
	rc.SharedKnowledge.QualityFlags[agentName] = flag

	if flag == researchctx.QualityOK {
		return false
	}

	if run.agentRetryCount[agentName] >= maxRetryCount {
		return false
	}

	rc.SharedKnowledge.AgentGuidance[agentName] = qa.Improvement
	run.agentRetryCount[agentName]++
	run.uncall(agentName)
	return true
}

func mapQualityStatus(status llmadvisor.QualityStatus) researchctx.QualityFlag {
	switch status {
	case llmadvisor.QualityInsufficient:
		return researchctx.QualityInsufficient
	case llmadvisor.QualityRetryRecommended:
		return researchctx.QualityRetryRecommended
	default:
		return researchctx.QualityOK
	}
}

func buildQualityPrompt(agentName string, rc *researchctx.Context) string {
	return fmt.Sprintf(
		"Assess the output quality of %s for query %q.\n"+
			"Chunks: %d, Patterns: %d, Extracted items: %d, Synthesis answer length: %d\n"+
			"Respond with:\nSTATUS: <acceptable|insufficient|retry_recommended>\nREASON: <why>\nIMPROVEMENT: <what to do differently>\n",
		agentName, rc.Query, len(rc.RAGResults.Chunks), len(rc.Patterns), len(rc.ExtractedData.Raw), len(rc.Synthesis.Answer),
	)
}
