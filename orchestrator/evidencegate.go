package orchestrator

import (
	"context"
	"regexp"

	"github.com/dax8it/deepresearch-core/normalize"
	"github.com/dax8it/deepresearch-core/researchctx"
)

var (
	performanceQueryRE = regexp.MustCompile(`(?i)(best|top|fastest|slowest|performance|speed|benchmark|compare|ranking)`)
	performanceUnitRE  = regexp.MustCompile(`(?i)(hours?|minutes?|seconds?|tokens?/s|throughput|time)`)
	numericItemRE      = regexp.MustCompile(`\d`)
)

const (
	insufficientEvidenceMessage    = "Insufficient numeric evidence was found in the retrieved documents to answer this performance query with confidence."
	insufficientEvidenceConfidence = 0.25
)

// isPerformanceQuery reports whether query matches both halves of the
// evidence-gate trigger condition.
func isPerformanceQuery(query string) bool {
	return performanceQueryRE.MatchString(query) && performanceUnitRE.MatchString(query)
}

func countNumericItems(items []researchctx.Item) int {
	n := 0
	for _, it := range items {
		if numericItemRE.MatchString(it.Content) {
			n++
		}
	}
	return n
}

// evidenceGate implements §4.7.3. It may invoke one remedial
// PatternGenerator -> Extractor loop before falling back to a fixed
// low-confidence non-answer. Returns true if synthesis should be skipped
// entirely (the gate already wrote a fallback answer).
func (o *Orchestrator) evidenceGate(ctx context.Context, rc *researchctx.Context, run *runState) bool {
	if !isPerformanceQuery(rc.Query) {
		return false
	}
	if countNumericItems(rc.ExtractedData.Raw) >= 2 {
		return false
	}

	patternGeneratorRan := run.calledAgents[normalize.PatternGenerator]
	extractorRan := run.calledAgents[normalize.Extractor]
	if !patternGeneratorRan || !extractorRan {
		o.invokeIfRegistered(ctx, normalize.PatternGenerator, rc, run)
		o.invokeIfRegistered(ctx, normalize.Extractor, rc, run)
	}

	if countNumericItems(rc.ExtractedData.Raw) >= 2 {
		return false
	}

	rc.Synthesis = researchctx.Synthesis{
		Answer:     insufficientEvidenceMessage,
		Confidence: insufficientEvidenceConfidence,
		Structure:  researchctx.StructureExplanation,
	}
	return true
}

func (o *Orchestrator) invokeIfRegistered(ctx context.Context, name string, rc *researchctx.Context, run *runState) {
	ag, ok := o.registry.GetAgent(name)
	if !ok {
		return
	}
	if err := ag.Process(ctx, rc); err != nil {
		o.logger.Warn("remedial agent invocation failed", "agent", name, "error", err)
		return
	}
	run.markCalled(name, AgentResult{Success: true, Timestamp: o.now()})
}
