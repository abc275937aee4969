package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dax8it/deepresearch-core/normalize"
	"github.com/dax8it/deepresearch-core/researchctx"
)

// inputSignature computes the §4.1.5 signature for agent over the
// portion of rc it consumes, so the Orchestrator can tell whether a
// repeat call would be informative.
func inputSignature(agent string, rc *researchctx.Context) string {
	switch agent {
	case normalize.PatternGenerator:
		return hashFields(rc.Query, len(rc.RAGResults.Chunks), len(rc.SharedKnowledge.DocumentInsights.Measurements),
			hashMeasurements(rc.SharedKnowledge.DocumentInsights.Measurements))
	case normalize.Extractor:
		return hashFields(rc.Query, len(rc.RAGResults.Chunks), len(rc.Patterns), hashPatterns(rc.Patterns))
	case normalize.SynthesisCoordinator, normalize.Synthesizer:
		return hashFields(rc.Query, len(rc.RAGResults.Chunks), len(rc.ExtractedData.Raw), hashItems(rc.ExtractedData.Raw))
	default:
		return hashFields(rc.Query, len(rc.RAGResults.Chunks))
	}
}

func hashFields(fields ...any) string {
	h := sha256.New()
	fmt.Fprint(h, fields...)
	return hex.EncodeToString(h.Sum(nil))
}

func hashMeasurements(ms []researchctx.Measurement) string {
	h := sha256.New()
	for _, m := range ms {
		fmt.Fprint(h, m.Raw, m.LeftContext, m.RightContext)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func hashPatterns(patterns []researchctx.Pattern) string {
	h := sha256.New()
	for _, p := range patterns {
		fmt.Fprint(h, p.RegexPattern, p.Description)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func hashItems(items []researchctx.Item) string {
	h := sha256.New()
	for _, it := range items {
		value := "nil"
		if it.Value != nil {
			value = fmt.Sprintf("%v", *it.Value)
		}
		fmt.Fprint(h, it.Content, value, it.Unit)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// rerunDecision describes what the Orchestrator should do with a repeat
// call target (§4.1.5).
type rerunDecision struct {
	shouldRerun bool
	reason      string
}

func (o *Orchestrator) rerunPolicy(target string, rc *researchctx.Context, run *runState) rerunDecision {
	sig := inputSignature(target, rc)
	prevSig := run.agentInputSignatures[target]
	qualityInsufficient := rc.SharedKnowledge.QualityFlags[target] == researchctx.QualityInsufficient ||
		rc.SharedKnowledge.QualityFlags[target] == researchctx.QualityRetryRecommended

	emptySynthesis := (target == normalize.Synthesizer) && rc.Synthesis.Answer == "" && len(rc.ExtractedData.Raw) > 0

	if (sig != prevSig || qualityInsufficient || emptySynthesis) && run.agentRerunCount[target] < maxRerunCount {
		return rerunDecision{shouldRerun: true, reason: "input changed or quality insufficient"}
	}
	return rerunDecision{shouldRerun: false, reason: "no informative change or rerun cap reached"}
}

func (o *Orchestrator) recordSkipped(rc *researchctx.Context, agent, reason, recommendedNext string) {
	planStatus := "no_plan"
	if rc.SharedKnowledge.ExecutionPlan != nil {
		planStatus = "plan_active"
	}
	rc.SharedKnowledge.LastSkippedAgent = &researchctx.SkippedAgent{
		Agent:           agent,
		Reason:          reason,
		RecommendedNext: recommendedNext,
		PlanStatus:      planStatus,
		Timestamp:       o.now(),
	}
}

// now is overridable in tests; production uses wall-clock time.
func (o *Orchestrator) now() time.Time {
	if o.clock != nil {
		return o.clock()
	}
	return time.Now()
}
