package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/researchctx"
)

const planningAgentName = "PlanningAgent"

// PlanningAgent turns DataInspector's insights into an ordered execution
// plan and an initial set of per-document-type extraction strategies
// (§4.3). The default plan, used when the advisor response yields no
// steps, starts after DataInspector (already run by the time this agent
// executes) and ends with SynthesisCoordinator. A plan parsed from the
// advisor response is stored as given: its first and last steps are not
// checked or completed.
type PlanningAgent struct {
	advisor llmadvisor.Advisor
}

func NewPlanningAgent(advisor llmadvisor.Advisor) *PlanningAgent {
	return &PlanningAgent{advisor: advisor}
}

func (p *PlanningAgent) Name() string        { return planningAgentName }
func (p *PlanningAgent) Description() string { return "Builds the ordered execution plan and extraction strategies." }

func (p *PlanningAgent) Process(ctx context.Context, rc *researchctx.Context) error {
	prompt := buildPlanningPrompt(rc)
	response, err := p.advisor.Complete(ctx, prompt)
	if err != nil {
		return newError(planningAgentName, "Process", "advisor call failed", err)
	}

	plan := parsePlanningResponse(response)
	if len(plan.Steps) == 0 {
		plan = defaultPlan(rc)
	}
	rc.SharedKnowledge.ExecutionPlan = &plan

	strategy := researchctx.ExtractionStrategy{
		DocumentType: rc.SharedKnowledge.DocumentInsights.DocumentType,
		QueryIntent:  rc.SharedKnowledge.DocumentInsights.QueryIntent,
		PatternCategories: inferPatternCategories(rc.SharedKnowledge.DocumentInsights),
	}
	rc.SharedKnowledge.ExtractionStrategies[strategy.DocumentType] = strategy

	return nil
}

func buildPlanningPrompt(rc *researchctx.Context) string {
	insights := rc.SharedKnowledge.DocumentInsights
	var b strings.Builder
	b.WriteString("You are planning a research pipeline run.\n")
	fmt.Fprintf(&b, "QUERY: %s\n", rc.Query)
	fmt.Fprintf(&b, "DOCUMENT_TYPE: %s\n", insights.DocumentType)
	fmt.Fprintf(&b, "QUERY_INTENT: %s\n", insights.QueryIntent)
	b.WriteString("Respond with one STEP line per pipeline stage in order, then a FALLBACK line:\n")
	b.WriteString("STEP: <agent> | <action> | <reasoning> | <comma-separated dependencies>\n")
	b.WriteString("FALLBACK: <comma-separated agent names>\n")
	return b.String()
}

var planningStepRE = regexp.MustCompile(`(?im)^\s*STEP\s*:\s*(.+)$`)
var planningFallbackRE = regexp.MustCompile(`(?im)^\s*FALLBACK\s*:\s*(.+)$`)

func parsePlanningResponse(response string) researchctx.ExecutionPlan {
	var plan researchctx.ExecutionPlan
	for _, m := range planningStepRE.FindAllStringSubmatch(response, -1) {
		parts := strings.Split(m[1], "|")
		step := researchctx.PlanStep{}
		if len(parts) > 0 {
			step.Agent = strings.TrimSpace(parts[0])
		}
		if len(parts) > 1 {
			step.Action = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			step.Reasoning = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			step.Dependencies = splitCSV(parts[3])
		}
		if step.Agent != "" {
			plan.Steps = append(plan.Steps, step)
		}
	}
	if m := planningFallbackRE.FindStringSubmatch(response); m != nil {
		plan.FallbackOptions = splitCSV(m[1])
	}
	return plan
}

// defaultPlan is the fixed-order fallback plan used when the advisor
// response cannot be parsed into any steps at all: DataInspector has
// already run, so the plan begins where planning itself is deciding.
func defaultPlan(rc *researchctx.Context) researchctx.ExecutionPlan {
	return researchctx.ExecutionPlan{
		Steps: []researchctx.PlanStep{
			{Agent: "PatternGenerator", Action: "derive extraction patterns", Dependencies: []string{"DataInspector"}},
			{Agent: "Extractor", Action: "extract items from chunks", Dependencies: []string{"PatternGenerator"}},
			{Agent: "SynthesisCoordinator", Action: "synthesize final answer", Dependencies: []string{"Extractor"}},
		},
		FallbackOptions: []string{"WebSearchAgent"},
	}
}

func inferPatternCategories(insights researchctx.DocumentInsights) researchctx.PatternCategories {
	cats := researchctx.PatternCategories{}
	for _, area := range insights.ContentAreas {
		cats.Concepts = append(cats.Concepts, area)
	}
	for _, finding := range insights.KeyFindings {
		cats.Data = append(cats.Data, finding)
	}
	return cats
}

var _ Agent = (*PlanningAgent)(nil)
