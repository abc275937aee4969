package agent

import (
	"context"
	"testing"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestPatternGenerator_InductionAlwaysRuns(t *testing.T) {
	pg := NewPatternGenerator(stubAdvisor(""), nil)
	rc := researchctx.New("fastest run", nil)
	rc.SharedKnowledge.DocumentInsights.Measurements = []researchctx.Measurement{
		{Raw: "3.5", LeftContext: "completed in ", RightContext: " hours total"},
		{Raw: "4.0", LeftContext: "completed in ", RightContext: " hours total"},
	}

	if err := pg.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(rc.Patterns) == 0 {
		t.Fatal("expected induced patterns to be appended")
	}
}

func TestPatternGenerator_FallsBackWhenNothingElseYieldsPatterns(t *testing.T) {
	pg := NewPatternGenerator(stubAdvisor("no regex patterns here"), nil)
	rc := researchctx.New("query", nil)

	if err := pg.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(rc.Patterns) == 0 {
		t.Fatal("expected fallback patterns when induction and LLM both yield nothing")
	}
	for _, p := range rc.Patterns {
		if p.ExtractionStrategy == "fallback" && p.Confidence != fallbackPatternConfidence {
			t.Errorf("expected fallback confidence %v, got %v", fallbackPatternConfidence, p.Confidence)
		}
	}
}

func TestIsMalformed_RejectsUselessGenerics(t *testing.T) {
	cases := []string{"pattern1", "abc", "123", `.*`, "x"}
	for _, c := range cases {
		if !isMalformed(c) {
			t.Errorf("expected %q to be rejected as malformed", c)
		}
	}
}

func TestIsMalformed_AcceptsReasonablePattern(t *testing.T) {
	if isMalformed(`(?i)accuracy\s*:\s*([\d.]+%?)`) {
		t.Fatal("expected a reasonable pattern to pass malformed-pattern detection")
	}
}
