package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestSynthesisCoordinator_NoItemsProducesNoResultsReport(t *testing.T) {
	sc := NewSynthesisCoordinator(nil)
	rc := researchctx.New("what is the fastest run", nil)

	if err := sc.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if rc.Synthesis.Confidence != 0.2 {
		t.Fatalf("expected confidence 0.2 for no-results report, got %v", rc.Synthesis.Confidence)
	}
	if rc.Synthesis.Answer == "" {
		t.Fatal("expected a non-empty no-results report")
	}
}

func TestSynthesisCoordinator_DedupsAndGroups(t *testing.T) {
	sc := NewSynthesisCoordinator(nil)
	rc := researchctx.New("rank the fastest runs", nil)
	v1, v2 := 3.5, 3.5
	rc.ExtractedData.Raw = []researchctx.Item{
		{Content: "Run A completed in 3.5 hours", Value: &v1, Unit: "hours", Confidence: 0.8, SourceChunkID: "c1"},
		{Content: "Run A completed in 3.5 hours", Value: &v2, Unit: "hours", Confidence: 0.8, SourceChunkID: "c1"},
		{Content: "**Run B completed in 4.0 hours:", Value: floatPtr(4.0), Unit: "hours", Confidence: 0.7, SourceChunkID: "c2"},
	}

	if err := sc.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if rc.AnalyzedData == nil || len(rc.AnalyzedData.Cleaned) != 2 {
		t.Fatalf("expected 2 cleaned items after dedup, got %+v", rc.AnalyzedData)
	}
	if rc.Synthesis.Structure != researchctx.StructureList {
		t.Fatalf("expected list structure for ranking query, got %v", rc.Synthesis.Structure)
	}
}

func TestSynthesisCoordinator_ClassifiesGroupsViaAdvisor(t *testing.T) {
	var prompts []string
	advisor := llmadvisor.Func(func(ctx context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if strings.Contains(prompt, "current_record") {
			return "CLASSIFICATION: historical\n", nil
		}
		return "CLASSIFICATION: current\n", nil
	})

	sc := NewSynthesisCoordinator(advisor)
	rc := researchctx.New("what is the current throughput", nil)
	v1 := 120.0
	rc.ExtractedData.Raw = []researchctx.Item{
		{Content: "Throughput reading", Value: &v1, Unit: "tok/s", Confidence: 0.8, SourceChunkID: "c1", Metadata: map[string]any{"type": "current_record"}},
	}

	if err := sc.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(prompts) == 0 {
		t.Fatal("expected the advisor to be consulted for group classification")
	}
	if !strings.Contains(rc.Synthesis.Answer, "historical") {
		t.Fatalf("expected the reclassified current_record group to surface as historical in the rendered answer, got:\n%s", rc.Synthesis.Answer)
	}
}

func floatPtr(f float64) *float64 { return &f }
