package agent

import (
	"context"
	"testing"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestExtractor_AppliesPatternsAcrossChunks(t *testing.T) {
	ex := NewExtractor(nil)
	rc := researchctx.New("query", []researchctx.Chunk{
		{ID: "c1", Text: "Run A completed in 3.5 hours total time"},
		{ID: "c2", Text: "no numbers here"},
	})
	rc.Patterns = []researchctx.Pattern{
		{Description: "hours", RegexPattern: `\d+(?:\.\d+)?\s*hours`, Confidence: 0.9},
	}

	if err := ex.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(rc.ExtractedData.Raw) != 1 {
		t.Fatalf("expected 1 item, got %d", len(rc.ExtractedData.Raw))
	}
	item := rc.ExtractedData.Raw[0]
	if item.Value == nil || *item.Value != 3.5 {
		t.Fatalf("expected parsed value 3.5, got %v", item.Value)
	}
	if item.SourceChunkID != "c1" {
		t.Fatalf("expected source chunk c1, got %q", item.SourceChunkID)
	}
}

func TestExtractor_FallsBackToLLMWhenNoPatternsMatch(t *testing.T) {
	ex := NewExtractor(stubAdvisor("FINDING: the fastest run took 3.5 hours\n"))
	rc := researchctx.New("query", []researchctx.Chunk{{ID: "c1", Text: "irrelevant text"}})

	if err := ex.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(rc.ExtractedData.Raw) != 1 {
		t.Fatalf("expected 1 LLM-extracted item, got %d", len(rc.ExtractedData.Raw))
	}
	method, _ := rc.ExtractedData.Raw[0].Metadata["method"].(string)
	if method != "llm" {
		t.Fatalf("expected method 'llm', got %q", method)
	}
}
