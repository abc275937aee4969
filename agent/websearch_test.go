package agent

import (
	"context"
	"testing"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestWebSearchAgent_AppendsWebChunks(t *testing.T) {
	searcher := SearcherFunc(func(ctx context.Context, query string, topK int) ([]researchctx.Chunk, error) {
		return []researchctx.Chunk{{ID: "w1", Text: "web result"}}, nil
	})
	wa := NewWebSearchAgent(searcher)
	rc := researchctx.New("query", nil)

	if err := wa.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if len(rc.RAGResults.Chunks) != 1 {
		t.Fatalf("expected 1 web chunk appended, got %d", len(rc.RAGResults.Chunks))
	}
	if rc.RAGResults.Chunks[0].SourceType != researchctx.SourceWeb {
		t.Fatalf("expected SourceWeb tag, got %q", rc.RAGResults.Chunks[0].SourceType)
	}
}

func TestWebSearchAgent_NilSearcherRecordsFinding(t *testing.T) {
	wa := NewWebSearchAgent(nil)
	rc := researchctx.New("query", nil)

	if err := wa.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if rc.SharedKnowledge.AgentFindings[webSearchAgentName] == "" {
		t.Fatal("expected a recorded finding when no searcher is configured")
	}
}
