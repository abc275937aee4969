package vectorstore

import (
	"context"
	"testing"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestMemory_SearchSimilarRanksByOccurrence(t *testing.T) {
	chunks := []researchctx.Chunk{
		{ID: "a", Text: "tokens tokens tokens per second"},
		{ID: "b", Text: "tokens per second once"},
		{ID: "c", Text: "nothing relevant here"},
	}
	m := NewMemory(chunks)

	results, err := m.SearchSimilar(context.Background(), "tokens", 2, 0.0, false)
	if err != nil {
		t.Fatalf("SearchSimilar error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].ID != "a" {
		t.Fatalf("expected chunk 'a' ranked first, got %q", results[0].ID)
	}
}

func TestMemory_GetAllChunks(t *testing.T) {
	chunks := []researchctx.Chunk{{ID: "x"}, {ID: "y"}}
	m := NewMemory(chunks)
	got, err := m.GetAllChunks(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d, err %v", len(got), err)
	}
}
