package vectorstore

import (
	"context"
	"testing"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestAugment_AddsNewChunksUpToCap(t *testing.T) {
	var chunks []researchctx.Chunk
	for i := 0; i < 20; i++ {
		chunks = append(chunks, researchctx.Chunk{
			ID:         indexID(i),
			Text:       "alpha beta gamma measurement",
			SourceType: researchctx.SourceDocument,
		})
	}
	adapter := NewMemory(chunks)

	added, err := Augment(context.Background(), adapter, []string{"alpha", "beta"}, nil, researchctx.QueryConstraints{})
	if err != nil {
		t.Fatalf("Augment error: %v", err)
	}
	if len(added) > augmentMaxNewChunks {
		t.Fatalf("expected at most %d new chunks, got %d", augmentMaxNewChunks, len(added))
	}
	if len(added) == 0 {
		t.Fatal("expected at least one augmented chunk")
	}
}

func TestAugment_SkipsAlreadyPresentChunks(t *testing.T) {
	existing := []researchctx.Chunk{{ID: "c0", Text: "alpha term", SourceType: researchctx.SourceDocument}}
	adapter := NewMemory(existing)

	added, err := Augment(context.Background(), adapter, []string{"alpha"}, existing, researchctx.QueryConstraints{})
	if err != nil {
		t.Fatalf("Augment error: %v", err)
	}
	for _, a := range added {
		if a.ID == "c0" {
			t.Fatalf("expected existing chunk c0 to be excluded from augmentation")
		}
	}
}

func TestAugment_MustStrictnessRejectsUnmatchedDomain(t *testing.T) {
	chunk := researchctx.Chunk{ID: "c1", Text: "owner: alice. alpha term", SourceDocument: "unrelated.txt", SourceType: researchctx.SourceDocument}
	adapter := NewMemory([]researchctx.Chunk{chunk})

	constraints := researchctx.QueryConstraints{
		Strictness:               researchctx.StrictnessMust,
		ExpectedDomainCandidates: []string{"finance"},
		ExpectedOwner:            "alice",
	}

	added, err := Augment(context.Background(), adapter, []string{"alpha"}, nil, constraints)
	if err != nil {
		t.Fatalf("Augment error: %v", err)
	}
	if len(added) != 0 {
		t.Fatalf("expected zero chunks under unmatched must-strictness, got %d", len(added))
	}
}

func TestAugment_NoTermsReturnsNil(t *testing.T) {
	adapter := NewMemory(nil)
	added, err := Augment(context.Background(), adapter, nil, nil, researchctx.QueryConstraints{})
	if err != nil || added != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", added, err)
	}
}

func indexID(i int) string {
	return "chunk-" + string(rune('a'+i))
}
