package agent

import (
	"context"
	"testing"

	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/researchctx"
)

func stubAdvisor(response string) llmadvisor.Advisor {
	return llmadvisor.Func(func(ctx context.Context, prompt string) (string, error) {
		return response, nil
	})
}

func TestDataInspector_NoChunksEmitsStub(t *testing.T) {
	di := NewDataInspector(stubAdvisor(""))
	rc := researchctx.New("what is the fastest run", nil)

	if err := di.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if rc.SharedKnowledge.DocumentInsights.DocumentType != "none" {
		t.Fatalf("expected stub document type 'none', got %q", rc.SharedKnowledge.DocumentInsights.DocumentType)
	}
	if len(rc.SharedKnowledge.DocumentInsights.KeyFindings) == 0 {
		t.Fatal("expected a 'no content' key finding")
	}
}

func TestDataInspector_HarvestsMeasurementsWithContext(t *testing.T) {
	response := "DOCUMENT_TYPE: report\nCONTENT_AREAS: performance\nQUERY_INTENT: find fastest run\nKEY_FINDINGS: run completed in 3.5 hours\n"
	di := NewDataInspector(stubAdvisor(response))
	chunks := []researchctx.Chunk{
		{ID: "c1", Text: "Run A completed in 3.5 hours total time", SourceDocument: "doc1.txt"},
	}
	rc := researchctx.New("fastest run", chunks)

	if err := di.Process(context.Background(), rc); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	insights := rc.SharedKnowledge.DocumentInsights
	if insights.DocumentType != "report" {
		t.Fatalf("expected document type 'report', got %q", insights.DocumentType)
	}
	if len(insights.Measurements) == 0 {
		t.Fatal("expected at least one harvested measurement")
	}
	if rc.DocumentAnalysis == nil || len(rc.DocumentAnalysis.Documents) != 1 {
		t.Fatalf("expected one approved document, got %+v", rc.DocumentAnalysis)
	}
}
