package orchestrator

import (
	"context"
	"strings"

	"github.com/dax8it/deepresearch-core/researchctx"
)

// expandChunksPostDataInspector implements §4.1.8: once DataInspector has
// approved a set of documents, replace the (possibly sampled) chunk list
// with every chunk belonging to an approved document.
func (o *Orchestrator) expandChunksPostDataInspector(ctx context.Context, rc *researchctx.Context) {
	if o.store == nil || rc.DocumentAnalysis == nil || len(rc.DocumentAnalysis.Documents) == 0 {
		return
	}

	all, err := o.store.GetAllChunks(ctx)
	if err != nil {
		o.logger.Warn("chunk expansion failed", "error", err)
		return
	}

	approved := make([]string, 0, len(rc.DocumentAnalysis.Documents))
	for _, d := range rc.DocumentAnalysis.Documents {
		if d.Approved {
			approved = append(approved, d.DocumentID)
		}
	}
	if len(approved) == 0 {
		return
	}

	matched := make([]researchctx.Chunk, 0, len(all))
	for _, c := range all {
		id := c.SourceDocument
		if id == "" {
			id = c.Source
		}
		if id == "" {
			continue
		}
		if matchesAnyDocument(id, approved) {
			matched = append(matched, c)
		}
	}

	if len(matched) == 0 {
		return
	}
	rc.RAGResults.Chunks = matched
}

func matchesAnyDocument(chunkDocID string, approved []string) bool {
	lowerChunk := strings.ToLower(chunkDocID)
	for _, a := range approved {
		lowerApproved := strings.ToLower(a)
		if strings.Contains(lowerChunk, lowerApproved) || strings.Contains(lowerApproved, lowerChunk) {
			return true
		}
	}
	return false
}
