package vectorstore

import (
	"context"
	"sort"
	"strings"

	"github.com/dax8it/deepresearch-core/researchctx"
)

// Memory is an in-process Adapter backed by a plain slice, for tests and
// for callers who don't need a real vector database.
type Memory struct {
	chunks []researchctx.Chunk
}

// NewMemory builds a Memory adapter seeded with the given chunks.
func NewMemory(chunks []researchctx.Chunk) *Memory {
	return &Memory{chunks: chunks}
}

// SearchSimilar does a naive case-insensitive substring match against
// chunk text and ranks by term-occurrence count, standing in for real
// vector similarity in tests.
func (m *Memory) SearchSimilar(_ context.Context, term string, topK int, minSimilarity float64, userdocsOnly bool) ([]researchctx.Chunk, error) {
	termLower := strings.ToLower(term)

	type scored struct {
		chunk researchctx.Chunk
		score float64
	}
	var matches []scored

	for _, c := range m.chunks {
		if userdocsOnly && c.SourceType != researchctx.SourceDocument {
			continue
		}
		count := strings.Count(strings.ToLower(c.Text), termLower)
		if count == 0 {
			continue
		}
		score := minSimilarity + float64(count)*0.01
		if score < minSimilarity {
			continue
		}
		matches = append(matches, scored{chunk: c, score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > topK {
		matches = matches[:topK]
	}

	out := make([]researchctx.Chunk, 0, len(matches))
	for _, s := range matches {
		c := s.chunk
		c.Similarity = s.score
		out = append(out, c)
	}
	return out, nil
}

// GetAllChunks returns every chunk held by this adapter.
func (m *Memory) GetAllChunks(_ context.Context) ([]researchctx.Chunk, error) {
	return m.chunks, nil
}

var _ Adapter = (*Memory)(nil)
