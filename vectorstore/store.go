// Package vectorstore defines the VectorStoreAdapter collaborator (§6.3)
// and the RxDB-style augmentation helper PatternGenerator uses to pull in
// additional chunks for grounded terms (§4.4 strategy 1).
package vectorstore

import (
	"context"

	"github.com/dax8it/deepresearch-core/researchctx"
)

// Adapter is the only vector-store dependency the core carries. It is a
// reference collaborator, not a core dependency: orchestrator and agent
// code depend on this interface, never on a concrete client.
type Adapter interface {
	// SearchSimilar returns up to topK chunks similar to term, restricted
	// to chunks whose similarity meets minSimilarity. When userdocsOnly is
	// true, only chunks sourced from the user's own documents are
	// returned (as opposed to, e.g., prior web-search results).
	SearchSimilar(ctx context.Context, term string, topK int, minSimilarity float64, userdocsOnly bool) ([]researchctx.Chunk, error)

	// GetAllChunks returns every chunk available in the store, used for
	// the post-DataInspector chunk expansion (§4.1.8).
	GetAllChunks(ctx context.Context) ([]researchctx.Chunk, error)
}
