package agent

import (
	"context"
	"strconv"

	"github.com/dax8it/deepresearch-core/researchctx"
)

const webSearchAgentName = "WebSearchAgent"

// Searcher is the injected web-search backend. Implementations typically
// wrap a provider SDK or HTTP API; the core places no requirements on it
// beyond returning ranked snippets with a source label.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]researchctx.Chunk, error)
}

// SearcherFunc adapts a plain function to the Searcher interface.
type SearcherFunc func(ctx context.Context, query string, topK int) ([]researchctx.Chunk, error)

func (f SearcherFunc) Search(ctx context.Context, query string, topK int) ([]researchctx.Chunk, error) {
	return f(ctx, query, topK)
}

const webSearchTopK = 5

// WebSearchAgent is PlanningAgent's named fallback option (§4.3
// fallbackOptions): invoked when the retrieved document set cannot
// satisfy the query, it fetches external chunks tagged SourceWeb and
// folds them into ragResults for the remaining pipeline to consume.
type WebSearchAgent struct {
	searcher Searcher
}

func NewWebSearchAgent(searcher Searcher) *WebSearchAgent {
	return &WebSearchAgent{searcher: searcher}
}

func (w *WebSearchAgent) Name() string        { return webSearchAgentName }
func (w *WebSearchAgent) Description() string { return "Fetches external web results when local documents are insufficient." }

func (w *WebSearchAgent) Process(ctx context.Context, rc *researchctx.Context) error {
	if w.searcher == nil {
		rc.SharedKnowledge.AgentFindings[webSearchAgentName] = "no searcher configured"
		return nil
	}

	results, err := w.searcher.Search(ctx, rc.Query, webSearchTopK)
	if err != nil {
		return newError(webSearchAgentName, "Process", "web search failed", err)
	}

	for i := range results {
		results[i].SourceType = researchctx.SourceWeb
	}
	rc.RAGResults.Chunks = append(rc.RAGResults.Chunks, results...)
	rc.SharedKnowledge.AgentFindings[webSearchAgentName] = resultsSummary(results)
	return nil
}

func resultsSummary(results []researchctx.Chunk) string {
	if len(results) == 0 {
		return "no web results found"
	}
	return "fetched " + strconv.Itoa(len(results)) + " web results"
}

var _ Agent = (*WebSearchAgent)(nil)
