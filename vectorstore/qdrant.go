package vectorstore

import (
	"context"
	"fmt"

	"github.com/qdrant/go-client/qdrant"

	"github.com/dax8it/deepresearch-core/researchctx"
)

// QdrantConfig configures a QdrantAdapter.
type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKey     string `yaml:"api_key"`
	UseTLS     bool   `yaml:"use_tls"`
	Collection string `yaml:"collection"`
}

func (c *QdrantConfig) setDefaults() {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 6334
	}
	if c.Collection == "" {
		c.Collection = "research_chunks"
	}
}

// QdrantAdapter is a concrete, swappable Adapter implementation backed by
// a real Qdrant collection. Embedding is the caller's responsibility —
// Embedder converts a search term into the same vector space the
// collection was populated with; this stays out of the core's Non-goals
// around document ingestion (§1) while still letting the adapter perform
// real similarity search.
type QdrantAdapter struct {
	client     *qdrant.Client
	collection string
	embed      Embedder
}

// Embedder turns free text into a query vector.
type Embedder func(ctx context.Context, text string) ([]float32, error)

// NewQdrantAdapter dials a Qdrant instance and returns an Adapter backed
// by it.
func NewQdrantAdapter(cfg QdrantConfig, embed Embedder) (*QdrantAdapter, error) {
	cfg.setDefaults()

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant client: %w", err)
	}

	return &QdrantAdapter{client: client, collection: cfg.Collection, embed: embed}, nil
}

func (a *QdrantAdapter) SearchSimilar(ctx context.Context, term string, topK int, minSimilarity float64, userdocsOnly bool) ([]researchctx.Chunk, error) {
	vector, err := a.embed(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("embed search term %q: %w", term, err)
	}

	searchRequest := &qdrant.SearchPoints{
		CollectionName: a.collection,
		Vector:         vector,
		Limit:          uint64(topK),
		ScoreThreshold: floatPtr(float32(minSimilarity)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if userdocsOnly {
		matchValue, err := qdrant.NewValue(string(researchctx.SourceDocument))
		if err != nil {
			return nil, fmt.Errorf("build source_type filter: %w", err)
		}
		searchRequest.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				{
					ConditionOneOf: &qdrant.Condition_Field{
						Field: &qdrant.FieldCondition{
							Key:   "source_type",
							Match: &qdrant.Match{MatchValue: &qdrant.Match_Keyword{Keyword: matchValue.GetStringValue()}},
						},
					},
				},
			},
		}
	}

	pointsClient := a.client.GetPointsClient()
	result, err := pointsClient.Search(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("search collection %q: %w", a.collection, err)
	}

	chunks := make([]researchctx.Chunk, 0, len(result.Result))
	for _, p := range result.Result {
		chunks = append(chunks, chunkFromPayload(p.Id, p.Payload, float64(p.Score)))
	}
	return chunks, nil
}

func floatPtr(f float32) *float32 { return &f }

// GetAllChunks scrolls through the entire collection in fixed-size pages.
func (a *QdrantAdapter) GetAllChunks(ctx context.Context) ([]researchctx.Chunk, error) {
	var chunks []researchctx.Chunk
	var offset *qdrant.PointId
	pointsClient := a.client.GetPointsClient()

	for {
		req := &qdrant.ScrollPoints{
			CollectionName: a.collection,
			Offset:         offset,
			Limit:          uint32Ptr(256),
			WithPayload:    qdrant.NewWithPayload(true),
		}

		resp, err := pointsClient.Scroll(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scroll collection %q: %w", a.collection, err)
		}

		for _, p := range resp.Result {
			chunks = append(chunks, chunkFromPayload(p.Id, p.Payload, 0))
		}

		if resp.NextPageOffset == nil {
			break
		}
		offset = resp.NextPageOffset
	}

	return chunks, nil
}

func uint32Ptr(v uint32) *uint32 { return &v }

func chunkFromPayload(id *qdrant.PointId, payload map[string]*qdrant.Value, score float64) researchctx.Chunk {
	var chunkID string
	if id != nil {
		switch v := id.PointIdOptions.(type) {
		case *qdrant.PointId_Uuid:
			chunkID = v.Uuid
		case *qdrant.PointId_Num:
			chunkID = fmt.Sprintf("%d", v.Num)
		}
	}

	meta := make(map[string]any, len(payload))
	var text, source, sourceDoc string
	for k, v := range payload {
		val := qdrantValueToAny(v)
		meta[k] = val
		switch k {
		case "text", "content":
			if s, ok := val.(string); ok {
				text = s
			}
		case "source":
			if s, ok := val.(string); ok {
				source = s
			}
		case "source_document", "filename":
			if s, ok := val.(string); ok {
				sourceDoc = s
			}
		}
	}

	return researchctx.Chunk{
		ID:             chunkID,
		Text:           text,
		Source:         source,
		SourceDocument: sourceDoc,
		Similarity:     score,
		Metadata:       meta,
		SourceType:     researchctx.SourceDocument,
	}
}

func qdrantValueToAny(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	default:
		return v
	}
}

// Close releases the underlying Qdrant client connection.
func (a *QdrantAdapter) Close() error {
	return a.client.Close()
}

var _ Adapter = (*QdrantAdapter)(nil)
