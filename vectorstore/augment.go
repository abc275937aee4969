package vectorstore

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/dax8it/deepresearch-core/researchctx"
)

const (
	augmentSimilarityThreshold = 0.3
	augmentTopK                = 5
	augmentMaxNewChunks        = 10
)

// Augment queries adapter once per grounded term, in parallel bounded by
// len(terms), and returns the chunks to append on top of existing — the
// RxDB augmentation step of PatternGenerator's strategy-driven pass
// (§4.4 strategy 1). Every goroutine it starts is joined before Augment
// returns, so no background work outlives this call (§5).
func Augment(ctx context.Context, adapter Adapter, terms []string, existing []researchctx.Chunk, constraints researchctx.QueryConstraints) ([]researchctx.Chunk, error) {
	if adapter == nil || len(terms) == 0 {
		return nil, nil
	}

	hitsByTerm := make([][]researchctx.Chunk, len(terms))
	g, gctx := errgroup.WithContext(ctx)

	for i, term := range terms {
		i, term := i, term
		g.Go(func() error {
			hits, err := adapter.SearchSimilar(gctx, term, augmentTopK, augmentSimilarityThreshold, true)
			if err != nil {
				return err
			}
			hitsByTerm[i] = hits
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.ID] = true
	}

	var added []researchctx.Chunk
	for _, hits := range hitsByTerm {
		for _, hit := range hits {
			if len(added) >= augmentMaxNewChunks {
				return added, nil
			}
			if seen[hit.ID] {
				continue
			}
			if !satisfiesConstraints(hit, constraints) {
				continue
			}
			seen[hit.ID] = true
			added = append(added, hit)
		}
	}
	return added, nil
}

// satisfiesConstraints applies queryConstraints to a candidate chunk. Under
// strictness=must, all three checks must pass; under strictness=should
// (the default), the chunk is accepted unconditionally — constraints are
// advisory only.
func satisfiesConstraints(chunk researchctx.Chunk, c researchctx.QueryConstraints) bool {
	if c.Strictness != researchctx.StrictnessMust {
		return true
	}

	filename := strings.ToLower(chunk.SourceDocument)
	if filename == "" {
		filename = strings.ToLower(chunk.Source)
	}

	domainMatch := len(c.ExpectedDomainCandidates) == 0
	for _, d := range c.ExpectedDomainCandidates {
		if strings.Contains(filename, strings.ToLower(d)) {
			domainMatch = true
			break
		}
	}
	if !domainMatch {
		return false
	}

	titleMatch := len(c.ExpectedTitleHints) == 0
	for _, hint := range c.ExpectedTitleHints {
		if strings.Contains(filename, strings.ToLower(hint)) {
			titleMatch = true
			break
		}
	}
	if !titleMatch {
		return false
	}

	if c.ExpectedOwner != "" {
		content := strings.ToLower(chunk.Text)
		if !strings.Contains(content, strings.ToLower(c.ExpectedOwner)) {
			return false
		}
	}

	return true
}
