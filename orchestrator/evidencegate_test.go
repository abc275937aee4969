package orchestrator

import (
	"testing"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestIsPerformanceQuery(t *testing.T) {
	cases := map[string]bool{
		"what is the fastest throughput in tokens/s": true,
		"top 3 runs by record time":                  true,
		"compare performance in hours":                true,
		"how does photosynthesis work":                false,
	}
	for query, want := range cases {
		if got := isPerformanceQuery(query); got != want {
			t.Errorf("isPerformanceQuery(%q) = %v, want %v", query, got, want)
		}
	}
}

func TestCountNumericItems(t *testing.T) {
	items := []researchctx.Item{
		{Content: "Run A completed in 3.5 hours"},
		{Content: "no numbers at all"},
		{Content: "another: 42"},
	}
	if n := countNumericItems(items); n != 2 {
		t.Fatalf("expected 2 numeric items, got %d", n)
	}
}
