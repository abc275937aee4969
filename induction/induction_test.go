package induction

import (
	"regexp"
	"testing"

	"github.com/dax8it/deepresearch-core/researchctx"
)

func TestInduce_NoHitsReturnsNoPatterns(t *testing.T) {
	chunks := []researchctx.Chunk{{Text: "No numbers here at all, just words."}}
	patterns := Induce(nil, chunks)
	if len(patterns) != 0 {
		t.Fatalf("expected zero patterns, got %d", len(patterns))
	}
}

func TestInduce_LearnsDotStyleAndHoursFamily(t *testing.T) {
	measurements := []researchctx.Measurement{
		{Raw: "3.5", LeftContext: "Run A completed in ", RightContext: " hours total time"},
		{Raw: "4.0", LeftContext: "Run C completed in ", RightContext: " hours total time"},
	}
	patterns := Induce(measurements, nil)
	if len(patterns) == 0 {
		t.Fatal("expected at least one induced pattern")
	}
	found := false
	for _, p := range patterns {
		if _, err := regexp.Compile(trimSlashes(p.RegexPattern)); err != nil {
			t.Errorf("pattern %q failed to compile: %v", p.RegexPattern, err)
		}
		if p.Confidence != inducedConfidence {
			t.Errorf("expected confidence %v, got %v", inducedConfidence, p.Confidence)
		}
		if contains(p.Description, "hours") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an hours-family pattern among %v", patterns)
	}
}

func TestInduce_SlashFormFamily(t *testing.T) {
	measurements := []researchctx.Measurement{
		{Raw: "120", LeftContext: "throughput was ", RightContext: " tokens/s sustained"},
		{Raw: "95", LeftContext: "throughput was ", RightContext: " tokens/s sustained"},
	}
	patterns := Induce(measurements, nil)
	if len(patterns) == 0 {
		t.Fatal("expected at least one induced pattern")
	}
}

func TestInduce_CapsAtTwelve(t *testing.T) {
	var measurements []researchctx.Measurement
	units := []string{"hours", "minutes", "seconds", "tokens", "items", "rows",
		"units", "percent", "meters", "miles", "grams", "points", "cycles", "steps"}
	for i, u := range units {
		measurements = append(measurements, researchctx.Measurement{
			Raw: "1.0", LeftContext: "value ", RightContext: " " + u + string(rune('a'+i)),
		})
	}
	patterns := Induce(measurements, nil)
	if len(patterns) > 12 {
		t.Fatalf("expected at most 12 patterns, got %d", len(patterns))
	}
}

func TestInduce_NeverEmitsUncompilingRegex(t *testing.T) {
	measurements := []researchctx.Measurement{
		{Raw: "1.0", LeftContext: "x", RightContext: " )))) malformed context (("},
	}
	patterns := Induce(measurements, nil)
	for _, p := range patterns {
		if _, err := regexp.Compile(trimSlashes(p.RegexPattern)); err != nil {
			t.Errorf("emitted uncompilable pattern %q: %v", p.RegexPattern, err)
		}
	}
}

func trimSlashes(pattern string) string {
	if len(pattern) < 2 || pattern[0] != '/' {
		return pattern
	}
	lastSlash := -1
	for i := len(pattern) - 1; i > 0; i-- {
		if pattern[i] == '/' {
			lastSlash = i
			break
		}
	}
	if lastSlash <= 0 {
		return pattern
	}
	return pattern[1:lastSlash]
}

func contains(s, substr string) bool {
	return len(s) >= len(substr) && (func() bool {
		for i := 0; i+len(substr) <= len(s); i++ {
			if s[i:i+len(substr)] == substr {
				return true
			}
		}
		return false
	})()
}
