package llmadvisor

import "testing"

func TestExtractRegexPatterns_StructuredBlock(t *testing.T) {
	resp := "Some reasoning.\n\nREGEX_PATTERNS:\n- /\\d+\\.\\d+\\s*hours/i\n- /\\d+\\s*tokens\\/s/i\n\nTrailing text."
	got := ExtractRegexPatterns(resp)
	if len(got) != 2 {
		t.Fatalf("expected 2 patterns, got %d: %v", len(got), got)
	}
}

func TestExtractRegexPatterns_ThinkBodyFallback(t *testing.T) {
	resp := "<think>maybe /\\d+\\s*ms/gi would work</think>\nFinal answer with no marker."
	got := ExtractRegexPatterns(resp)
	if len(got) != 1 {
		t.Fatalf("expected 1 pattern, got %d: %v", len(got), got)
	}
}

func TestExtractRegexPatterns_FreeformFallback(t *testing.T) {
	resp := "Try this one: /\\d+\\.\\d+\\s*hours/gi for record times."
	got := ExtractRegexPatterns(resp)
	if len(got) != 1 || got[0] != `/\d+\.\d+\s*hours/gi` {
		t.Fatalf("unexpected result: %v", got)
	}
}

func TestExtractRegexPatterns_NoneFound(t *testing.T) {
	resp := "No patterns here at all."
	got := ExtractRegexPatterns(resp)
	if len(got) != 0 {
		t.Fatalf("expected no patterns, got %v", got)
	}
}
