package normalize

import "testing"

var testAgents = []string{
	DataInspector, PlanningAgent, PatternGenerator, Extractor,
	SynthesisCoordinator, Synthesizer, WebSearchAgent, ResponseFormatter,
}

func TestNormalize_ExactMatch(t *testing.T) {
	n := New(testAgents, nil)
	got, ok := n.Normalize("Extractor")
	if !ok || got != Extractor {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalize_DictionaryAlias(t *testing.T) {
	n := New(testAgents, nil)
	cases := map[string]string{
		"DATA_INSPIRATER":  DataInspector,
		"synesthesizer":    Synthesizer,
		"CALL_EXTRACTOR":   Extractor,
		"regex_extractor":  Extractor,
		"planning agent":   PlanningAgent,
	}
	for raw, want := range cases {
		got, ok := n.Normalize(raw)
		if !ok || got != want {
			t.Errorf("Normalize(%q) = %q, %v; want %q", raw, got, ok, want)
		}
	}
}

func TestNormalize_PatternFallback(t *testing.T) {
	n := New(testAgents, nil)
	got, ok := n.Normalize("SomeRandomExtractorThing")
	if !ok || got != Extractor {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalize_TrailingAgentStripped(t *testing.T) {
	// "ResponseFormatterAgent" matches no alias and no substring rule, so
	// only the strip-"agent" step can resolve it.
	n := New([]string{"ResponseFormatter"}, nil)
	got, ok := n.Normalize("ResponseFormatterAgent")
	if !ok || got != "ResponseFormatter" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalize_SemanticEquivalence(t *testing.T) {
	// "WebSearchTool" matches no alias or substring rule; it resolves only
	// by stripping the "web" prefix and the "tool"/"agent" suffixes.
	n := New([]string{"WebSearchAgent"}, nil)
	got, ok := n.Normalize("WebSearchTool")
	if !ok || got != "WebSearchAgent" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestNormalize_FallthroughReturnsRawWithFalse(t *testing.T) {
	n := New(testAgents, nil)
	got, ok := n.Normalize("CompletelyUnknownThing123")
	if ok {
		t.Fatalf("expected fallthrough, got ok=true name=%q", got)
	}
	if got != "CompletelyUnknownThing123" {
		t.Fatalf("expected raw passthrough, got %q", got)
	}
}

// Idempotence property P4: normalize(normalize(x)) == normalize(x).
func TestNormalize_Idempotent(t *testing.T) {
	n := New(testAgents, nil)
	inputs := []string{
		"Extractor", "DATA_INSPIRATER", "synesthesizer", "CALL_EXTRACTOR",
		"PlanningAgent", "ResponseFormatter", "websearch",
	}
	for _, raw := range inputs {
		once, _ := n.Normalize(raw)
		twice, _ := n.Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: once=%q twice=%q", raw, once, twice)
		}
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	n := New(testAgents, nil)
	got, ok := n.Normalize("")
	if ok || got != "" {
		t.Fatalf("expected (\"\", false), got (%q, %v)", got, ok)
	}
}
