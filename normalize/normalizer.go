// Package normalize maps arbitrary advisor-emitted tool names (case,
// typos, snake_case, "CALL_" prefixes, semantic variants) to the
// canonical agent names registered with the pipeline (§4.1.3).
package normalize

import (
	"log/slog"
	"strings"
)

// Canonical agent names.
const (
	DataInspector        = "DataInspector"
	PlanningAgent        = "PlanningAgent"
	PatternGenerator     = "PatternGenerator"
	Extractor            = "Extractor"
	SynthesisCoordinator = "SynthesisCoordinator"
	Synthesizer          = "Synthesizer"
	WebSearchAgent       = "WebSearchAgent"
	ResponseFormatter    = "ResponseFormatter"
)

// aliases is the exhaustive (and ever-growing) alias table: every
// hallucinated spelling the advisor has been observed to emit, mapped
// to its canonical agent name. Keys are pre-normalized by normalizeKey.
var aliases = map[string]string{
	// DataInspector
	"datainspector":     DataInspector,
	"data_inspector":    DataInspector,
	"dataanalyzer":      DataInspector,
	"data_analyzer":     DataInspector,
	"datainspirater":    DataInspector,
	"inspector":         DataInspector,
	"documentinspector": DataInspector,

	// PlanningAgent
	"planningagent":  PlanningAgent,
	"planning_agent": PlanningAgent,
	"planner":        PlanningAgent,
	"planagent":      PlanningAgent,

	// PatternGenerator
	"patterngenerator":  PatternGenerator,
	"pattern_generator": PatternGenerator,
	"patterncreator":    PatternGenerator,
	"regexgenerator":    PatternGenerator,

	// Extractor
	"extractor":        Extractor,
	"dataextractor":    Extractor,
	"data_extractor":   Extractor,
	"regexextractor":   Extractor,
	"patternextractor": Extractor,

	// SynthesisCoordinator
	"synthesiscoordinator":  SynthesisCoordinator,
	"synthesis_coordinator": SynthesisCoordinator,

	// Synthesizer
	"synthesizer":    Synthesizer,
	"synesthesizer":  Synthesizer,
	"synthesiser":    Synthesizer,
	"synthesisagent": Synthesizer,

	// WebSearchAgent
	"websearchagent":    WebSearchAgent,
	"web_search_agent":  WebSearchAgent,
	"websearch":         WebSearchAgent,
	"webagent":          WebSearchAgent,

	// ResponseFormatter
	"responseformatter":  ResponseFormatter,
	"response_formatter": ResponseFormatter,
	"formatter":          ResponseFormatter,
}

// Normalizer resolves advisor-emitted names against a set of agent names
// actually registered with the pipeline, so normalization never points
// to an agent that doesn't exist in this run.
type Normalizer struct {
	registered map[string]string // normalizeKey(name) -> canonical registered name
	logger     *slog.Logger
}

// New builds a Normalizer over the given registered canonical agent
// names (as returned by the agent registry's Names()).
func New(registeredNames []string, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	reg := make(map[string]string, len(registeredNames))
	for _, n := range registeredNames {
		reg[normalizeKey(n)] = n
	}
	return &Normalizer{registered: reg, logger: logger}
}

// Normalize maps raw to a canonical registered agent name. On failure it
// returns raw unchanged together with ok=false, and emits a diagnostic
// log line (§4.1.3 step 5).
func (n *Normalizer) Normalize(raw string) (string, bool) {
	if raw == "" {
		return raw, false
	}

	key := normalizeKey(raw)

	// 1. Direct registered-name match (already canonical).
	if name, ok := n.registered[key]; ok {
		return name, true
	}

	// 2. Dictionary lookup across known aliases.
	if canonical, ok := aliases[key]; ok {
		if name, ok := n.registered[normalizeKey(canonical)]; ok {
			return name, true
		}
		return canonical, true
	}

	// 3. Pattern fallback: substring tests.
	if canonical, ok := patternFallback(key); ok {
		if name, ok := n.registered[normalizeKey(canonical)]; ok {
			return name, true
		}
		return canonical, true
	}

	// 4. Strip trailing "agent" and retry fuzzy match.
	if stripped, changed := strings.CutSuffix(key, "agent"); changed && stripped != "" {
		if name, ok := n.registered[stripped]; ok {
			return name, true
		}
		if canonical, ok := aliases[stripped]; ok {
			return canonical, true
		}
	}

	// 5. Semantic equivalence against every registered name.
	for regKey, regName := range n.registered {
		if semanticallyEquivalent(key, regKey) {
			return regName, true
		}
	}

	n.logger.Warn("name normalization fell through to raw name",
		slog.String("raw", raw), slog.String("key", key))
	return raw, false
}

// normalizeKey lower-cases and strips punctuation/whitespace and a
// leading "call"/"call_" prefix, so "CALL_ Extractor", "call-extractor",
// and "extractor" all collapse to the same key.
func normalizeKey(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			// drop punctuation, underscores, spaces
		}
	}
	key := b.String()
	key = strings.TrimPrefix(key, "call")
	return key
}

// patternFallback applies the substring rules from §4.1.3 step 2.
func patternFallback(key string) (string, bool) {
	switch {
	case strings.Contains(key, "extractor"):
		return Extractor, true
	case strings.Contains(key, "pattern") && strings.Contains(key, "generator"):
		return PatternGenerator, true
	case strings.Contains(key, "generator"):
		return PatternGenerator, true
	case strings.Contains(key, "inspector"), strings.Contains(key, "analyzer"):
		return DataInspector, true
	case strings.Contains(key, "synthesis"), strings.Contains(key, "coordinator"):
		return SynthesisCoordinator, true
	case strings.Contains(key, "planner"), strings.Contains(key, "planning"):
		return PlanningAgent, true
	default:
		return "", false
	}
}

var semanticPrefixes = []string{"data", "pattern", "synthesis", "web"}
var semanticSuffixes = []string{"agent", "tool", "coordinator"}

// semanticallyEquivalent strips common prefixes/suffixes from both sides
// and declares equivalence when the stripped forms are equal or differ
// by at most 2 characters with one containing the other (§4.1.3 step 4).
func semanticallyEquivalent(a, b string) bool {
	sa := stripSemanticAffixes(a)
	sb := stripSemanticAffixes(b)
	if sa == "" || sb == "" {
		return false
	}
	if sa == sb {
		return true
	}
	shorter, longer := sa, sb
	if len(sa) > len(sb) {
		shorter, longer = sb, sa
	}
	if strings.Contains(longer, shorter) && len(longer)-len(shorter) <= 2 {
		return true
	}
	return false
}

func stripSemanticAffixes(s string) string {
	for _, p := range semanticPrefixes {
		s = strings.TrimPrefix(s, p)
	}
	for _, suf := range semanticSuffixes {
		s = strings.TrimSuffix(s, suf)
	}
	return s
}
