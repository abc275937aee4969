package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dax8it/deepresearch-core/induction"
	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/researchctx"
	"github.com/dax8it/deepresearch-core/vectorstore"
)

const patternGeneratorName = "PatternGenerator"

const (
	fallbackPatternConfidence = 0.6
	maxPatternLength          = 300
	minUsefulGenericLength    = 4
)

var (
	repeatedGroupRE   = regexp.MustCompile(`(\(.{1,20}?\))\{?\s*([5-9]|[1-9]\d+)\s*,?\s*\}?`)
	excessiveDotStarRE = regexp.MustCompile(`(?:\(•\.\*\?\)|\(\\s\*\)){10,}`)
	singleCharRepeatRE = regexp.MustCompile(`^(.)\1{49,}$`)
	uselessGenericREs  = []*regexp.Regexp{
		regexp.MustCompile(`^pattern\d*$`),
		regexp.MustCompile(`^\w+$`),
		regexp.MustCompile(`^[a-z]{1,3}$`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^\.\*$`),
	}
)

// PatternGenerator synthesizes extraction regexes through three
// strategies tried in order: strategy-driven + RxDB augmentation,
// bottom-up induction (always, in addition), and LLM generation when the
// first two yield nothing (§4.4).
type PatternGenerator struct {
	advisor llmadvisor.Advisor
	store   vectorstore.Adapter
}

func NewPatternGenerator(advisor llmadvisor.Advisor, store vectorstore.Adapter) *PatternGenerator {
	return &PatternGenerator{advisor: advisor, store: store}
}

func (p *PatternGenerator) Name() string        { return patternGeneratorName }
func (p *PatternGenerator) Description() string { return "Derives extraction regex patterns via strategy, induction, and LLM generation." }

func (p *PatternGenerator) Process(ctx context.Context, rc *researchctx.Context) error {
	var patterns []researchctx.Pattern

	strategyPatterns, groundedTerms := p.strategyDriven(ctx, rc)
	patterns = append(patterns, strategyPatterns...)

	induced := induction.Induce(rc.SharedKnowledge.DocumentInsights.Measurements, rc.RAGResults.Chunks)
	patterns = append(patterns, induced...)

	if len(patterns) == 0 {
		llmPatterns, err := p.generateViaLLM(ctx, rc, groundedTerms)
		if err != nil || len(llmPatterns) == 0 {
			llmPatterns = fallbackPatterns(rc.SharedKnowledge.DocumentInsights.DocumentType)
		}
		patterns = append(patterns, llmPatterns...)
	}

	rc.Patterns = append(rc.Patterns, patterns...)
	return nil
}

// strategyDriven implements §4.4 strategy 1: synthesize per-category
// patterns from an existing extractionStrategy, then attempt RxDB
// augmentation against the grounded terms it used.
func (p *PatternGenerator) strategyDriven(ctx context.Context, rc *researchctx.Context) ([]researchctx.Pattern, []string) {
	strategy, ok := rc.SharedKnowledge.ExtractionStrategies[rc.SharedKnowledge.DocumentInsights.DocumentType]
	if !ok {
		return nil, nil
	}

	var patterns []researchctx.Pattern
	var groundedTerms []string

	for _, person := range strategy.PatternCategories.People {
		groundedTerms = append(groundedTerms, person)
		patterns = append(patterns, compiledPattern(
			fmt.Sprintf("Person mention: %s", person),
			regexp.QuoteMeta(person),
			0.7, "strategy",
		))
	}
	for _, method := range strategy.PatternCategories.Methods {
		groundedTerms = append(groundedTerms, method)
		flexible := strings.ReplaceAll(regexp.QuoteMeta(method), `\ `, `[\s_-]+`)
		patterns = append(patterns, compiledPattern(
			fmt.Sprintf("Method mention: %s", method),
			flexible,
			0.7, "strategy",
		))
	}
	for _, concept := range strategy.PatternCategories.Concepts {
		groundedTerms = append(groundedTerms, concept)
		patterns = append(patterns, compiledPattern(
			fmt.Sprintf("Concept mention: %s", concept),
			regexp.QuoteMeta(concept),
			0.65, "strategy",
		))
	}

	patterns = append(patterns,
		compiledPattern("Abstract field", `(?i)abstract\s*:\s*(.+)`, 0.7, "strategy"),
		compiledPattern("Results field", `(?i)results?\s*:\s*(.+)`, 0.7, "strategy"),
		compiledPattern("Accuracy field", `(?i)accuracy\s*:\s*([\d.]+%?)`, 0.7, "strategy"),
	)

	if rc.SharedKnowledge.IntelligentExpectations.ExpectedAnswerType == "performance_ranking" {
		patterns = append(patterns,
			compiledPattern("Record time field", `(?i)record\s*time\s*:\s*([\d.]+)\s*(hours?|minutes?)`, 0.75, "strategy"),
			compiledPattern("Tokens per second field", `(?i)tokens?\s*/\s*second\s*:\s*([\d.]+)`, 0.75, "strategy"),
			compiledPattern("Throughput mention", `(?i)([\d.]+)\s*tokens?\s*/\s*s(?:ec(?:ond)?)?\b`, 0.75, "strategy"),
			compiledPattern("Pipe-delimited row", `^\s*\|.+\|.+\|\s*$`, 0.6, "strategy"),
		)
	}

	patterns = filterCompiled(patterns)

	if p.store != nil && len(groundedTerms) > 0 {
		added, err := vectorstore.Augment(ctx, p.store, groundedTerms, rc.RAGResults.Chunks, rc.SharedKnowledge.QueryConstraints)
		if err == nil && len(added) > 0 {
			rc.RAGResults.Chunks = append(rc.RAGResults.Chunks, added...)
		}
	}

	return patterns, groundedTerms
}

func (p *PatternGenerator) generateViaLLM(ctx context.Context, rc *researchctx.Context, groundedTerms []string) ([]researchctx.Pattern, error) {
	prompt := buildPatternPrompt(rc, groundedTerms)
	response, err := p.advisor.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var patterns []researchctx.Pattern
	for _, raw := range llmadvisor.ExtractRegexPatterns(response) {
		body, ok := normalizePatternBody(raw)
		if !ok || isMalformed(body) {
			continue
		}
		if _, err := regexp.Compile(body); err != nil {
			continue
		}
		patterns = append(patterns, researchctx.Pattern{
			Description:        "LLM-generated pattern",
			RegexPattern:       body,
			Confidence:         0.75,
			ExtractionStrategy: "llm",
		})
	}
	return patterns, nil
}

func buildPatternPrompt(rc *researchctx.Context, groundedTerms []string) string {
	var b strings.Builder
	insights := rc.SharedKnowledge.DocumentInsights
	fmt.Fprintf(&b, "QUERY: %s\nDOCUMENT_TYPE: %s\n", rc.Query, insights.DocumentType)
	if len(groundedTerms) > 0 {
		fmt.Fprintf(&b, "GROUNDED_TERMS: %s\n", strings.Join(groundedTerms, ", "))
	}
	b.WriteString("Propose extraction regexes as /body/flags, one per line, inside a REGEX_PATTERNS: block.\n\nCHUNKS:\n")
	for i, c := range sampleChunks(rc.RAGResults.Chunks, 8) {
		fmt.Fprintf(&b, "[%d] %s\n", i, truncateForPrompt(c.Text, 300))
	}
	return b.String()
}

func sampleChunks(chunks []researchctx.Chunk, n int) []researchctx.Chunk {
	if len(chunks) <= n {
		return chunks
	}
	return chunks[:n]
}

// normalizePatternBody strips a leading/trailing "/flags" wrapper emitted
// by ExtractRegexPatterns, folding recognized flags into an inline group.
func normalizePatternBody(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") {
		return "", false
	}
	rest := raw[1:]
	lastSlash := strings.LastIndex(rest, "/")
	if lastSlash < 0 {
		return "", false
	}
	body := rest[:lastSlash]
	flags := rest[lastSlash+1:]
	if body == "" {
		return "", false
	}
	if strings.Contains(flags, "i") {
		body = "(?i)" + body
	}
	return body, true
}

// isMalformed implements the §4.4 malformed-pattern rejection rules.
func isMalformed(body string) bool {
	if len(body) > maxPatternLength {
		return true
	}
	if singleCharRepeatRE.MatchString(body) {
		return true
	}
	if excessiveDotStarRE.MatchString(body) || repeatedGroupRE.MatchString(body) {
		return true
	}
	stripped := strings.TrimPrefix(body, "(?i)")
	for _, re := range uselessGenericREs {
		if re.MatchString(stripped) {
			return true
		}
	}
	return false
}

func compiledPattern(description, body string, confidence float64, strategy string) researchctx.Pattern {
	return researchctx.Pattern{
		Description:        description,
		RegexPattern:       body,
		Confidence:         confidence,
		ExtractionStrategy: strategy,
	}
}

// filterCompiled drops any pattern whose body fails to compile or is
// malformed, enforcing the "never emit a non-compiling regex" invariant.
func filterCompiled(patterns []researchctx.Pattern) []researchctx.Pattern {
	out := make([]researchctx.Pattern, 0, len(patterns))
	for _, p := range patterns {
		if isMalformed(p.RegexPattern) {
			continue
		}
		if _, err := regexp.Compile(p.RegexPattern); err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// fallbackPatterns are the minimal document-type-specific regexes used
// when LLM generation fails entirely (§4.4 "Fallback patterns").
func fallbackPatterns(documentType string) []researchctx.Pattern {
	var candidates []researchctx.Pattern
	switch documentType {
	case "resume":
		candidates = []researchctx.Pattern{
			compiledPattern("Resume bullet", `(?m)^\s*[-•*]\s*(.+)$`, fallbackPatternConfidence, "fallback"),
		}
	case "blog":
		candidates = []researchctx.Pattern{
			compiledPattern("Blog sentence", `[A-Z][^.!?]{10,200}[.!?]`, fallbackPatternConfidence, "fallback"),
		}
	default:
		candidates = []researchctx.Pattern{
			compiledPattern("Generic capitalized line", `(?m)^[A-Z][^\n]{3,200}$`, fallbackPatternConfidence, "fallback"),
		}
	}
	return filterCompiled(candidates)
}

var _ Agent = (*PatternGenerator)(nil)
