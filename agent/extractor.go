package agent

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/researchctx"
)

const extractorName = "Extractor"

var extractorNumericRE = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Extractor runs every pattern against every chunk, appending one Item
// per match with detected type/method metadata (§4.6).
type Extractor struct {
	advisor llmadvisor.Advisor
}

func NewExtractor(advisor llmadvisor.Advisor) *Extractor {
	return &Extractor{advisor: advisor}
}

func (e *Extractor) Name() string        { return extractorName }
func (e *Extractor) Description() string { return "Applies extraction patterns against chunks to produce items." }

func (e *Extractor) Process(ctx context.Context, rc *researchctx.Context) error {
	var items []researchctx.Item

	for _, pattern := range rc.Patterns {
		if pattern.RegexPattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern.RegexPattern)
		if err != nil {
			continue
		}
		for _, chunk := range rc.RAGResults.Chunks {
			items = append(items, extractFromChunk(re, pattern, chunk)...)
		}
	}

	if len(items) == 0 && e.advisor != nil {
		llmItems, err := e.extractViaLLM(ctx, rc)
		if err != nil {
			return newError(extractorName, "Process", "LLM extraction failed", err)
		}
		items = append(items, llmItems...)
	}

	rc.ExtractedData.Raw = append(rc.ExtractedData.Raw, items...)
	return nil
}

func extractFromChunk(re *regexp.Regexp, pattern researchctx.Pattern, chunk researchctx.Chunk) []researchctx.Item {
	var items []researchctx.Item
	for _, loc := range re.FindAllStringSubmatchIndex(chunk.Text, -1) {
		start, end := loc[0], loc[1]
		content := chunk.Text[start:end]
		item := researchctx.Item{
			Content:       strings.TrimSpace(content),
			Confidence:    pattern.Confidence,
			SourceChunkID: chunk.ID,
			Context:       surroundingContext(chunk.Text, start, end),
			Metadata: map[string]any{
				"type":   detectItemType(chunk, content),
				"method": "regex",
			},
		}
		if v, unit, ok := parseValueUnit(content); ok {
			item.Value = &v
			item.Unit = unit
		}
		items = append(items, item)
	}
	return items
}

func surroundingContext(text string, start, end int) string {
	const window = 40
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

func detectItemType(chunk researchctx.Chunk, content string) string {
	switch {
	case strings.Contains(content, "|"):
		return "table_row"
	case regexp.MustCompile(`^\s*\d+[.)]`).MatchString(content):
		return "numbered_row"
	case strings.Contains(strings.ToLower(content), "current"):
		return "current_record"
	default:
		return "match"
	}
}

func parseValueUnit(content string) (float64, string, bool) {
	loc := extractorNumericRE.FindStringIndex(content)
	if loc == nil {
		return 0, "", false
	}
	numStr := content[loc[0]:loc[1]]
	v, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, "", false
	}
	unit := strings.TrimSpace(content[loc[1]:])
	return v, unit, true
}

func (e *Extractor) extractViaLLM(ctx context.Context, rc *researchctx.Context) ([]researchctx.Item, error) {
	prompt := buildExtractionPrompt(rc)
	response, err := e.advisor.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseLLMExtraction(response), nil
}

func buildExtractionPrompt(rc *researchctx.Context) string {
	var b strings.Builder
	b.WriteString("Extract relevant facts from these chunks for the query, one FINDING line per fact:\n")
	b.WriteString("QUERY: " + rc.Query + "\nFINDING: <fact text>\n\nCHUNKS:\n")
	for i, c := range sampleChunks(rc.RAGResults.Chunks, 10) {
		b.WriteString(strconv.Itoa(i) + ": " + truncateForPrompt(c.Text, 300) + "\n")
	}
	return b.String()
}

var findingLineRE = regexp.MustCompile(`(?im)^\s*FINDING\s*:\s*(.+)$`)

func parseLLMExtraction(response string) []researchctx.Item {
	var items []researchctx.Item
	for _, m := range findingLineRE.FindAllStringSubmatch(response, -1) {
		content := strings.TrimSpace(m[1])
		if len(content) < 4 {
			continue
		}
		item := researchctx.Item{
			Content:    content,
			Confidence: 0.55,
			Metadata: map[string]any{
				"type":   "match",
				"method": "llm",
			},
		}
		if v, unit, ok := parseValueUnit(content); ok {
			item.Value = &v
			item.Unit = unit
		}
		items = append(items, item)
	}
	return items
}

var _ Agent = (*Extractor)(nil)
