package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/researchctx"
)

const (
	dataInspectorName    = "DataInspector"
	measurementContext   = 32
	inspectorSampleLimit = 8
)

var dataInspectorNumericRE = regexp.MustCompile(`\d+[\s.:]\d{1,2}|\d+(?:\.\d+)?`)

// DataInspector categorizes retrieved chunks, decides which documents are
// relevant to the query, and harvests numeric measurements with their
// surrounding context for later pattern induction (§4.2).
type DataInspector struct {
	advisor llmadvisor.Advisor
}

// NewDataInspector builds a DataInspector driven by advisor.
func NewDataInspector(advisor llmadvisor.Advisor) *DataInspector {
	return &DataInspector{advisor: advisor}
}

func (d *DataInspector) Name() string        { return dataInspectorName }
func (d *DataInspector) Description() string { return "Categorizes documents and harvests numeric measurements relevant to the query." }

func (d *DataInspector) Process(ctx context.Context, rc *researchctx.Context) error {
	chunks := rc.RAGResults.Chunks
	if len(chunks) == 0 {
		rc.SharedKnowledge.DocumentInsights = researchctx.DocumentInsights{
			DocumentType: "none",
			QueryIntent:  rc.Query,
			KeyFindings:  []string{"no content available"},
		}
		rc.DocumentAnalysis = &researchctx.DocumentAnalysis{}
		return nil
	}

	sample := chunks
	if len(sample) > inspectorSampleLimit {
		sample = sample[:inspectorSampleLimit]
	}

	measurements := harvestMeasurements(sample)

	prompt := buildInspectionPrompt(rc.Query, sample)
	response, err := d.advisor.Complete(ctx, prompt)
	if err != nil {
		return newError(dataInspectorName, "Process", "advisor call failed", err)
	}

	insights := parseInspectionResponse(response)
	insights.Measurements = measurements
	rc.SharedKnowledge.DocumentInsights = insights

	rc.DocumentAnalysis = &researchctx.DocumentAnalysis{
		Documents: approvedDocuments(sample),
	}
	return nil
}

// harvestMeasurements applies the numeric-hit regex to chunk text and
// records ±32-char context windows for PatternInducer (§4.2).
func harvestMeasurements(chunks []researchctx.Chunk) []researchctx.Measurement {
	var out []researchctx.Measurement
	for _, c := range chunks {
		for _, loc := range dataInspectorNumericRE.FindAllStringIndex(c.Text, -1) {
			start, end := loc[0], loc[1]
			left := c.Text[max(0, start-measurementContext):start]
			right := c.Text[end:min(len(c.Text), end+measurementContext)]
			out = append(out, researchctx.Measurement{
				Raw:          c.Text[start:end],
				LeftContext:  left,
				RightContext: right,
			})
		}
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func approvedDocuments(chunks []researchctx.Chunk) []researchctx.DocumentInfo {
	seen := make(map[string]bool)
	var docs []researchctx.DocumentInfo
	for _, c := range chunks {
		id := c.SourceDocument
		if id == "" {
			id = c.Source
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		docs = append(docs, researchctx.DocumentInfo{
			DocumentID: id,
			Title:      id,
			Approved:   true,
		})
	}
	return docs
}

func buildInspectionPrompt(query string, chunks []researchctx.Chunk) string {
	var b strings.Builder
	b.WriteString("You are analyzing retrieved document chunks for a research query.\n")
	b.WriteString("QUERY: " + query + "\n\n")
	b.WriteString("Respond with these fields, one per line:\n")
	b.WriteString("DOCUMENT_TYPE: <type>\nCONTENT_AREAS: <comma-separated>\nQUERY_INTENT: <short phrase>\n")
	b.WriteString("SPECIFIC_INSIGHTS: <comma-separated>\nKEY_FINDINGS: <comma-separated>\n\n")
	b.WriteString("CHUNKS:\n")
	for i, c := range chunks {
		fmt.Fprintf(&b, "[%d] %s\n", i, truncateForPrompt(c.Text, 400))
	}
	return b.String()
}

func truncateForPrompt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var inspectionFieldRE = regexp.MustCompile(`(?im)^\s*([A-Z_]+)\s*:\s*(.+)$`)

func parseInspectionResponse(response string) researchctx.DocumentInsights {
	insights := researchctx.DocumentInsights{DocumentType: "unknown"}
	for _, m := range inspectionFieldRE.FindAllStringSubmatch(response, -1) {
		key, value := m[1], strings.TrimSpace(m[2])
		switch key {
		case "DOCUMENT_TYPE":
			insights.DocumentType = value
		case "CONTENT_AREAS":
			insights.ContentAreas = splitCSV(value)
		case "QUERY_INTENT":
			insights.QueryIntent = value
		case "SPECIFIC_INSIGHTS":
			insights.SpecificInsights = splitCSV(value)
		case "KEY_FINDINGS":
			insights.KeyFindings = splitCSV(value)
		}
	}
	return insights
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ Agent = (*DataInspector)(nil)
