package agent

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dax8it/deepresearch-core/llmadvisor"
	"github.com/dax8it/deepresearch-core/researchctx"
)

const synthesisCoordinatorName = "SynthesisCoordinator"

// SynthesisCoordinator is the single canonical synthesis stage (§9: the
// SynthesisCoordinator/Synthesizer/ResponseFormatter split in the source
// material is collapsed here into one implementation; ResponseFormatter
// survives only as an optional cosmetic alternate, see response_formatter.go).
// It cleans and deduplicates extracted items (§4.7.1), groups them by a
// smart key (§4.7.2), classifies each group as current/historical/other
// via the advisor, and renders the final answer.
type SynthesisCoordinator struct {
	advisor llmadvisor.Advisor
}

func NewSynthesisCoordinator(advisor llmadvisor.Advisor) *SynthesisCoordinator {
	return &SynthesisCoordinator{advisor: advisor}
}

func (s *SynthesisCoordinator) Name() string        { return synthesisCoordinatorName }
func (s *SynthesisCoordinator) Description() string { return "Cleans, groups, and synthesizes the final answer from extracted items." }

func (s *SynthesisCoordinator) Process(ctx context.Context, rc *researchctx.Context) error {
	items := rc.ExtractedData.Raw
	if len(items) == 0 {
		rc.Synthesis = researchctx.Synthesis{
			Answer:     noResultsReport(rc),
			Confidence: 0.2,
			Structure:  researchctx.StructureExplanation,
		}
		return nil
	}

	cleaned := cleanAndDedup(items)
	groups := groupByKey(cleaned)

	s.classifyGroups(ctx, rc.Query, groups)
	groups = reconcileCurrentRecordGroups(groups)

	structure := chooseStructure(rc.Query)
	sortGroupsForQuery(groups, rc.Query)

	answer := renderAnswer(rc, groups, structure)

	rc.Synthesis = researchctx.Synthesis{
		Answer:     answer,
		Reasoning:  fmt.Sprintf("Synthesized from %d cleaned items across %d groups.", len(cleaned), len(groups)),
		Confidence: confidenceFor(cleaned),
		Structure:  structure,
	}
	rc.AnalyzedData = &researchctx.AnalyzedData{Cleaned: cleaned}
	return nil
}

func noResultsReport(rc *researchctx.Context) string {
	return fmt.Sprintf(
		"No extractable results were found for %q. Scanned %d chunks across the retrieved documents. "+
			"Consider rephrasing the query, supplying additional documents, or enabling web search.",
		rc.Query, len(rc.RAGResults.Chunks),
	)
}

var (
	boldMarkerRE   = regexp.MustCompile(`\*\*`)
	leadingBulletRE = regexp.MustCompile(`^\s*[-•*]\s*`)
	trailingColonRE = regexp.MustCompile(`:\s*$`)
	whitespaceRunRE = regexp.MustCompile(`\s+`)
)

// cleanAndDedup implements §4.7.1.
func cleanAndDedup(items []researchctx.Item) []researchctx.Item {
	cleaned := make([]researchctx.Item, 0, len(items))
	for _, it := range items {
		content := boldMarkerRE.ReplaceAllString(it.Content, "")
		content = leadingBulletRE.ReplaceAllString(content, "")
		content = trailingColonRE.ReplaceAllString(content, "")
		content = whitespaceRunRE.ReplaceAllString(content, " ")
		content = strings.TrimSpace(content)
		if len(content) < 4 {
			continue
		}
		it.Content = content
		cleaned = append(cleaned, it)
	}

	var out []researchctx.Item
	for _, it := range cleaned {
		if idx := findDuplicate(out, it); idx >= 0 {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return contentQualityScore(out[i]) > contentQualityScore(out[j])
	})
	return out
}

func findDuplicate(existing []researchctx.Item, candidate researchctx.Item) int {
	normCandidate := normalizeForDedup(candidate.Content)
	for i, e := range existing {
		if normalizeForDedup(e.Content) == normCandidate {
			return i
		}
		if sameValueUnit(e, candidate) && tokenOverlap(e.Content, candidate.Content) >= 0.95 {
			return i
		}
	}
	return -1
}

func sameValueUnit(a, b researchctx.Item) bool {
	if (a.Value == nil) != (b.Value == nil) {
		return false
	}
	if a.Value != nil && *a.Value != *b.Value {
		return false
	}
	return a.Unit == b.Unit
}

func normalizeForDedup(s string) string {
	return strings.ToLower(whitespaceRunRE.ReplaceAllString(strings.TrimSpace(s), " "))
}

func tokenOverlap(a, b string) float64 {
	ta := strings.Fields(strings.ToLower(a))
	tb := strings.Fields(strings.ToLower(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	common := 0
	for _, t := range tb {
		if set[t] {
			common++
		}
	}
	denom := len(ta)
	if len(tb) > denom {
		denom = len(tb)
	}
	return float64(common) / float64(denom)
}

var qualityKeywordRE = regexp.MustCompile(`(?i)run\s*\d+|optimization|speed|batch|training|completed in`)

func contentQualityScore(it researchctx.Item) float64 {
	score := float64(len(strings.Fields(it.Content)))
	if qualityKeywordRE.MatchString(it.Content) {
		score += 10
	}
	if len(strings.Fields(it.Content)) <= 1 {
		score -= 5
	}
	return score
}

// groupByKey implements §4.7.2.
func groupByKey(items []researchctx.Item) []researchctx.Group {
	order := []string{}
	byKey := map[string][]researchctx.Item{}
	for _, it := range items {
		key := groupKeyFor(it)
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], it)
	}
	groups := make([]researchctx.Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, researchctx.Group{Key: key, Items: byKey[key]})
	}
	return groups
}

func groupKeyFor(it researchctx.Item) string {
	valueStr := ""
	if it.Value != nil {
		valueStr = strconv.FormatFloat(*it.Value, 'f', -1, 64)
	}

	itemType, _ := it.Metadata["type"].(string)
	switch itemType {
	case "table_row":
		row, _ := it.Metadata["row"].(string)
		if row == "" {
			row = "0"
		}
		return fmt.Sprintf("table_row_%s_%s", row, truncateForPrompt(normalizeForDedup(it.Content), 30))
	case "numbered_row":
		return fmt.Sprintf("list_%s_%s", firstLeadingNumber(it.Content), valueStr)
	case "current_record":
		return fmt.Sprintf("current_record_%s_%s", valueStr, it.SourceChunkID)
	default:
		unit := it.Unit
		if len(unit) > 3 {
			unit = unit[:3]
		}
		return fmt.Sprintf("%s_%s_%s", truncateForPrompt(normalizeForDedup(it.Content), 30), valueStr, unit)
	}
}

// classifyGroups asks the advisor to classify each group as
// current/historical/other via a dedicated prompt seeded with the user
// query and a sample of the group's items (§4.7). Classification failures
// default to "other" rather than blocking synthesis.
func (s *SynthesisCoordinator) classifyGroups(ctx context.Context, query string, groups []researchctx.Group) {
	if s.advisor == nil {
		return
	}
	for i := range groups {
		g := &groups[i]
		response, err := s.advisor.Complete(ctx, buildClassificationPrompt(query, *g))
		if err != nil {
			g.Classification = string(llmadvisor.ClassificationOther)
			continue
		}
		g.Classification = string(llmadvisor.ParseGroupClassification(response))
	}
}

const classificationSampleSize = 5

func buildClassificationPrompt(query string, g researchctx.Group) string {
	var b strings.Builder
	b.WriteString("You are classifying a group of related findings extracted for a research query.\n")
	b.WriteString("QUERY: " + query + "\n")
	fmt.Fprintf(&b, "GROUP KEY: %s\n", g.Key)
	b.WriteString("SAMPLE ITEMS:\n")
	for i, it := range g.Items {
		if i >= classificationSampleSize {
			break
		}
		fmt.Fprintf(&b, "- %s\n", truncateForPrompt(it.Content, 200))
	}
	b.WriteString("\nIs this group's data the CURRENT state of the subject, a HISTORICAL/prior state, or OTHER (neither)?\n")
	b.WriteString("Respond with: CLASSIFICATION: <current|historical|other>\n")
	return b.String()
}

// reconcileCurrentRecordGroups folds current_record groups the advisor
// classified as historical back into the ordinary value+unit grouping
// (§4.7.2): the source-chunk suffix that kept current_record groups from
// merging only matters while the record is actually current. Because that
// suffix is the chunk ID, current_record items with the same value from
// the same chunk already share one group.
func reconcileCurrentRecordGroups(groups []researchctx.Group) []researchctx.Group {
	out := make([]researchctx.Group, 0, len(groups))
	mergedAt := map[string]int{}

	for _, g := range groups {
		if strings.HasPrefix(g.Key, "current_record_") && g.Classification == string(llmadvisor.ClassificationHistorical) {
			mergeKey := historicalMergeKey(g)
			if idx, ok := mergedAt[mergeKey]; ok {
				out[idx].Items = append(out[idx].Items, g.Items...)
				continue
			}
			g.Key = mergeKey
			mergedAt[mergeKey] = len(out)
		}
		out = append(out, g)
	}
	return out
}

func historicalMergeKey(g researchctx.Group) string {
	valueStr, unit := "", ""
	if len(g.Items) > 0 {
		if g.Items[0].Value != nil {
			valueStr = strconv.FormatFloat(*g.Items[0].Value, 'f', -1, 64)
		}
		unit = g.Items[0].Unit
		if len(unit) > 3 {
			unit = unit[:3]
		}
	}
	return fmt.Sprintf("historical_%s_%s", valueStr, unit)
}

var leadingNumberRE = regexp.MustCompile(`^\s*(\d+)`)

func firstLeadingNumber(s string) string {
	if m := leadingNumberRE.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return "0"
}

var rankingQueryRE = regexp.MustCompile(`(?i)top\s*\d+|rank|best|fastest|slowest`)
var tableQueryRE = regexp.MustCompile(`(?i)compare|versus|vs\.?|table`)
var explanationQueryRE = regexp.MustCompile(`(?i)^\s*(how|why)\b`)

func chooseStructure(query string) researchctx.SynthesisStructure {
	switch {
	case rankingQueryRE.MatchString(query):
		return researchctx.StructureList
	case tableQueryRE.MatchString(query):
		return researchctx.StructureTable
	case explanationQueryRE.MatchString(query):
		return researchctx.StructureExplanation
	default:
		return researchctx.StructureParagraph
	}
}

var minWantedRE = regexp.MustCompile(`(?i)lowest|slowest|minimum|least`)

func sortGroupsForQuery(groups []researchctx.Group, query string) {
	ascending := minWantedRE.MatchString(query)
	sort.SliceStable(groups, func(i, j int) bool {
		ri, rj := classificationRank(groups[i].Classification), classificationRank(groups[j].Classification)
		if ri != rj {
			return ri < rj
		}
		vi, vj := groupValue(groups[i]), groupValue(groups[j])
		if ascending {
			return vi < vj
		}
		return vi > vj
	})
}

// classificationRank orders current findings ahead of historical ones,
// with unclassified groups (advisor disabled, or "other") sorted last.
func classificationRank(c string) int {
	switch c {
	case string(llmadvisor.ClassificationCurrent):
		return 0
	case string(llmadvisor.ClassificationHistorical):
		return 1
	default:
		return 2
	}
}

func groupValue(g researchctx.Group) float64 {
	for _, it := range g.Items {
		if it.Value != nil {
			return *it.Value
		}
	}
	return 0
}

func confidenceFor(items []researchctx.Item) float64 {
	if len(items) == 0 {
		return 0.3
	}
	var sum float64
	for _, it := range items {
		sum += it.Confidence
	}
	avg := sum / float64(len(items))
	if avg == 0 {
		avg = 0.5
	}
	return avg
}

func renderAnswer(rc *researchctx.Context, groups []researchctx.Group, structure researchctx.SynthesisStructure) string {
	var b strings.Builder
	b.WriteString("## Critical Information\n")
	fmt.Fprintf(&b, "%d findings across %d groups for: %s\n\n", countItems(groups), len(groups), rc.Query)

	b.WriteString("## Detailed Analysis\n")
	switch structure {
	case researchctx.StructureList:
		renderList(&b, groups)
	case researchctx.StructureTable:
		renderTable(&b, groups)
	default:
		renderNarrative(&b, groups)
	}

	b.WriteString("\n## Full Results Table\n")
	renderTable(&b, groups)

	b.WriteString("\n## Sources & References\n")
	renderSources(&b, groups)

	b.WriteString("\n## Confidence & Methodology\n")
	fmt.Fprintf(&b, "Confidence %.2f derived from %d cleaned items; methodology: regex/induction/LLM extraction, grouped and ranked.\n", confidenceFor(flatten(groups)), countItems(groups))
	return b.String()
}

func countItems(groups []researchctx.Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}
	return n
}

func flatten(groups []researchctx.Group) []researchctx.Item {
	var out []researchctx.Item
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}

func renderList(b *strings.Builder, groups []researchctx.Group) {
	for i, g := range groups {
		if len(g.Items) == 0 {
			continue
		}
		fmt.Fprintf(b, "%d. %s [%s]\n", i+1, g.Items[0].Content, citationLabel(g.Items[0]))
	}
}

func renderTable(b *strings.Builder, groups []researchctx.Group) {
	b.WriteString("| Finding | Value | Unit | Status | Source |\n|---|---|---|---|---|\n")
	for _, g := range groups {
		for _, it := range g.Items {
			value := ""
			if it.Value != nil {
				value = strconv.FormatFloat(*it.Value, 'f', -1, 64)
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", it.Content, value, it.Unit, statusLabel(g.Classification), citationLabel(it))
		}
	}
}

func renderNarrative(b *strings.Builder, groups []researchctx.Group) {
	for _, g := range groups {
		for _, it := range g.Items {
			fmt.Fprintf(b, "%s (%s)\n", it.Content, citationLabel(it))
		}
	}
}

func statusLabel(classification string) string {
	if classification == "" {
		return "-"
	}
	return classification
}

func renderSources(b *strings.Builder, groups []researchctx.Group) {
	seen := map[string]bool{}
	for _, g := range groups {
		for _, it := range g.Items {
			label := citationLabel(it)
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			fmt.Fprintf(b, "- %s\n", label)
		}
	}
}

func citationLabel(it researchctx.Item) string {
	if it.SourceChunkID != "" {
		return it.SourceChunkID
	}
	return "unknown"
}

var _ Agent = (*SynthesisCoordinator)(nil)
