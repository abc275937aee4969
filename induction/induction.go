// Package induction implements bottom-up learning of measurement regexes
// from document text (§4.5): it harvests numeric hits, learns the
// document's own decimal style and unit/joiner conventions, and synthesizes
// ranked regex patterns from what it observed — without any hardcoded
// units, so it never mismatches a document's own locale or formatting.
package induction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dax8it/deepresearch-core/researchctx"
)

const (
	contextWindow  = 32
	topN           = 12
	inducedConfidence = 0.92
)

var numericHitRE = regexp.MustCompile(`\d+[\s.:]\d{1,2}|\d+(?:\.\d+)?`)

// decimal styles learned from the hit population.
const (
	styleDot   = "dot"
	styleSpace = "space"
	styleMixed = "mixed"
)

var (
	dotDecimalRE   = regexp.MustCompile(`^\d+\.\d+$`)
	spaceDecimalRE = regexp.MustCompile(`^\d+ \d{1,2}$`)
)

var (
	slashFormRE = regexp.MustCompile(`^([a-z]+)\s*/\s*([a-z]+)`)
	perFormRE   = regexp.MustCompile(`^([a-z]+)\s+per\s+([a-z]+)`)
	alphaTokenRE = regexp.MustCompile(`^[a-z]+`)
	nonAlnumSlashRE = regexp.MustCompile(`[^a-z0-9/]+`)
)

// hit is one harvested numeric occurrence with its surrounding context.
type hit struct {
	num   string
	left  string
	right string
}

// family groups hits that share a joiner/unit key, e.g. "tokens/second".
type family struct {
	key     string
	count   int
	samples []hit
}

// Induce runs the full §4.5 algorithm against measurements if present,
// falling back to raw chunk text (first 8 chunks) otherwise. It always
// returns compiling patterns (P5) and returns no patterns when no numeric
// hits are found (B3).
func Induce(measurements []researchctx.Measurement, chunks []researchctx.Chunk) []researchctx.Pattern {
	hits := harvestFromMeasurements(measurements)
	if len(hits) == 0 {
		hits = harvestFromChunks(chunks)
	}
	if len(hits) == 0 {
		return nil
	}

	style := learnDecimalStyle(hits)
	families := learnFamilies(hits)

	patterns := synthesize(style, families)
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].support > patterns[j].support
	})
	if len(patterns) > topN {
		patterns = patterns[:topN]
	}

	out := make([]researchctx.Pattern, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, p.pattern)
	}
	return out
}

func harvestFromMeasurements(measurements []researchctx.Measurement) []hit {
	var hits []hit
	for _, m := range measurements {
		hits = append(hits, hit{num: m.Raw, left: truncate(m.LeftContext, contextWindow), right: truncate(m.RightContext, contextWindow)})
	}
	return hits
}

func harvestFromChunks(chunks []researchctx.Chunk) []hit {
	sample := chunks
	if len(sample) > 8 {
		sample = sample[:8]
	}
	var hits []hit
	for _, c := range sample {
		for _, loc := range numericHitRE.FindAllStringIndex(c.Text, -1) {
			start, end := loc[0], loc[1]
			left := c.Text[max(0, start-contextWindow):start]
			right := c.Text[end:min(len(c.Text), end+contextWindow)]
			hits = append(hits, hit{num: c.Text[start:end], left: left, right: right})
		}
	}
	return hits
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
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

// learnDecimalStyle picks the majority decimal rendering among the hits.
// A tie yields mixed; hits with no decimal part at all yield dot.
func learnDecimalStyle(hits []hit) string {
	dots, spaces := 0, 0
	for _, h := range hits {
		switch {
		case dotDecimalRE.MatchString(h.num):
			dots++
		case spaceDecimalRE.MatchString(h.num):
			spaces++
		}
	}
	switch {
	case dots > spaces:
		return styleDot
	case spaces > dots:
		return styleSpace
	case dots > 0:
		return styleMixed
	default:
		return styleDot
	}
}

// learnFamilies groups hits by the joiner/unit key found in their right
// context, per §4.5 step 3.
func learnFamilies(hits []hit) []*family {
	index := make(map[string]*family)
	var order []string
	for _, h := range hits {
		key, ok := rightContextKey(h.right)
		if !ok {
			continue
		}
		f, exists := index[key]
		if !exists {
			f = &family{key: key}
			index[key] = f
			order = append(order, key)
		}
		f.count++
		f.samples = append(f.samples, h)
	}
	out := make([]*family, 0, len(order))
	for _, k := range order {
		out = append(out, index[k])
	}
	return out
}

func rightContextKey(right string) (string, bool) {
	norm := strings.ToLower(right)
	if len(norm) > 20 {
		norm = norm[:20]
	}
	norm = nonAlnumSlashRE.ReplaceAllString(norm, " ")
	norm = strings.TrimSpace(norm)
	norm = strings.Join(strings.Fields(norm), " ")

	if m := slashFormRE.FindStringSubmatch(strings.ReplaceAll(norm, " ", "")); m != nil {
		return m[1] + "/" + m[2], true
	}
	if m := perFormRE.FindStringSubmatch(norm); m != nil {
		return m[1] + " per " + m[2], true
	}
	if m := alphaTokenRE.FindString(norm); m != "" {
		return m, true
	}
	return "", false
}

type scoredPattern struct {
	pattern researchctx.Pattern
	support int
}

// synthesize builds one regex per learned family, per §4.5 step 4.
func synthesize(style string, families []*family) []scoredPattern {
	decimalBody := decimalBodyFor(style)
	out := make([]scoredPattern, 0, len(families))
	for _, f := range families {
		unitExpr := unitExpression(f.key)
		body := fmt.Sprintf(`(%s)\s*%s`, decimalBody, unitExpr)
		re := "(?i)" + body

		if _, err := regexp.Compile(body); err != nil {
			continue // P5: never emit a regex that fails to compile
		}

		out = append(out, scoredPattern{
			pattern: researchctx.Pattern{
				Description:        fmt.Sprintf("Learned family: %s (%d)", f.key, f.count),
				RegexPattern:       re,
				Confidence:         inducedConfidence,
				ExtractionStrategy: "induced",
			},
			support: f.count,
		})
	}
	return out
}

func decimalBodyFor(style string) string {
	switch style {
	case styleSpace:
		return `\d+\s\d{1,2}`
	case styleMixed:
		return `\d+(?:[.\s]\d{1,2})?`
	default:
		return `\d+(?:\.\d+)?`
	}
}

// unitExpression turns a learned key like "tokens/second" or "hours" into
// an escaped regex alternative that tolerates the same separator family.
func unitExpression(key string) string {
	if strings.Contains(key, "/") {
		parts := strings.SplitN(key, "/", 2)
		return fmt.Sprintf(`%s\s*/\s*%s`, regexp.QuoteMeta(parts[0]), regexp.QuoteMeta(parts[1]))
	}
	if strings.Contains(key, " per ") {
		parts := strings.SplitN(key, " per ", 2)
		return fmt.Sprintf(`%s\s+per\s+%s`, regexp.QuoteMeta(parts[0]), regexp.QuoteMeta(parts[1]))
	}
	return regexp.QuoteMeta(key)
}
