package llmadvisor

import (
	"regexp"
	"strings"
)

// Action is the orchestrator-level verdict extracted from advisor text.
type Action string

const (
	ActionCallTool Action = "CALL_TOOL"
	ActionComplete Action = "COMPLETE"
	ActionOther    Action = "OTHER"
)

// Decision is the parsed form of one advisor turn (§4.1.1.c).
type Decision struct {
	Action    Action
	ToolName  string
	Reasoning string
	NextGoal  string
}

var completionSynonyms = map[string]bool{
	"COMPLETE": true,
	"DONE":     true,
	"FINISH":   true,
	"END":      true,
}

var fieldLineRE = regexp.MustCompile(`(?im)^\s*([A-Z_]+)\s*:\s*(.+)$`)

var lastThinkCloseRE = regexp.MustCompile(`(?is)</think>`)
var decisionMarkerRE = regexp.MustCompile(`(?im)DECISION\s*:`)

// ParseDecision applies the three-tier parser: structured-field lines,
// then the decision-section fallback, then a last-resort keyword scan.
// It never errors — a response it cannot make sense of degrades to
// Action: OTHER, letting the orchestrator's own defaults take over.
func ParseDecision(response string, knownAgents func(string) (string, bool)) Decision {
	if d, ok := parseStructuredFields(response, knownAgents); ok {
		return d
	}
	if d, ok := parseDecisionSection(response, knownAgents); ok {
		return d
	}
	return parseKeywordScan(response, knownAgents)
}

// parseStructuredFields looks for ACTION:/TOOL_NAME:/REASONING:/NEXT_GOAL: lines.
func parseStructuredFields(response string, knownAgents func(string) (string, bool)) (Decision, bool) {
	matches := fieldLineRE.FindAllStringSubmatch(response, -1)
	if len(matches) == 0 {
		return Decision{}, false
	}

	fields := map[string]string{}
	for _, m := range matches {
		key := strings.ToUpper(strings.TrimSpace(m[1]))
		fields[key] = strings.TrimSpace(m[2])
	}

	actionRaw, hasAction := fields["ACTION"]
	if !hasAction {
		return Decision{}, false
	}

	d := Decision{
		Reasoning: fields["REASONING"],
		NextGoal:  fields["NEXT_GOAL"],
	}
	d.Action, d.ToolName = classifyAction(actionRaw, fields["TOOL_NAME"], knownAgents)
	return d, true
}

// parseDecisionSection looks at whatever text follows the last </think>
// block or a "DECISION:" marker, and re-runs the keyword scan on just
// that tail (small models frequently bury the real decision in a
// reasoning preamble).
func parseDecisionSection(response string, knownAgents func(string) (string, bool)) (Decision, bool) {
	tail := response

	if locs := lastThinkCloseRE.FindAllStringIndex(response, -1); len(locs) > 0 {
		last := locs[len(locs)-1]
		tail = response[last[1]:]
	} else if loc := decisionMarkerRE.FindStringIndex(response); loc != nil {
		tail = response[loc[1]:]
	} else {
		return Decision{}, false
	}

	tail = strings.TrimSpace(tail)
	if tail == "" {
		return Decision{}, false
	}

	d := parseKeywordScan(tail, knownAgents)
	if d.Action == ActionOther {
		return Decision{}, false
	}
	return d, true
}

// parseKeywordScan is the last-resort parser: scan the whole text for a
// completion synonym or a recognizable tool/agent name.
func parseKeywordScan(response string, knownAgents func(string) (string, bool)) Decision {
	upper := strings.ToUpper(response)

	if containsCompletionSynonym(upper) {
		return Decision{Action: ActionComplete}
	}

	if knownAgents != nil {
		for _, word := range tokenize(response) {
			if canonical, ok := knownAgents(word); ok {
				return Decision{Action: ActionCallTool, ToolName: canonical}
			}
		}
	}

	return Decision{Action: ActionOther}
}

// classifyAction interprets the ACTION field value given an optional
// TOOL_NAME field.
func classifyAction(actionRaw, toolName string, knownAgents func(string) (string, bool)) (Action, string) {
	normalized := normalizeForSynonymMatch(actionRaw)
	if completionSynonyms[normalized] {
		return ActionComplete, ""
	}

	if strings.EqualFold(actionRaw, "CALL_TOOL") {
		return ActionCallTool, toolName
	}

	// ACTION sometimes *is* the agent name directly.
	if knownAgents != nil {
		if canonical, ok := knownAgents(actionRaw); ok {
			return ActionCallTool, canonical
		}
	}
	if toolName != "" {
		return ActionCallTool, toolName
	}

	return ActionOther, ""
}

// normalizeForSynonymMatch strips everything but letters and upper-cases,
// so that hallucinated variants like "COMP LETE" or "Comp-lete." still
// match the canonical completion synonym set.
func normalizeForSynonymMatch(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsCompletionSynonym(upper string) bool {
	for syn := range completionSynonyms {
		if strings.Contains(upper, syn) {
			return true
		}
	}
	// Catch "COMP LETE"-style whitespace-split variants.
	collapsed := normalizeForSynonymMatch(upper)
	return completionSynonyms[collapsed]
}

var tokenizeRE = regexp.MustCompile(`[A-Za-z_]+`)

func tokenize(s string) []string {
	return tokenizeRE.FindAllString(s, -1)
}
