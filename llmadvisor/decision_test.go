package llmadvisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knownAgentsFixture(name string) (string, bool) {
	switch strings_ToUpperNoSpace(name) {
	case "DATAINSPECTOR":
		return "DataInspector", true
	case "PLANNINGAGENT":
		return "PlanningAgent", true
	case "EXTRACTOR":
		return "Extractor", true
	default:
		return "", false
	}
}

func strings_ToUpperNoSpace(s string) string {
	return normalizeForSynonymMatch(s)
}

func TestParseDecision_StructuredFields(t *testing.T) {
	resp := "ACTION: CALL_TOOL\nTOOL_NAME: Extractor\nREASONING: need data\nNEXT_GOAL: extract measurements\n"
	d := ParseDecision(resp, knownAgentsFixture)
	require.Equal(t, ActionCallTool, d.Action)
	assert.Equal(t, "Extractor", d.ToolName)
	assert.Equal(t, "need data", d.Reasoning)
}

func TestParseDecision_CompletionSynonymTypo(t *testing.T) {
	resp := "ACTION: COMP LETE\nREASONING: all done\n"
	d := ParseDecision(resp, knownAgentsFixture)
	assert.Equal(t, ActionComplete, d.Action)
}

func TestParseDecision_DecisionSectionFallback(t *testing.T) {
	resp := "<think>I should think about this for a while...</think>\nDECISION: CALL_TOOL DataInspector"
	d := ParseDecision(resp, knownAgentsFixture)
	require.Equal(t, ActionCallTool, d.Action)
	assert.Equal(t, "DataInspector", d.ToolName)
}

func TestParseDecision_KeywordScanLastResort(t *testing.T) {
	resp := "I think we should call PlanningAgent next to build a plan."
	d := ParseDecision(resp, knownAgentsFixture)
	require.Equal(t, ActionCallTool, d.Action)
	assert.Equal(t, "PlanningAgent", d.ToolName)
}

func TestParseDecision_UnrecognizableDegradesToOther(t *testing.T) {
	resp := "I am not sure what to do."
	d := ParseDecision(resp, knownAgentsFixture)
	assert.Equal(t, ActionOther, d.Action)
}

func TestParseDecision_NameHallucinationViaStructuredField(t *testing.T) {
	resp := "ACTION: CALL_TOOL\nTOOL_NAME: DATA_INSPIRATER\n"
	d := ParseDecision(resp, knownAgentsFixture)
	require.Equal(t, ActionCallTool, d.Action)
	// The raw hallucinated name passes through llmadvisor; normalization
	// to "DataInspector" happens one layer up, in package normalize.
	assert.Equal(t, "DATA_INSPIRATER", d.ToolName)
}
