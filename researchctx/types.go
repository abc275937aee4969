// Package researchctx defines the shared, append-only research context
// that every pipeline agent reads and augments.
package researchctx

import "time"

// SourceType identifies where a Chunk originated from.
type SourceType string

const (
	SourceRAG      SourceType = "rag"
	SourceWeb      SourceType = "web"
	SourceDocument SourceType = "document"
)

// Chunk is a pre-retrieved fragment of a source document with provenance.
type Chunk struct {
	ID              string
	Text            string
	Source          string
	Similarity      float64
	Metadata        map[string]any
	SourceDocument  string
	SourceType      SourceType
}

// RAGResults holds the ordered chunk sequence and a human-readable summary.
type RAGResults struct {
	Chunks  []Chunk
	Summary string
}

// DocumentInfo is one entry in DocumentAnalysis.Documents.
type DocumentInfo struct {
	DocumentID string
	Title      string
	Approved   bool
	Metadata   map[string]any
}

// DocumentAnalysis is produced by DataInspector.
type DocumentAnalysis struct {
	Documents []DocumentInfo
}

// Pattern is a description/strategy pair, usually with an extraction
// regex, appended by PatternGenerator or PatternInducer.
type Pattern struct {
	Description       string
	Examples          []string
	ExtractionStrategy string
	Confidence         float64
	RegexPattern       string // compiled separately; empty means non-regex strategy
}

// Item is one piece of extracted evidence.
type Item struct {
	Content       string
	Value         *float64
	Unit          string
	Confidence    float64
	Context       string
	SourceChunkID string
	Metadata      map[string]any
}

// Group is a bucket of related Items produced during synthesis.
type Group struct {
	Key            string
	Items          []Item
	Classification string // current | historical | other, set by SynthesisCoordinator (§4.7)
}

// ExtractedData holds everything the Extractor has produced.
type ExtractedData struct {
	Raw        []Item
	Structured []Group
}

// AnalyzedData holds the cleaned, deduplicated items SynthesisCoordinator
// records after synthesis. There is no separate DataAnalyzer stage (see §9
// of the design notes): SynthesisCoordinator reads ExtractedData.Raw
// directly.
type AnalyzedData struct {
	Cleaned []Item
}

// SynthesisStructure enumerates the shape of the final answer.
type SynthesisStructure string

const (
	StructureParagraph   SynthesisStructure = "paragraph"
	StructureList        SynthesisStructure = "list"
	StructureTable       SynthesisStructure = "table"
	StructureExplanation SynthesisStructure = "explanation"
)

// Synthesis is the final synthesized answer.
type Synthesis struct {
	Answer     string
	Reasoning  string
	Confidence float64
	Structure  SynthesisStructure
}

// Understanding captures the orchestrator's read on query intent.
type Understanding struct {
	Intent       string
	Domain       string
	Requirements []string
	QueryType    string
}

// DocumentInsights is sharedKnowledge.documentInsights (§3).
type DocumentInsights struct {
	DocumentType      string
	ContentAreas      []string
	QueryIntent       string
	SpecificInsights  []string
	KeyFindings       []string
	Measurements      []Measurement
}

// Measurement is one numeric hit harvested by DataInspector, with the
// surrounding text context PatternInducer needs to learn formatting.
type Measurement struct {
	Raw          string
	LeftContext  string
	RightContext string
}

// PatternCategories groups grounded terms by role for strategy-driven
// pattern synthesis (§4.4 strategy 1).
type PatternCategories struct {
	People   []string
	Methods  []string
	Concepts []string
	Data     []string
}

// ExtractionStrategy is one entry of sharedKnowledge.extractionStrategies.
type ExtractionStrategy struct {
	DocumentType      string
	QueryIntent       string
	PatternCategories PatternCategories
}

// PlanStep is one entry in ExecutionPlan.Steps.
type PlanStep struct {
	Agent        string
	Action       string
	Reasoning    string
	Dependencies []string
}

// ExecutionPlan is sharedKnowledge.executionPlan, produced by PlanningAgent.
type ExecutionPlan struct {
	Steps           []PlanStep
	FallbackOptions []string
}

// Strictness controls how strictly query constraints gate RxDB augmentation.
type Strictness string

const (
	StrictnessShould Strictness = "should"
	StrictnessMust   Strictness = "must"
)

// QueryConstraints narrows which documents augmentation may pull from.
type QueryConstraints struct {
	ExpectedDomainCandidates []string
	ExpectedTitleHints       []string
	ExpectedOwner            string
	Strictness               Strictness
}

// IntelligentExpectations records what kind of answer the query implies.
type IntelligentExpectations struct {
	ExpectedAnswerType string
}

// SkippedAgent records why a rerun was skipped (§4.1.5).
type SkippedAgent struct {
	Agent          string
	Reason         string
	RecommendedNext string
	PlanStatus     string
	Timestamp      time.Time
}

// QualityFlag is the outcome of the quality-assessment prompt (§4.1.7).
type QualityFlag string

const (
	QualityOK              QualityFlag = "ok"
	QualityInsufficient    QualityFlag = "insufficient"
	QualityRetryRecommended QualityFlag = "retry_recommended"
)

// SharedKnowledge is the free-form, typed cross-agent communication bag.
type SharedKnowledge struct {
	DocumentInsights        DocumentInsights
	ExtractionStrategies    map[string]ExtractionStrategy
	ExecutionPlan           *ExecutionPlan
	AgentFindings           map[string]string
	QueryConstraints        QueryConstraints
	IntelligentExpectations IntelligentExpectations
	LastSkippedAgent        *SkippedAgent
	QualityFlags            map[string]QualityFlag
	AgentGuidance           map[string]string
}

// Context is the single mutable record carried through the pipeline for
// the lifetime of one Research call (ResearchContext in spec.md §3).
// It is exclusively owned by the orchestrator; agents receive it by
// pointer through Process and must not retain the reference after
// returning.
type Context struct {
	Query            string
	RAGResults       RAGResults
	DocumentAnalysis *DocumentAnalysis
	Patterns         []Pattern
	ExtractedData    ExtractedData
	AnalyzedData     *AnalyzedData
	Synthesis        Synthesis
	Understanding    Understanding
	SharedKnowledge  SharedKnowledge
}

// New creates an empty Context for the given query and chunks, with all
// SharedKnowledge maps initialized so agents can write into them without
// nil-checking.
func New(query string, chunks []Chunk) *Context {
	return &Context{
		Query: query,
		RAGResults: RAGResults{
			Chunks: chunks,
		},
		SharedKnowledge: SharedKnowledge{
			ExtractionStrategies: make(map[string]ExtractionStrategy),
			AgentFindings:        make(map[string]string),
			QualityFlags:         make(map[string]QualityFlag),
			AgentGuidance:        make(map[string]string),
		},
	}
}
