package orchestrator

import "time"

// AgentResult records the outcome of one agent invocation (§4.1 internal state).
type AgentResult struct {
	Success   bool
	Duration  time.Duration
	Err       error
	Timestamp time.Time
}

const (
	maxRerunCount = 2
	maxRetryCount = 2
)

// runState is the Orchestrator's internal bookkeeping for a single
// Research call. It is rebuilt from scratch on every ResearchRun call;
// the returned Run handle keeps it, together with the ResearchContext,
// so that RerunAgent continues from the same bookkeeping.
type runState struct {
	calledAgents         map[string]bool
	agentResults         map[string]AgentResult
	agentInputSignatures map[string]string
	agentRerunCount      map[string]int
	agentRetryCount      map[string]int
	lastAgentCalled      string
}

func newRunState() *runState {
	return &runState{
		calledAgents:         make(map[string]bool),
		agentResults:         make(map[string]AgentResult),
		agentInputSignatures: make(map[string]string),
		agentRerunCount:      make(map[string]int),
		agentRetryCount:      make(map[string]int),
	}
}

func (s *runState) markCalled(name string, result AgentResult) {
	s.calledAgents[name] = true
	s.agentResults[name] = result
	s.lastAgentCalled = name
}

func (s *runState) uncall(name string) {
	delete(s.calledAgents, name)
}
