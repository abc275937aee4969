package agent

import (
	"github.com/dax8it/deepresearch-core/registry"
)

// Entry pairs an Agent instance with the canonical name it's registered
// under and a free-form type tag (used for progress/metrics labeling).
type Entry struct {
	Agent Agent
	Type  string
}

// Registry is the single source of truth the Orchestrator dispatches
// against: every agent name the advisor can decide to call must resolve
// here, after normalize.Normalizer has had a chance to canonicalize it.
type Registry struct {
	*registry.Base[Entry]
}

// NewRegistry builds an empty agent Registry.
func NewRegistry() *Registry {
	return &Registry{Base: registry.New[Entry]()}
}

// RegisterAgent adds ag to the registry under its own Name(), tagged with
// agentType for observability labeling.
func (r *Registry) RegisterAgent(ag Agent, agentType string) error {
	if ag == nil {
		return newError("Registry", "RegisterAgent", "agent cannot be nil", nil)
	}
	if err := r.Register(ag.Name(), Entry{Agent: ag, Type: agentType}); err != nil {
		return newError("Registry", "RegisterAgent", "failed to register agent "+ag.Name(), err)
	}
	return nil
}

// GetAgent returns the agent registered under name, if any.
func (r *Registry) GetAgent(name string) (Agent, bool) {
	entry, ok := r.Get(name)
	if !ok {
		return nil, false
	}
	return entry.Agent, true
}
