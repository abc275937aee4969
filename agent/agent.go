// Package agent implements the concrete pipeline agents (DataInspector,
// PlanningAgent, PatternGenerator, Extractor, SynthesisCoordinator /
// Synthesizer, and the optional WebSearchAgent and ResponseFormatter)
// together with the registry the Orchestrator dispatches against.
package agent

import (
	"context"
	"fmt"

	"github.com/dax8it/deepresearch-core/researchctx"
)

// Agent is the shape every pipeline component implements. Process
// augments rc in place and must not retain the pointer after returning
// (§5 — no agent spawns background work that outlives its call).
type Agent interface {
	Name() string
	Description() string
	Process(ctx context.Context, rc *researchctx.Context) error
}

// Error is a structured failure from agent dispatch or execution,
// mirroring the teacher's component-scoped error type.
type Error struct {
	Component string
	Action    string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Component, e.Action, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Component, e.Action, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(component, action, message string, err error) *Error {
	return &Error{Component: component, Action: action, Message: message, Err: err}
}
