// Package deepresearch provides a retrieval-augmented, multi-agent research
// engine. A single Orchestrator drives a bounded pipeline of specialized
// agents (DataInspector, PlanningAgent, PatternGenerator, Extractor,
// SynthesisCoordinator/Synthesizer, and optional WebSearchAgent and
// ResponseFormatter) over a shared research context built from retrieved
// document chunks.
//
// # Using as a Go library
//
// Import the orchestrator together with the agents and an Advisor
// implementation for your LLM of choice:
//
//	import (
//	    "github.com/dax8it/deepresearch-core/orchestrator"
//	    "github.com/dax8it/deepresearch-core/agent"
//	    "github.com/dax8it/deepresearch-core/llmadvisor"
//	)
//
// The core never talks to a specific model vendor directly — it depends
// only on llmadvisor.Advisor, a single Complete(ctx, prompt) method, so any
// LLM client can be wired in by the caller.
//
// # Status
//
// This module is under active development. APIs may change.
package deepresearch
