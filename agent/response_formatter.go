package agent

import (
	"context"
	"strings"

	"github.com/dax8it/deepresearch-core/researchctx"
)

const responseFormatterName = "ResponseFormatter"

// ResponseFormatter is an optional cosmetic alternate to
// SynthesisCoordinator (§9): it trims leading and trailing whitespace from
// an already-synthesized answer without changing its content or
// confidence. Only useful when the
// orchestrator's plan names it explicitly as a post-synthesis step.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter { return &ResponseFormatter{} }

func (r *ResponseFormatter) Name() string        { return responseFormatterName }
func (r *ResponseFormatter) Description() string { return "Trims leading and trailing whitespace from the synthesized answer." }

func (r *ResponseFormatter) Process(ctx context.Context, rc *researchctx.Context) error {
	rc.Synthesis.Answer = strings.TrimSpace(rc.Synthesis.Answer)
	return nil
}

var _ Agent = (*ResponseFormatter)(nil)
