package checker

import (
	"github.com/funvibe/forall/internal/pipeline"
)

// CheckerProcessor verifies every surviving declaration against its
// annotation. Declarations the elaborator dropped are already reported, so
// the checker only ever sees well-scoped terms.
type CheckerProcessor struct{}

func (cp *CheckerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Module == nil {
		return ctx
	}
	ctx.Errors = append(ctx.Errors, CheckModule(ctx.Module)...)
	return ctx
}
