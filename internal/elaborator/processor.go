package elaborator

import (
	"github.com/funvibe/forall/internal/pipeline"
)

// ElaboratorProcessor lowers the parsed declarations into a core module.
// It runs even after parse errors so name-resolution diagnostics for the
// well-formed declarations are still reported.
type ElaboratorProcessor struct{}

func (ep *ElaboratorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	mod := Elaborate(ctx.ModuleName, ctx.Decls)
	ctx.Module = mod
	ctx.Errors = append(ctx.Errors, mod.Errors...)
	ctx.Warnings = append(ctx.Warnings, mod.Warnings...)
	return ctx
}
