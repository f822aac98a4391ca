package pipeline

import (
	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
)

// PipelineContext carries one source text through the stages. Each processor
// reads what earlier stages produced and appends its own results; errors
// accumulate rather than abort, so one run reports everything it found.
type PipelineContext struct {
	Source     string
	FilePath   string
	ModuleName string

	// Decls may be pre-seeded (the prelude's declarations) before the
	// parser appends the source's own.
	Decls []ast.Declaration

	Module *core.Module

	Errors   []*diagnostics.DiagnosticError
	Warnings []string
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source, ModuleName: "main"}
}

func (ctx *PipelineContext) HasErrors() bool { return len(ctx.Errors) > 0 }
