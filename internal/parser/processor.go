package parser

import (
	"github.com/funvibe/forall/internal/lexer"
	"github.com/funvibe/forall/internal/pipeline"
)

// ParserProcessor lexes and parses the context's source, appending the
// declarations after any pre-seeded ones (the prelude's).
type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	p := New(lexer.New(ctx.Source))
	decls := p.ParseProgram()
	ctx.Decls = append(ctx.Decls, decls...)
	ctx.Errors = append(ctx.Errors, p.Errors()...)
	return ctx
}
