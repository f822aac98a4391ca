package checker

import (
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
)

// caseBranchContexts infers the scrutinee's data type and builds the typing
// context for each branch body, with the constructor's instantiated field
// types bound positionally.
func (c *Checker) caseBranchContexts(t core.Case, ctx *Context) (core.TypeConstructor, []*Context, *diagnostics.DiagnosticError) {
	scrutType, err := c.Infer(t.Scrutinee, ctx)
	if err != nil {
		return core.TypeConstructor{}, nil, err
	}
	data, ok := scrutType.(core.TypeConstructor)
	if !ok {
		return core.TypeConstructor{}, nil, errf(diagnostics.ErrT001,
			"case scrutinee has type %s, expected a data type", scrutType)
	}

	contexts := make([]*Context, len(t.Branches))
	for i, br := range t.Branches {
		shape, err := c.constructorShape(br.Ctor)
		if err != nil {
			return core.TypeConstructor{}, nil, err
		}
		if shape.result.Name != data.Name {
			return core.TypeConstructor{}, nil, errf(diagnostics.ErrT005,
				"constructor %q belongs to %s, not %s", br.Ctor, shape.result.Name, data.Name)
		}
		if br.Arity != len(shape.fields) {
			return core.TypeConstructor{}, nil, errf(diagnostics.ErrT006,
				"constructor %q has %d fields, branch binds %d", br.Ctor, len(shape.fields), br.Arity)
		}

		bctx := ctx
		for _, f := range shape.instantiateFields(data.TypeArgs) {
			bctx = bctx.extend(f)
		}
		contexts[i] = bctx
	}
	return data, contexts, nil
}

// inferCase reconciles all branch result types: the first branch sets the
// type, every other branch must agree structurally.
func (c *Checker) inferCase(t core.Case, ctx *Context) (core.Type, *diagnostics.DiagnosticError) {
	if len(t.Branches) == 0 {
		return nil, errf(diagnostics.ErrT008, "case expression has no branches")
	}

	_, contexts, err := c.caseBranchContexts(t, ctx)
	if err != nil {
		return nil, err
	}

	result, err := c.Infer(t.Branches[0].Body, contexts[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(t.Branches); i++ {
		branchType, err := c.Infer(t.Branches[i].Body, contexts[i])
		if err != nil {
			return nil, err
		}
		if !core.TypeEqual(result, branchType) {
			return nil, errf(diagnostics.ErrT008,
				"branch %q has type %s, previous branches have %s",
				t.Branches[i].Ctor, branchType, result)
		}
	}
	return result, nil
}
