package checker

import (
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
)

// constructorShape is a constructor type with its forall nest peeled:
// paramCount type variables (indices 0..paramCount-1 inside fields/result),
// the field types, and the owning data type applied to the variables.
type constructorShape struct {
	paramCount int
	fields     []core.Type
	result     core.TypeConstructor
}

func (c *Checker) constructorShape(name string) (*constructorShape, *diagnostics.DiagnosticError) {
	ctype, ok := c.mod.ConstructorTypes[name]
	if !ok {
		return nil, errf(diagnostics.ErrT005, "unknown constructor %q", name)
	}

	k := 0
	body := ctype
	for {
		fa, ok := body.(core.TypeForall)
		if !ok {
			break
		}
		body = fa.Body
		k++
	}

	fields, result := core.ArrowSpine(body)
	dataType, ok := result.(core.TypeConstructor)
	if !ok {
		return nil, errf(diagnostics.ErrT005, "constructor %q has a malformed type", name)
	}
	return &constructorShape{paramCount: k, fields: fields, result: dataType}, nil
}

// instantiateFields substitutes concrete type arguments for the shape's
// variables. typeArgs are in declaration order; variable index of parameter
// j is paramCount-1-j.
func (s *constructorShape) instantiateFields(typeArgs []core.Type) []core.Type {
	out := make([]core.Type, len(s.fields))
	for i, f := range s.fields {
		out[i] = substParams(f, typeArgs, s.paramCount, 0)
	}
	return out
}

// substParams replaces variables belonging to the peeled forall nest. depth
// tracks quantifiers crossed inside the field type itself.
func substParams(t core.Type, typeArgs []core.Type, paramCount, depth int) core.Type {
	switch tt := t.(type) {
	case core.TypeVar:
		if tt.Index >= depth && tt.Index < depth+paramCount {
			j := paramCount - 1 - (tt.Index - depth)
			return core.ShiftType(typeArgs[j], depth, 0)
		}
		if tt.Index >= depth+paramCount {
			// Free beyond the nest: renumber past the removed binders.
			return core.TypeVar{Index: tt.Index - paramCount}
		}
		return tt
	case core.TypeArrow:
		return core.TypeArrow{
			Domain:   substParams(tt.Domain, typeArgs, paramCount, depth),
			Codomain: substParams(tt.Codomain, typeArgs, paramCount, depth),
			ParamDoc: tt.ParamDoc,
		}
	case core.TypeForall:
		return core.TypeForall{Body: substParams(tt.Body, typeArgs, paramCount, depth+1)}
	case core.PrimitiveType:
		return tt
	case core.TypeConstructor:
		args := make([]core.Type, len(tt.TypeArgs))
		for i, a := range tt.TypeArgs {
			args[i] = substParams(a, typeArgs, paramCount, depth)
		}
		return core.TypeConstructor{Name: tt.Name, TypeArgs: args}
	}
	return t
}

// checkConstructorApp checks a saturated constructor application against an
// expected type, which must be the owning data type; its type arguments
// drive field instantiation.
func (c *Checker) checkConstructorApp(t core.ConstructorApp, expected core.Type, ctx *Context) *diagnostics.DiagnosticError {
	shape, err := c.constructorShape(t.Ctor)
	if err != nil {
		return err
	}
	want, ok := expected.(core.TypeConstructor)
	if !ok || want.Name != shape.result.Name {
		return errf(diagnostics.ErrT001, "constructor %q builds %s, expected %s",
			t.Ctor, shape.result.Name, expected)
	}
	if len(t.Args) != len(shape.fields) {
		return errf(diagnostics.ErrT006, "constructor %q expects %d arguments, got %d",
			t.Ctor, len(shape.fields), len(t.Args))
	}

	fields := shape.instantiateFields(want.TypeArgs)
	for i, arg := range t.Args {
		if err := c.Check(arg, fields[i], ctx); err != nil {
			return err
		}
	}
	return nil
}

// inferConstructorApp synthesizes a constructor application's type. For
// parameterized data types the arguments' inferred types are matched against
// the field patterns to solve the parameters; an application that leaves a
// parameter unconstrained (e.g. Nil) needs a checking context instead.
func (c *Checker) inferConstructorApp(t core.ConstructorApp, ctx *Context) (core.Type, *diagnostics.DiagnosticError) {
	shape, err := c.constructorShape(t.Ctor)
	if err != nil {
		return nil, err
	}
	if len(t.Args) != len(shape.fields) {
		return nil, errf(diagnostics.ErrT006, "constructor %q expects %d arguments, got %d",
			t.Ctor, len(shape.fields), len(t.Args))
	}

	if shape.paramCount == 0 {
		for i, arg := range t.Args {
			if err := c.Check(arg, shape.fields[i], ctx); err != nil {
				return nil, err
			}
		}
		return shape.result, nil
	}

	solution := make([]core.Type, shape.paramCount)
	for i, arg := range t.Args {
		argType, err := c.Infer(arg, ctx)
		if err != nil {
			return nil, err
		}
		if !matchType(shape.fields[i], argType, shape.paramCount, 0, solution) {
			return nil, errf(diagnostics.ErrT001,
				"argument %d of constructor %q has type %s, which does not fit field %s",
				i+1, t.Ctor, argType, shape.fields[i])
		}
	}

	typeArgs := make([]core.Type, shape.paramCount)
	for j, idx := 0, shape.paramCount-1; j < shape.paramCount; j, idx = j+1, idx-1 {
		if solution[idx] == nil {
			return nil, errf(diagnostics.ErrT001,
				"cannot infer type arguments of constructor %q; add an annotation", t.Ctor)
		}
		typeArgs[j] = solution[idx]
	}
	return core.TypeConstructor{Name: shape.result.Name, TypeArgs: typeArgs}, nil
}

// matchType does first-order matching of a field pattern (with paramCount
// open variables) against a closed actual type. solution is indexed by the
// pattern variable's raw de Bruijn index.
func matchType(pattern, actual core.Type, paramCount, depth int, solution []core.Type) bool {
	switch pt := pattern.(type) {
	case core.TypeVar:
		if pt.Index >= depth && pt.Index < depth+paramCount {
			slot := pt.Index - depth
			shifted := core.ShiftType(actual, -depth, 0)
			if solution[slot] == nil {
				solution[slot] = shifted
				return true
			}
			return core.TypeEqual(solution[slot], shifted)
		}
		at, ok := actual.(core.TypeVar)
		return ok && at.Index == pt.Index
	case core.TypeArrow:
		at, ok := actual.(core.TypeArrow)
		return ok &&
			matchType(pt.Domain, at.Domain, paramCount, depth, solution) &&
			matchType(pt.Codomain, at.Codomain, paramCount, depth, solution)
	case core.TypeForall:
		at, ok := actual.(core.TypeForall)
		return ok && matchType(pt.Body, at.Body, paramCount, depth+1, solution)
	case core.PrimitiveType:
		at, ok := actual.(core.PrimitiveType)
		return ok && at.Name == pt.Name
	case core.TypeConstructor:
		at, ok := actual.(core.TypeConstructor)
		if !ok || at.Name != pt.Name || len(at.TypeArgs) != len(pt.TypeArgs) {
			return false
		}
		for i := range pt.TypeArgs {
			if !matchType(pt.TypeArgs[i], at.TypeArgs[i], paramCount, depth, solution) {
				return false
			}
		}
		return true
	}
	return false
}
