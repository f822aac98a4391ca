package checker

import (
	"strings"

	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
	"github.com/funvibe/forall/internal/token"
)

// Checker validates core terms against a module's type tables. It is
// bidirectional: introduction forms are checked against an expected type,
// elimination forms are inferred. There is no metavariable machinery —
// mandatory annotations make rank-n checking enough — and there are no
// hardcoded primitive signatures: every PrimOp and literal type is looked up
// in tables the elaborator populated.
type Checker struct {
	mod *core.Module
}

func New(mod *core.Module) *Checker {
	return &Checker{mod: mod}
}

// CheckModule checks every term declaration. A type error aborts only the
// declaration that contains it; checking continues with the next one.
func CheckModule(mod *core.Module) []*diagnostics.DiagnosticError {
	c := New(mod)
	var errs []*diagnostics.DiagnosticError
	for _, d := range mod.Declarations {
		td, ok := d.(core.TermDeclaration)
		if !ok {
			continue
		}
		if err := c.Check(td.Body, td.Type, NewContext()); err != nil {
			err.Message = td.Name + ": " + err.Message
			errs = append(errs, err)
		}
	}
	return errs
}

// Context is the typing context for one declaration: a de Bruijn stack of
// term binder types (innermost last). Type binders are tracked implicitly —
// entering one shifts the stored types.
type Context struct {
	termTypes []core.Type
}

func NewContext() *Context {
	return &Context{}
}

func (ctx *Context) extend(t core.Type) *Context {
	types := make([]core.Type, len(ctx.termTypes), len(ctx.termTypes)+1)
	copy(types, ctx.termTypes)
	return &Context{termTypes: append(types, t)}
}

// enterTypeBinder shifts every stored type up by one: the types were
// expressed outside the new quantifier, so their variables now point one
// binder further out.
func (ctx *Context) enterTypeBinder() *Context {
	types := make([]core.Type, len(ctx.termTypes))
	for i, t := range ctx.termTypes {
		types[i] = core.ShiftType(t, 1, 0)
	}
	return &Context{termTypes: types}
}

func (ctx *Context) lookup(index int) (core.Type, bool) {
	if index < 0 || index >= len(ctx.termTypes) {
		return nil, false
	}
	return ctx.termTypes[len(ctx.termTypes)-1-index], true
}

func errf(code diagnostics.ErrorCode, format string, args ...interface{}) *diagnostics.DiagnosticError {
	return diagnostics.NewError(code, token.Token{}, format, args...)
}

// Check verifies term against expected.
func (c *Checker) Check(term core.Term, expected core.Type, ctx *Context) *diagnostics.DiagnosticError {
	switch t := term.(type) {
	case core.Abs:
		arrow, ok := expected.(core.TypeArrow)
		if !ok {
			return errf(diagnostics.ErrT001, "expected %s, found a function", expected)
		}
		if !core.TypeEqual(t.ParamType, arrow.Domain) {
			return errf(diagnostics.ErrT001, "parameter annotated %s, expected %s",
				t.ParamType, arrow.Domain)
		}
		return c.Check(t.Body, arrow.Codomain, ctx.extend(arrow.Domain))

	case core.TypeAbs:
		fa, ok := expected.(core.TypeForall)
		if !ok {
			return errf(diagnostics.ErrT001, "expected %s, found a type abstraction", expected)
		}
		return c.Check(t.Body, fa.Body, ctx.enterTypeBinder())

	case core.Let:
		valueType, err := c.Infer(t.Value, ctx)
		if err != nil {
			return err
		}
		return c.Check(t.Body, expected, ctx.extend(valueType))

	case core.ConstructorApp:
		return c.checkConstructorApp(t, expected, ctx)

	case core.Case:
		scrutType, branches, err := c.caseBranchContexts(t, ctx)
		if err != nil {
			return err
		}
		_ = scrutType
		for i, br := range t.Branches {
			if err := c.Check(br.Body, expected, branches[i]); err != nil {
				return err
			}
		}
		return nil
	}

	// Elimination forms and literals: infer, then compare.
	actual, err := c.Infer(term, ctx)
	if err != nil {
		return err
	}
	if !core.TypeEqual(actual, expected) {
		return errf(diagnostics.ErrT001, "expected %s, got %s", expected, actual)
	}
	return nil
}

// Infer synthesizes a type for term.
func (c *Checker) Infer(term core.Term, ctx *Context) (core.Type, *diagnostics.DiagnosticError) {
	switch t := term.(type) {
	case core.Var:
		typ, ok := ctx.lookup(t.Index)
		if !ok {
			return nil, errf(diagnostics.ErrT007, "unbound variable #%d", t.Index)
		}
		return typ, nil

	case core.Global:
		typ, ok := c.mod.GlobalTypes[t.Name]
		if !ok {
			return nil, errf(diagnostics.ErrT007, "unbound global %q", t.Name)
		}
		return typ, nil

	case core.PrimOp:
		return c.inferPrimOp(t.Name)

	case core.IntLit:
		return c.literalType(config.IntTypeName)

	case core.StringLit:
		return c.literalType(config.StringTypeName)

	case core.Abs:
		bodyType, err := c.Infer(t.Body, ctx.extend(t.ParamType))
		if err != nil {
			return nil, err
		}
		return core.TypeArrow{Domain: t.ParamType, Codomain: bodyType}, nil

	case core.TypeAbs:
		bodyType, err := c.Infer(t.Body, ctx.enterTypeBinder())
		if err != nil {
			return nil, err
		}
		return core.TypeForall{Body: bodyType}, nil

	case core.App:
		fnType, err := c.Infer(t.Fn, ctx)
		if err != nil {
			return nil, err
		}
		arrow, ok := fnType.(core.TypeArrow)
		if !ok {
			return nil, errf(diagnostics.ErrT002, "cannot apply a value of type %s", fnType)
		}
		if err := c.Check(t.Arg, arrow.Domain, ctx); err != nil {
			return nil, err
		}
		return arrow.Codomain, nil

	case core.TypeApp:
		termType, err := c.Infer(t.Term, ctx)
		if err != nil {
			return nil, err
		}
		fa, ok := termType.(core.TypeForall)
		if !ok {
			return nil, errf(diagnostics.ErrT003, "cannot instantiate a value of type %s", termType)
		}
		return core.InstantiateType(fa.Body, t.Type), nil

	case core.Let:
		valueType, err := c.Infer(t.Value, ctx)
		if err != nil {
			return nil, err
		}
		return c.Infer(t.Body, ctx.extend(valueType))

	case core.ConstructorApp:
		return c.inferConstructorApp(t, ctx)

	case core.Case:
		return c.inferCase(t, ctx)
	}

	return nil, errf(diagnostics.ErrT001, "cannot infer type of %s", term)
}

// inferPrimOp resolves a primitive's type purely by table lookup. Names
// carrying the "llm." prefix key the LLM half of GlobalTypes, everything
// else the native half.
func (c *Checker) inferPrimOp(name string) (core.Type, *diagnostics.DiagnosticError) {
	var key string
	if strings.HasPrefix(name, config.LLMOpPrefix) {
		key = config.LLMPrefix + strings.TrimPrefix(name, config.LLMOpPrefix)
	} else {
		key = config.PrimPrefix + name
	}
	typ, ok := c.mod.GlobalTypes[key]
	if !ok {
		return nil, errf(diagnostics.ErrT004, "unknown primitive %q", name)
	}
	return typ, nil
}

// literalType looks literal types up in PrimitiveTypes; even Int and String
// exist only because the prelude declared them.
func (c *Checker) literalType(name string) (core.Type, *diagnostics.DiagnosticError) {
	pt, ok := c.mod.PrimitiveTypes[name]
	if !ok {
		return nil, errf(diagnostics.ErrT004, "literal type %q is not declared", name)
	}
	return pt, nil
}
