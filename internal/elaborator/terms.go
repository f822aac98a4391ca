package elaborator

import (
	"strings"

	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
)

// term elaborates one expression. The first error aborts the enclosing
// declaration's body.
func (e *elaborator) term(expr ast.Expression, sc *scope) (core.Term, *diagnostics.DiagnosticError) {
	switch ex := expr.(type) {
	case *ast.IntegerLiteral:
		return core.IntLit{Value: ex.Value}, nil

	case *ast.StringLiteral:
		return core.StringLit{Value: ex.Value}, nil

	case *ast.Identifier:
		return e.identifier(ex, sc)

	case *ast.Lambda:
		paramType, err := e.typ(ex.ParamType, sc)
		if err != nil {
			return nil, err
		}
		sc.vars = append(sc.vars, ex.Param.Value)
		body, err := e.term(ex.Body, sc)
		sc.vars = sc.vars[:len(sc.vars)-1]
		if err != nil {
			return nil, err
		}
		return core.Abs{ParamType: paramType, Body: body}, nil

	case *ast.TypeLambda:
		sc.tyVars = append(sc.tyVars, ex.Param.Value)
		body, err := e.term(ex.Body, sc)
		sc.tyVars = sc.tyVars[:len(sc.tyVars)-1]
		if err != nil {
			return nil, err
		}
		return core.TypeAbs{Body: body}, nil

	case *ast.Apply:
		return e.application(ex, sc)

	case *ast.TypeApply:
		fn, err := e.term(ex.Fn, sc)
		if err != nil {
			return nil, err
		}
		ty, err := e.typ(ex.Type, sc)
		if err != nil {
			return nil, err
		}
		return core.TypeApp{Term: fn, Type: ty}, nil

	case *ast.LetExpression:
		value, err := e.term(ex.Value, sc)
		if err != nil {
			return nil, err
		}
		sc.vars = append(sc.vars, ex.Name.Value)
		body, err := e.term(ex.Body, sc)
		sc.vars = sc.vars[:len(sc.vars)-1]
		if err != nil {
			return nil, err
		}
		return core.Let{Value: value, Body: body}, nil

	case *ast.CaseExpression:
		return e.caseExpression(ex, sc)
	}

	return nil, diagnostics.NewError(diagnostics.ErrP001, expr.GetToken(),
		"cannot elaborate expression %q", expr.TokenLiteral())
}

// identifier resolves a name. Reserved `$prim.` / `$llm.` prefixes bypass
// lexical scoping entirely; ordinary names resolve to the nearest enclosing
// binder first, then to a registered global.
func (e *elaborator) identifier(id *ast.Identifier, sc *scope) (core.Term, *diagnostics.DiagnosticError) {
	name := id.Value

	if strings.HasPrefix(name, config.PrimPrefix) {
		return core.PrimOp{Name: strings.TrimPrefix(name, config.PrimPrefix)}, nil
	}
	if strings.HasPrefix(name, config.LLMPrefix) {
		return core.PrimOp{Name: config.LLMOpPrefix + strings.TrimPrefix(name, config.LLMPrefix)}, nil
	}

	if isUpperName(name) {
		// Constructor in atom position: only nullary constructors stand
		// alone; applied ones are handled by the application spine.
		arity, ok := e.ctorArity[name]
		if !ok {
			return nil, diagnostics.NewError(diagnostics.ErrE004, id.GetToken(),
				"unknown constructor %q", name)
		}
		if arity != 0 {
			return nil, diagnostics.NewError(diagnostics.ErrE005, id.GetToken(),
				"constructor %q expects %d arguments, got 0", name, arity)
		}
		return core.ConstructorApp{Ctor: name}, nil
	}

	if idx, ok := sc.lookupVar(name); ok {
		return core.Var{Index: idx}, nil
	}
	if _, ok := e.mod.GlobalTypes[name]; ok {
		return core.Global{Name: name}, nil
	}
	return nil, diagnostics.NewError(diagnostics.ErrE001, id.GetToken(),
		"unbound identifier %q", name)
}

// application elaborates an application spine. A constructor at the head
// collapses the whole spine into a saturated ConstructorApp; anything else
// stays a left-nested App chain.
func (e *elaborator) application(app *ast.Apply, sc *scope) (core.Term, *diagnostics.DiagnosticError) {
	head, args := flattenSpine(app)

	if id, ok := head.(*ast.Identifier); ok && isUpperName(id.Value) &&
		!strings.HasPrefix(id.Value, "$") {
		arity, known := e.ctorArity[id.Value]
		if !known {
			return nil, diagnostics.NewError(diagnostics.ErrE004, id.GetToken(),
				"unknown constructor %q", id.Value)
		}
		if arity != len(args) {
			return nil, diagnostics.NewError(diagnostics.ErrE005, id.GetToken(),
				"constructor %q expects %d arguments, got %d", id.Value, arity, len(args))
		}
		coreArgs := make([]core.Term, len(args))
		for i, a := range args {
			ca, err := e.term(a, sc)
			if err != nil {
				return nil, err
			}
			coreArgs[i] = ca
		}
		return core.ConstructorApp{Ctor: id.Value, Args: coreArgs}, nil
	}

	fn, err := e.term(head, sc)
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		arg, err := e.term(a, sc)
		if err != nil {
			return nil, err
		}
		fn = core.App{Fn: fn, Arg: arg}
	}
	return fn, nil
}

// flattenSpine unrolls left-nested Apply nodes into a head and its argument
// list. TypeApply nodes act as spine heads of their own.
func flattenSpine(expr ast.Expression) (ast.Expression, []ast.Expression) {
	var args []ast.Expression
	cur := expr
	for {
		app, ok := cur.(*ast.Apply)
		if !ok {
			break
		}
		args = append([]ast.Expression{app.Arg}, args...)
		cur = app.Fn
	}
	return cur, args
}

func (e *elaborator) caseExpression(ex *ast.CaseExpression, sc *scope) (core.Term, *diagnostics.DiagnosticError) {
	scrutinee, err := e.term(ex.Scrutinee, sc)
	if err != nil {
		return nil, err
	}

	branches := make([]core.Branch, 0, len(ex.Branches))
	for _, br := range ex.Branches {
		cname := br.Ctor.Value
		arity, known := e.ctorArity[cname]
		if !known {
			return nil, diagnostics.NewError(diagnostics.ErrE004, br.Ctor.GetToken(),
				"unknown constructor %q in case branch", cname)
		}
		if arity != len(br.Vars) {
			return nil, diagnostics.NewError(diagnostics.ErrE005, br.Ctor.GetToken(),
				"constructor %q has %d fields, pattern binds %d", cname, arity, len(br.Vars))
		}

		for _, v := range br.Vars {
			sc.vars = append(sc.vars, v.Value)
		}
		body, err := e.term(br.Body, sc)
		sc.vars = sc.vars[:len(sc.vars)-len(br.Vars)]
		if err != nil {
			return nil, err
		}
		branches = append(branches, core.Branch{Ctor: cname, Arity: arity, Body: body})
	}

	return core.Case{Scrutinee: scrutinee, Branches: branches}, nil
}

func isUpperName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}
