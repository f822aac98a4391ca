package elaborator

import (
	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
)

// typ elaborates a surface type. Lowercase names must be bound by an
// enclosing forall (or data parameter list); uppercase names must be a
// declared prim_type or data type, fully applied.
func (e *elaborator) typ(t ast.Type, sc *scope) (core.Type, *diagnostics.DiagnosticError) {
	switch tt := t.(type) {
	case *ast.NamedType:
		if !isUpperName(tt.Name) {
			if idx, ok := sc.lookupTyVar(tt.Name); ok {
				return core.TypeVar{Index: idx}, nil
			}
			return nil, diagnostics.NewError(diagnostics.ErrE001, tt.GetToken(),
				"unbound type variable %q", tt.Name)
		}
		if pt, ok := e.mod.PrimitiveTypes[tt.Name]; ok {
			return pt, nil
		}
		if arity, ok := e.dataArity[tt.Name]; ok {
			if arity != 0 {
				return nil, diagnostics.NewError(diagnostics.ErrE005, tt.GetToken(),
					"type %q expects %d arguments, got 0", tt.Name, arity)
			}
			return core.TypeConstructor{Name: tt.Name}, nil
		}
		return nil, diagnostics.NewError(diagnostics.ErrE006, tt.GetToken(),
			"unknown type %q", tt.Name)

	case *ast.AppliedType:
		arity, ok := e.dataArity[tt.Name]
		if !ok {
			if _, prim := e.mod.PrimitiveTypes[tt.Name]; prim {
				return nil, diagnostics.NewError(diagnostics.ErrE005, tt.GetToken(),
					"primitive type %q takes no arguments", tt.Name)
			}
			return nil, diagnostics.NewError(diagnostics.ErrE006, tt.GetToken(),
				"unknown type %q", tt.Name)
		}
		if arity != len(tt.Args) {
			return nil, diagnostics.NewError(diagnostics.ErrE005, tt.GetToken(),
				"type %q expects %d arguments, got %d", tt.Name, arity, len(tt.Args))
		}
		args := make([]core.Type, len(tt.Args))
		for i, a := range tt.Args {
			ca, err := e.typ(a, sc)
			if err != nil {
				return nil, err
			}
			args[i] = ca
		}
		return core.TypeConstructor{Name: tt.Name, TypeArgs: args}, nil

	case *ast.FunctionType:
		dom, err := e.typ(tt.Domain, sc)
		if err != nil {
			return nil, err
		}
		cod, err := e.typ(tt.Codomain, sc)
		if err != nil {
			return nil, err
		}
		return core.TypeArrow{Domain: dom, Codomain: cod, ParamDoc: tt.ParamDoc}, nil

	case *ast.ForallType:
		sc.tyVars = append(sc.tyVars, tt.Var.Value)
		body, err := e.typ(tt.Body, sc)
		sc.tyVars = sc.tyVars[:len(sc.tyVars)-1]
		if err != nil {
			return nil, err
		}
		return core.TypeForall{Body: body}, nil
	}

	return nil, diagnostics.NewError(diagnostics.ErrE006, t.GetToken(),
		"cannot elaborate type %q", t.TokenLiteral())
}
