package elaborator

import (
	"fmt"

	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
)

// Elaborate turns surface declarations into a core Module: names become de
// Bruijn indices or table references, annotations are enforced, and
// primitive/LLM pragmas are resolved. Elaboration is a pure function of its
// input; all scope-tracking state lives in the call and dies with it.
//
// Semantic errors accumulate per declaration into Module.Errors so one call
// surfaces every problem in the module. Within a single declaration body the
// first error aborts that body (declarations are small; a cascade of
// follow-on errors from one bad identifier helps nobody).
func Elaborate(name string, decls []ast.Declaration) *core.Module {
	e := &elaborator{
		mod:       core.NewModule(name),
		dataArity: make(map[string]int),
		ctorArity: make(map[string]int),
	}
	for _, d := range decls {
		e.declare(d)
	}
	return e.mod
}

// ElaborateExpr resolves a single expression against an already-elaborated
// module, for the REPL. The module is not modified.
func ElaborateExpr(mod *core.Module, expr ast.Expression) (core.Term, *diagnostics.DiagnosticError) {
	e := &elaborator{
		mod:       mod,
		dataArity: make(map[string]int),
		ctorArity: make(map[string]int),
	}
	e.rebuildArities()
	return e.term(expr, newScope())
}

type elaborator struct {
	mod *core.Module

	// dataArity tracks declared data types and their parameter counts;
	// ctorArity tracks constructor field counts. Both are derivable from
	// the module tables but kept flat for lookup during elaboration.
	dataArity map[string]int
	ctorArity map[string]int
}

// scope carries the lexical state for one declaration body: term binders and
// type binders, innermost last.
type scope struct {
	vars   []string
	tyVars []string
}

func newScope() *scope { return &scope{} }

func (s *scope) lookupVar(name string) (int, bool) {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if s.vars[i] == name {
			return len(s.vars) - 1 - i, true
		}
	}
	return 0, false
}

func (s *scope) lookupTyVar(name string) (int, bool) {
	for i := len(s.tyVars) - 1; i >= 0; i-- {
		if s.tyVars[i] == name {
			return len(s.tyVars) - 1 - i, true
		}
	}
	return 0, false
}

func (e *elaborator) errorf(code diagnostics.ErrorCode, node ast.TokenProvider, format string, args ...interface{}) {
	e.mod.Errors = append(e.mod.Errors, diagnostics.NewError(code, node.GetToken(), format, args...))
}

// rebuildArities reconstructs the arity tables from module tables, for
// expression elaboration against a finished module.
func (e *elaborator) rebuildArities() {
	for _, d := range e.mod.Declarations {
		if dd, ok := d.(core.DataDeclaration); ok {
			e.dataArity[dd.Name] = len(dd.TypeParams)
			for _, c := range dd.Constructors {
				e.ctorArity[c.Name] = len(c.Fields)
			}
		}
	}
}

func (e *elaborator) declare(d ast.Declaration) {
	switch decl := d.(type) {
	case *ast.PrimTypeDeclaration:
		e.declarePrimType(decl)
	case *ast.PrimOpDeclaration:
		e.declarePrimOp(decl)
	case *ast.DataDeclaration:
		e.declareData(decl)
	case *ast.FuncDeclaration:
		e.declareFunc(decl)
	}
}

func (e *elaborator) declarePrimType(decl *ast.PrimTypeDeclaration) {
	name := decl.Name.Value
	if e.typeNameTaken(name) {
		e.errorf(diagnostics.ErrE002, decl, "duplicate declaration of type %q", name)
		return
	}
	e.mod.PrimitiveTypes[name] = core.PrimitiveType{Name: name}
	e.mod.Declarations = append(e.mod.Declarations, core.PrimTypeDeclaration{Name: name})
}

func (e *elaborator) declarePrimOp(decl *ast.PrimOpDeclaration) {
	name := decl.Name.Value
	key := config.PrimPrefix + name
	if _, ok := e.mod.GlobalTypes[key]; ok {
		e.errorf(diagnostics.ErrE002, decl, "duplicate declaration of prim_op %q", name)
		return
	}
	typ, err := e.typ(decl.Type, newScope())
	if err != nil {
		e.mod.Errors = append(e.mod.Errors, err)
		return
	}
	e.mod.GlobalTypes[key] = typ
	e.mod.Declarations = append(e.mod.Declarations, core.PrimOpDeclaration{Name: name, Type: typ})
}

func (e *elaborator) declareData(decl *ast.DataDeclaration) {
	name := decl.Name.Value
	if e.typeNameTaken(name) {
		e.errorf(diagnostics.ErrE002, decl, "duplicate declaration of type %q", name)
		return
	}

	params := make([]string, len(decl.TypeParams))
	sc := newScope()
	for i, p := range decl.TypeParams {
		params[i] = p.Value
		sc.tyVars = append(sc.tyVars, p.Value)
	}
	k := len(params)

	// Register the data type up front so recursive constructor fields
	// (Cons a (List a)) resolve.
	e.dataArity[name] = k

	// The owning data type applied to its own parameters, as seen from
	// inside the constructor type's forall nest.
	resultArgs := make([]core.Type, k)
	for j := 0; j < k; j++ {
		resultArgs[j] = core.TypeVar{Index: k - 1 - j}
	}
	result := core.TypeConstructor{Name: name, TypeArgs: resultArgs}

	coreDecl := core.DataDeclaration{Name: name, TypeParams: params}
	ok := true
	for _, ctor := range decl.Constructors {
		cname := ctor.Name.Value
		if _, dup := e.mod.ConstructorTypes[cname]; dup {
			e.errorf(diagnostics.ErrE002, ctor.Name, "duplicate constructor %q", cname)
			ok = false
			continue
		}

		fields := make([]core.Type, 0, len(ctor.Fields))
		var failed bool
		for _, f := range ctor.Fields {
			ft, err := e.typ(f, sc)
			if err != nil {
				e.mod.Errors = append(e.mod.Errors, err)
				failed = true
				break
			}
			fields = append(fields, ft)
		}
		if failed {
			ok = false
			continue
		}

		// Curried constructor type, forall-wrapped once per type parameter.
		var ctype core.Type = result
		for i := len(fields) - 1; i >= 0; i-- {
			ctype = core.TypeArrow{Domain: fields[i], Codomain: ctype}
		}
		for j := 0; j < k; j++ {
			ctype = core.TypeForall{Body: ctype}
		}

		e.mod.ConstructorTypes[cname] = ctype
		e.ctorArity[cname] = len(fields)
		coreDecl.Constructors = append(coreDecl.Constructors, core.Constructor{Name: cname, Fields: fields})
	}

	if ok || len(coreDecl.Constructors) > 0 {
		e.mod.Declarations = append(e.mod.Declarations, coreDecl)
	}
}

func (e *elaborator) declareFunc(decl *ast.FuncDeclaration) {
	name := decl.Name.Value

	if decl.TypeAnnotation == nil {
		// Never silently defaulted: the declaration is rejected and leaves
		// no trace in GlobalTypes.
		e.errorf(diagnostics.ErrE003, decl, "missing type annotation for %q", name)
		return
	}
	if _, dup := e.mod.GlobalTypes[name]; dup {
		e.errorf(diagnostics.ErrE002, decl, "duplicate declaration of %q", name)
		return
	}

	declaredType, terr := e.typ(decl.TypeAnnotation, newScope())
	if terr != nil {
		e.mod.Errors = append(e.mod.Errors, terr)
		return
	}

	// Register the type before elaborating the body so the function can
	// recurse through Global(name).
	e.mod.GlobalTypes[name] = declaredType
	if decl.Docstring != "" {
		e.mod.Docstrings[name] = decl.Docstring
	}

	body, berr := e.term(decl.Body, newScope())
	if berr != nil {
		// The declared type stays registered (it is well-formed), but a
		// declaration with a broken body is not executable.
		e.mod.Errors = append(e.mod.Errors, berr)
		return
	}

	if decl.Pragma != nil {
		if decl.Pragma.Name != config.LLMPragmaName {
			e.mod.Warnings = append(e.mod.Warnings,
				fmt.Sprintf("%s: unrecognized pragma %q ignored", name, decl.Pragma.Name))
		} else {
			e.declareLLMFunc(decl, name, declaredType, body)
			return
		}
	}

	e.mod.Declarations = append(e.mod.Declarations, core.TermDeclaration{
		Name: name,
		Type: declaredType,
		Body: body,
	})
}

// declareLLMFunc finishes a declaration carrying an LLM pragma: the body the
// user wrote becomes the fallback, the declaration's executable body becomes
// a PrimOp into the LLM registry, and the compile-time metadata (docs +
// declared argument types) is recorded for the runtime to build its closure
// from.
func (e *elaborator) declareLLMFunc(decl *ast.FuncDeclaration, name string, declaredType core.Type, fallback core.Term) {
	// Peel foralls to reach the arrow spine; LLM prompts describe the
	// instantiated shape.
	spine := declaredType
	for {
		if fa, ok := spine.(core.TypeForall); ok {
			spine = fa.Body
			continue
		}
		break
	}
	argTypes, returnType := core.ArrowSpine(spine)
	argDocs := core.ParamDocs(declaredType)
	for len(argDocs) < len(argTypes) {
		argDocs = append(argDocs, "")
	}

	meta := &core.LLMMetadata{
		FunctionName:      name,
		FunctionDocstring: decl.Docstring,
		ArgTypes:          argTypes,
		ArgDocstrings:     argDocs,
		ReturnType:        returnType,
		PragmaParams:      decl.Pragma.Params,
		Fallback:          fallback,
	}
	e.mod.LLMFunctions[name] = meta
	e.mod.GlobalTypes[config.LLMPrefix+name] = declaredType

	e.mod.Declarations = append(e.mod.Declarations, core.TermDeclaration{
		Name: name,
		Type: declaredType,
		Body: core.PrimOp{Name: config.LLMOpPrefix + name},
	})
}

func (e *elaborator) typeNameTaken(name string) bool {
	if _, ok := e.mod.PrimitiveTypes[name]; ok {
		return true
	}
	_, ok := e.dataArity[name]
	return ok
}
