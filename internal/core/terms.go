package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is the interface for all core calculus terms. Term variables use de
// Bruijn indices; names survive only in Global, ConstructorApp, and PrimOp
// references, which are resolved against Module tables, never scopes.
type Term interface {
	termNode()
	String() string
}

// Var is a bound term variable (de Bruijn index).
type Var struct {
	Index int
}

// Abs is a lambda abstraction with an explicit parameter type.
type Abs struct {
	ParamType Type
	Body      Term
}

// App is term application.
type App struct {
	Fn  Term
	Arg Term
}

// TypeAbs is a type abstraction (/\a. e).
type TypeAbs struct {
	Body Term
}

// TypeApp is a type application (e [T]).
type TypeApp struct {
	Term Term
	Type Type
}

// Let binds a value in a body (one de Bruijn binder, like Abs).
type Let struct {
	Value Term
	Body  Term
}

type IntLit struct {
	Value int64
}

type StringLit struct {
	Value string
}

// ConstructorApp is a saturated constructor application. The elaborator
// guarantees Args matches the constructor's declared arity.
type ConstructorApp struct {
	Ctor string
	Args []Term
}

// Branch is one arm of a Case: constructor tag, its field count, and a body
// with Arity fresh binders (fields bound positionally).
type Branch struct {
	Ctor  string
	Arity int
	Body  Term
}

// Case is pattern-match dispatch over a data value. Branches are an open
// list; exhaustiveness is not enforced here (a missing branch is a runtime
// match failure).
type Case struct {
	Scrutinee Term
	Branches  []Branch
}

// PrimOp is a reference into the runtime registries. Names like "int_plus"
// dispatch natively; names with the "llm." prefix dispatch through the LLM
// registry. The checker types both by table lookup only.
type PrimOp struct {
	Name string
}

// Global is a reference to a module-level declaration.
type Global struct {
	Name string
}

func (Var) termNode()            {}
func (Abs) termNode()            {}
func (App) termNode()            {}
func (TypeAbs) termNode()        {}
func (TypeApp) termNode()        {}
func (Let) termNode()            {}
func (IntLit) termNode()         {}
func (StringLit) termNode()      {}
func (ConstructorApp) termNode() {}
func (Case) termNode()           {}
func (PrimOp) termNode()         {}
func (Global) termNode()         {}

func (t Var) String() string       { return "#" + strconv.Itoa(t.Index) }
func (t IntLit) String() string    { return strconv.FormatInt(t.Value, 10) }
func (t StringLit) String() string { return strconv.Quote(t.Value) }
func (t PrimOp) String() string    { return "$prim." + t.Name }
func (t Global) String() string    { return t.Name }

func (t Abs) String() string {
	return fmt.Sprintf("(\\:%s -> %s)", t.ParamType, t.Body)
}

func (t App) String() string {
	return fmt.Sprintf("(%s %s)", t.Fn, t.Arg)
}

func (t TypeAbs) String() string {
	return fmt.Sprintf("(/\\. %s)", t.Body)
}

func (t TypeApp) String() string {
	return fmt.Sprintf("(%s [%s])", t.Term, t.Type)
}

func (t Let) String() string {
	return fmt.Sprintf("(let %s in %s)", t.Value, t.Body)
}

func (t ConstructorApp) String() string {
	if len(t.Args) == 0 {
		return t.Ctor
	}
	parts := make([]string, 0, len(t.Args)+1)
	parts = append(parts, t.Ctor)
	for _, a := range t.Args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (t Case) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "case %s of {", t.Scrutinee)
	for i, br := range t.Branches {
		if i > 0 {
			b.WriteString(" |")
		}
		fmt.Fprintf(&b, " %s/%d -> %s", br.Ctor, br.Arity, br.Body)
	}
	b.WriteString(" }")
	return b.String()
}
