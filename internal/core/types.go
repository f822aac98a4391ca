package core

import (
	"fmt"
	"strings"
)

// Type is the interface for all types in the core calculus. Types are pure
// structural values: substitution produces new values and never mutates in
// place. Bound type variables use de Bruijn indices, so structural equality
// is equality up to consistent renumbering for free.
type Type interface {
	typeNode()
	String() string
}

// TypeVar is a bound type variable (de Bruijn index counted from the nearest
// enclosing TypeForall).
type TypeVar struct {
	Index int
}

// TypeArrow is a function type. ParamDoc carries a per-parameter docstring
// (`-- ^`) straight from the surface annotation; core terms themselves carry
// no doc fields.
type TypeArrow struct {
	Domain   Type
	Codomain Type
	ParamDoc string
}

// TypeForall is a universal quantifier binding one type variable.
type TypeForall struct {
	Body Type
}

// PrimitiveType is a nominal base type registered by a prim_type declaration.
type PrimitiveType struct {
	Name string
}

// TypeConstructor is a (possibly applied) data type.
type TypeConstructor struct {
	Name     string
	TypeArgs []Type
}

func (TypeVar) typeNode()         {}
func (TypeArrow) typeNode()       {}
func (TypeForall) typeNode()      {}
func (PrimitiveType) typeNode()   {}
func (TypeConstructor) typeNode() {}

func (t TypeVar) String() string       { return fmt.Sprintf("t%d", t.Index) }
func (t PrimitiveType) String() string { return t.Name }

func (t TypeArrow) String() string {
	dom := t.Domain.String()
	if _, ok := t.Domain.(TypeArrow); ok {
		dom = "(" + dom + ")"
	}
	return dom + " -> " + t.Codomain.String()
}

func (t TypeForall) String() string {
	return "forall. " + t.Body.String()
}

func (t TypeConstructor) String() string {
	if len(t.TypeArgs) == 0 {
		return t.Name
	}
	parts := make([]string, 0, len(t.TypeArgs))
	for _, a := range t.TypeArgs {
		s := a.String()
		switch a.(type) {
		case TypeArrow, TypeForall:
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return fmt.Sprintf("(%s %s)", t.Name, strings.Join(parts, " "))
}

// TypeEqual reports structural equality. De Bruijn indexing makes this
// equality up to consistent renumbering of bound variables. ParamDoc is
// documentation, not structure, and is ignored.
func TypeEqual(a, b Type) bool {
	switch at := a.(type) {
	case TypeVar:
		bt, ok := b.(TypeVar)
		return ok && at.Index == bt.Index
	case TypeArrow:
		bt, ok := b.(TypeArrow)
		return ok && TypeEqual(at.Domain, bt.Domain) && TypeEqual(at.Codomain, bt.Codomain)
	case TypeForall:
		bt, ok := b.(TypeForall)
		return ok && TypeEqual(at.Body, bt.Body)
	case PrimitiveType:
		bt, ok := b.(PrimitiveType)
		return ok && at.Name == bt.Name
	case TypeConstructor:
		bt, ok := b.(TypeConstructor)
		if !ok || at.Name != bt.Name || len(at.TypeArgs) != len(bt.TypeArgs) {
			return false
		}
		for i := range at.TypeArgs {
			if !TypeEqual(at.TypeArgs[i], bt.TypeArgs[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// ShiftType adds d to every type variable with index >= cutoff. Used when a
// type is moved under (or out from under) a binder.
func ShiftType(t Type, d, cutoff int) Type {
	switch tt := t.(type) {
	case TypeVar:
		if tt.Index >= cutoff {
			return TypeVar{Index: tt.Index + d}
		}
		return tt
	case TypeArrow:
		return TypeArrow{
			Domain:   ShiftType(tt.Domain, d, cutoff),
			Codomain: ShiftType(tt.Codomain, d, cutoff),
			ParamDoc: tt.ParamDoc,
		}
	case TypeForall:
		return TypeForall{Body: ShiftType(tt.Body, d, cutoff+1)}
	case PrimitiveType:
		return tt
	case TypeConstructor:
		args := make([]Type, len(tt.TypeArgs))
		for i, a := range tt.TypeArgs {
			args[i] = ShiftType(a, d, cutoff)
		}
		return TypeConstructor{Name: tt.Name, TypeArgs: args}
	}
	return t
}

// substType replaces variable idx in t with s, shifting s as it passes under
// binders so its free variables keep pointing at the right quantifiers.
func substType(t Type, idx int, s Type) Type {
	switch tt := t.(type) {
	case TypeVar:
		if tt.Index == idx {
			return s
		}
		return tt
	case TypeArrow:
		return TypeArrow{
			Domain:   substType(tt.Domain, idx, s),
			Codomain: substType(tt.Codomain, idx, s),
			ParamDoc: tt.ParamDoc,
		}
	case TypeForall:
		return TypeForall{Body: substType(tt.Body, idx+1, ShiftType(s, 1, 0))}
	case PrimitiveType:
		return tt
	case TypeConstructor:
		args := make([]Type, len(tt.TypeArgs))
		for i, a := range tt.TypeArgs {
			args[i] = substType(a, idx, s)
		}
		return TypeConstructor{Name: tt.Name, TypeArgs: args}
	}
	return t
}

// InstantiateType is the beta step for type application: given the body B of
// a TypeForall and an argument S, it computes B[S/0]. Capture avoidance is
// the usual shift/substitute/unshift dance over indices.
func InstantiateType(body, arg Type) Type {
	return ShiftType(substType(body, 0, ShiftType(arg, 1, 0)), -1, 0)
}

// ArrowSpine splits a curried arrow into its parameter types and final
// result, skipping nothing else. Foralls are not peeled.
func ArrowSpine(t Type) (params []Type, result Type) {
	result = t
	for {
		arrow, ok := result.(TypeArrow)
		if !ok {
			return params, result
		}
		params = append(params, arrow.Domain)
		result = arrow.Codomain
	}
}

// ParamDocs collects the `-- ^` docstrings along a curried arrow, one entry
// per parameter ("" when a parameter carries none).
func ParamDocs(t Type) []string {
	var docs []string
	cur := t
	for {
		if fa, ok := cur.(TypeForall); ok {
			cur = fa.Body
			continue
		}
		arrow, ok := cur.(TypeArrow)
		if !ok {
			return docs
		}
		docs = append(docs, arrow.ParamDoc)
		cur = arrow.Codomain
	}
}
