package ast

import (
	"github.com/funvibe/forall/internal/token"
)

// Type is a surface type expression. The elaborator turns these into core
// types, resolving lowercase names against enclosing forall binders (de
// Bruijn) and uppercase names against prim_type / data declarations.
type Type interface {
	Node
	typeNode()
	GetToken() token.Token
}

// NamedType is a bare type name: Int, Bool, a. Case of the first letter
// decides whether it can be a bound type variable (lowercase) or must be a
// declared type (uppercase).
type NamedType struct {
	Token token.Token
	Name  string
}

func (nt *NamedType) typeNode()            {}
func (nt *NamedType) TokenLiteral() string { return nt.Token.Lexeme }
func (nt *NamedType) GetToken() token.Token {
	if nt == nil {
		return token.Token{}
	}
	return nt.Token
}

// FunctionType is an arrow: T1 -> T2. ParamDoc carries an inline `-- ^` doc
// for the parameter, e.g. String -- ^ input text -> String.
type FunctionType struct {
	Token    token.Token
	Domain   Type
	Codomain Type
	ParamDoc string
}

func (ft *FunctionType) typeNode()            {}
func (ft *FunctionType) TokenLiteral() string { return ft.Token.Lexeme }
func (ft *FunctionType) GetToken() token.Token {
	if ft == nil {
		return token.Token{}
	}
	return ft.Token
}

// ForallType is a universal quantifier: forall a. T
type ForallType struct {
	Token token.Token
	Var   *Identifier
	Body  Type
}

func (ft *ForallType) typeNode()            {}
func (ft *ForallType) TokenLiteral() string { return ft.Token.Lexeme }
func (ft *ForallType) GetToken() token.Token {
	if ft == nil {
		return token.Token{}
	}
	return ft.Token
}

// AppliedType is a type constructor application: List a, Pair Int String.
type AppliedType struct {
	Token token.Token
	Name  string
	Args  []Type
}

func (at *AppliedType) typeNode()            {}
func (at *AppliedType) TokenLiteral() string { return at.Token.Lexeme }
func (at *AppliedType) GetToken() token.Token {
	if at == nil {
		return token.Token{}
	}
	return at.Token
}
