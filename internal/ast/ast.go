package ast

import (
	"github.com/funvibe/forall/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary
// token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Declaration is a top-level surface declaration handed to the elaborator.
// Name resolution, annotation enforcement, and pragma handling all happen
// there; the parser only guarantees structural validity.
type Declaration interface {
	Node
	declarationNode()
	GetToken() token.Token
	DeclName() string
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Pragma is a raw `{-# Name params #-}` attachment. Params is kept as the
// raw comma-separated string (e.g. "model=gpt-4,temperature=0.2").
type Pragma struct {
	Token  token.Token
	Name   string
	Params string
}

// FuncDeclaration is a global term binding:
//
//	-- | docstring
//	{-# LLM model=gpt-4 #-}
//	name : T
//	name = expr
//
// TypeAnnotation is nil when the source omitted the `name : T` line; the
// elaborator rejects that case, never the parser.
type FuncDeclaration struct {
	Token          token.Token
	Name           *Identifier
	TypeAnnotation Type
	Body           Expression
	Docstring      string
	Pragma         *Pragma
}

func (fd *FuncDeclaration) declarationNode()     {}
func (fd *FuncDeclaration) TokenLiteral() string { return fd.Token.Lexeme }
func (fd *FuncDeclaration) DeclName() string     { return fd.Name.Value }
func (fd *FuncDeclaration) GetToken() token.Token {
	if fd == nil {
		return token.Token{}
	}
	return fd.Token
}

// ConstructorDef is one alternative of a data declaration.
type ConstructorDef struct {
	Token  token.Token
	Name   *Identifier
	Fields []Type
}

// DataDeclaration declares an algebraic data type:
//
//	data List a = Cons a (List a) | Nil
type DataDeclaration struct {
	Token        token.Token
	Name         *Identifier
	TypeParams   []*Identifier
	Constructors []*ConstructorDef
	Docstring    string
}

func (dd *DataDeclaration) declarationNode()     {}
func (dd *DataDeclaration) TokenLiteral() string { return dd.Token.Lexeme }
func (dd *DataDeclaration) DeclName() string     { return dd.Name.Value }
func (dd *DataDeclaration) GetToken() token.Token {
	if dd == nil {
		return token.Token{}
	}
	return dd.Token
}

// PrimTypeDeclaration registers a nominal primitive type: prim_type Int
type PrimTypeDeclaration struct {
	Token token.Token
	Name  *Identifier
}

func (pt *PrimTypeDeclaration) declarationNode()     {}
func (pt *PrimTypeDeclaration) TokenLiteral() string { return pt.Token.Lexeme }
func (pt *PrimTypeDeclaration) DeclName() string     { return pt.Name.Value }
func (pt *PrimTypeDeclaration) GetToken() token.Token {
	if pt == nil {
		return token.Token{}
	}
	return pt.Token
}

// PrimOpDeclaration registers a callable signature: prim_op int_plus : Int -> Int -> Int
type PrimOpDeclaration struct {
	Token token.Token
	Name  *Identifier
	Type  Type
}

func (po *PrimOpDeclaration) declarationNode()     {}
func (po *PrimOpDeclaration) TokenLiteral() string { return po.Token.Lexeme }
func (po *PrimOpDeclaration) DeclName() string     { return po.Name.Value }
func (po *PrimOpDeclaration) GetToken() token.Token {
	if po == nil {
		return token.Token{}
	}
	return po.Token
}
