package ast

import (
	"github.com/funvibe/forall/internal/token"
)

// Identifier represents an identifier, e.g., a variable name. Reserved
// `$prim.` / `$llm.` references arrive here too; the elaborator peels the
// prefix before anything else looks at the name.
type Identifier struct {
	Token token.Token // the token.IDENT / token.TYPE_NAME / token.PRIM_REF token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntegerLiteral represents an integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntegerLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

// StringLiteral represents a string, e.g. "hello"
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

// Lambda is a term abstraction with a mandatory parameter annotation:
// \x:Int -> body
type Lambda struct {
	Token     token.Token // The '\' token
	Param     *Identifier
	ParamType Type
	Body      Expression
}

func (l *Lambda) expressionNode()      {}
func (l *Lambda) TokenLiteral() string { return l.Token.Lexeme }
func (l *Lambda) GetToken() token.Token {
	if l == nil {
		return token.Token{}
	}
	return l.Token
}

// TypeLambda is a type abstraction: /\a. body
type TypeLambda struct {
	Token token.Token // The '/\' token
	Param *Identifier
	Body  Expression
}

func (tl *TypeLambda) expressionNode()      {}
func (tl *TypeLambda) TokenLiteral() string { return tl.Token.Lexeme }
func (tl *TypeLambda) GetToken() token.Token {
	if tl == nil {
		return token.Token{}
	}
	return tl.Token
}

// Apply is a term application: f x
type Apply struct {
	Token token.Token
	Fn    Expression
	Arg   Expression
}

func (a *Apply) expressionNode()      {}
func (a *Apply) TokenLiteral() string { return a.Token.Lexeme }
func (a *Apply) GetToken() token.Token {
	if a == nil {
		return token.Token{}
	}
	return a.Token
}

// TypeApply is an explicit type application: e [T]
type TypeApply struct {
	Token token.Token // The '[' token
	Fn    Expression
	Type  Type
}

func (ta *TypeApply) expressionNode()      {}
func (ta *TypeApply) TokenLiteral() string { return ta.Token.Lexeme }
func (ta *TypeApply) GetToken() token.Token {
	if ta == nil {
		return token.Token{}
	}
	return ta.Token
}

// LetExpression binds a local value: let x = e1 in e2
type LetExpression struct {
	Token token.Token // The 'let' token
	Name  *Identifier
	Value Expression
	Body  Expression
}

func (le *LetExpression) expressionNode()      {}
func (le *LetExpression) TokenLiteral() string { return le.Token.Lexeme }
func (le *LetExpression) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}

// CaseBranch is one arm of a case expression: Ctor x y -> body
type CaseBranch struct {
	Token token.Token
	Ctor  *Identifier
	Vars  []*Identifier
	Body  Expression
}

// CaseExpression is pattern-match dispatch:
// case e of { True -> a | False -> b }
type CaseExpression struct {
	Token     token.Token // The 'case' token
	Scrutinee Expression
	Branches  []*CaseBranch
}

func (ce *CaseExpression) expressionNode()      {}
func (ce *CaseExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CaseExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
