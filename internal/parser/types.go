package parser

import (
	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/diagnostics"
	"github.com/funvibe/forall/internal/token"
)

// parseType parses a full type expression starting at the current token:
//
//	forall a. a -> a
//	Int -> Int -> Int
//	String -- ^ input text -> String
//	List a
//
// Arrows associate to the right. An arrow may continue on the next line
// (the usual layout when a parameter doc ends the previous one).
func (p *Parser) parseType() ast.Type {
	if p.curTokenIs(token.FORALL) {
		tok := p.curToken
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		v := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
		if !p.expectPeek(token.DOT) {
			return nil
		}
		p.nextToken()
		body := p.parseType()
		if body == nil {
			return nil
		}
		return &ast.ForallType{Token: tok, Var: v, Body: body}
	}

	tok := p.curToken
	dom := p.parseTypeApp()
	if dom == nil {
		return nil
	}

	paramDoc := ""
	if p.peekTokenIs(token.PARAM_DOC) {
		p.nextToken()
		paramDoc = p.curToken.Literal
	}

	p.skipNewlinesPeekBeforeArrow()
	if p.peekTokenIs(token.ARROW) {
		p.nextToken() // '->'
		p.nextToken() // first token of codomain
		cod := p.parseType()
		if cod == nil {
			return nil
		}
		return &ast.FunctionType{Token: tok, Domain: dom, Codomain: cod, ParamDoc: paramDoc}
	}

	return dom
}

// skipNewlinesPeekBeforeArrow consumes newlines only when an arrow (or a
// trailing parameter doc) continues the type on the next line.
func (p *Parser) skipNewlinesPeekBeforeArrow() {
	for p.peekTokenIs(token.NEWLINE) {
		save := *p.l
		saveCur, savePeek := p.curToken, p.peekToken
		p.nextToken()
		if p.peekTokenIs(token.ARROW) || p.peekTokenIs(token.NEWLINE) {
			continue
		}
		*p.l = save
		p.curToken, p.peekToken = saveCur, savePeek
		return
	}
}

// parseTypeApp parses a type constructor application (List a) or a single
// atom. Arguments are atoms; nested applications need parentheses.
func (p *Parser) parseTypeApp() ast.Type {
	switch p.curToken.Type {
	case token.TYPE_NAME:
		tok := p.curToken
		name := p.curToken.Literal
		var args []ast.Type
		for p.peekStartsTypeAtom() {
			p.nextToken()
			arg := p.parseTypeAtom()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
		}
		if len(args) == 0 {
			return &ast.NamedType{Token: tok, Name: name}
		}
		return &ast.AppliedType{Token: tok, Name: name, Args: args}
	default:
		return p.parseTypeAtom()
	}
}

func (p *Parser) peekStartsTypeAtom() bool {
	switch p.peekToken.Type {
	case token.TYPE_NAME, token.IDENT, token.LPAREN:
		return true
	}
	return false
}

// parseTypeAtom parses a type without application or arrows: a bare name, a
// type variable, or a parenthesized type.
func (p *Parser) parseTypeAtom() ast.Type {
	switch p.curToken.Type {
	case token.TYPE_NAME, token.IDENT:
		return &ast.NamedType{Token: p.curToken, Name: p.curToken.Literal}
	case token.LPAREN:
		p.nextToken()
		t := p.parseType()
		if t == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return t
	default:
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, p.curToken,
			"expected a type, got %q", p.curToken.Lexeme))
		return nil
	}
}
