package parser

import (
	"strconv"

	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/diagnostics"
	"github.com/funvibe/forall/internal/token"
)

// parseExpression parses a full expression starting at the current token.
// Binder forms (lambda, type lambda, let) extend as far right as possible.
func (p *Parser) parseExpression() ast.Expression {
	switch p.curToken.Type {
	case token.LAMBDA:
		return p.parseLambda()
	case token.TYLAMBDA:
		return p.parseTypeLambda()
	case token.LET:
		return p.parseLet()
	case token.CASE:
		return p.parseCase()
	default:
		return p.parseApplication()
	}
}

// parseLambda parses: \x:T -> body
func (p *Parser) parseLambda() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	param := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	typ := p.parseLambdaParamType()
	if typ == nil {
		return nil
	}
	if !p.expectPeek(token.ARROW) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression()
	if body == nil {
		return nil
	}
	return &ast.Lambda{Token: tok, Param: param, ParamType: typ, Body: body}
}

// parseLambdaParamType parses the annotation in `\x:T -> e`. The arrow after
// the annotation belongs to the lambda, so only an atom or application is
// consumed here; arrow-typed parameters need parentheses.
func (p *Parser) parseLambdaParamType() ast.Type {
	if p.curTokenIs(token.FORALL) {
		return p.parseType()
	}
	return p.parseTypeApp()
}

// parseTypeLambda parses: /\a. body
func (p *Parser) parseTypeLambda() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	param := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.DOT) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression()
	if body == nil {
		return nil
	}
	return &ast.TypeLambda{Token: tok, Param: param, Body: body}
}

// parseLet parses: let x = value in body
func (p *Parser) parseLet() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression()
	if value == nil {
		return nil
	}
	p.skipNewlinesPeek()
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression()
	if body == nil {
		return nil
	}
	return &ast.LetExpression{Token: tok, Name: name, Value: value, Body: body}
}

// parseCase parses: case scrut of { Ctor x y -> e | Other -> e }
// Newlines are allowed anywhere inside the braces.
func (p *Parser) parseCase() ast.Expression {
	tok := p.curToken
	p.nextToken()
	scrutinee := p.parseApplication()
	if scrutinee == nil {
		return nil
	}
	if !p.expectPeek(token.OF) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}

	expr := &ast.CaseExpression{Token: tok, Scrutinee: scrutinee}
	for {
		p.skipNewlinesPeek()
		if !p.expectPeek(token.TYPE_NAME) {
			return nil
		}
		branch := &ast.CaseBranch{
			Token: p.curToken,
			Ctor:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
		for p.peekTokenIs(token.IDENT) {
			p.nextToken()
			branch.Vars = append(branch.Vars, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
		}
		if !p.expectPeek(token.ARROW) {
			return nil
		}
		p.skipNewlinesPeek()
		p.nextToken()
		body := p.parseExpression()
		if body == nil {
			return nil
		}
		branch.Body = body
		expr.Branches = append(expr.Branches, branch)

		p.skipNewlinesPeek()
		if p.peekTokenIs(token.PIPE) {
			p.nextToken()
			continue
		}
		break
	}

	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return expr
}

// parseApplication parses a left-associative application spine with
// interleaved type applications:
//
//	f x [Int] y
func (p *Parser) parseApplication() ast.Expression {
	fn := p.parseAtom()
	if fn == nil {
		return nil
	}

	for {
		if p.peekStartsAtom() {
			p.nextToken()
			arg := p.parseAtom()
			if arg == nil {
				return nil
			}
			fn = &ast.Apply{Token: arg.GetToken(), Fn: fn, Arg: arg}
			continue
		}
		if p.peekTokenIs(token.LBRACKET) {
			p.nextToken() // '['
			brTok := p.curToken
			p.nextToken()
			typ := p.parseType()
			if typ == nil {
				return nil
			}
			if !p.expectPeek(token.RBRACKET) {
				return nil
			}
			fn = &ast.TypeApply{Token: brTok, Fn: fn, Type: typ}
			continue
		}
		return fn
	}
}

func (p *Parser) peekStartsAtom() bool {
	switch p.peekToken.Type {
	case token.INT, token.STRING, token.IDENT, token.TYPE_NAME, token.PRIM_REF, token.LPAREN:
		return true
	}
	return false
}

// parseAtom parses a literal, identifier, constructor or primitive
// reference, or a parenthesized expression.
func (p *Parser) parseAtom() ast.Expression {
	switch p.curToken.Type {
	case token.INT:
		v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
		if err != nil {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, p.curToken,
				"invalid integer literal %q", p.curToken.Lexeme))
			return nil
		}
		return &ast.IntegerLiteral{Token: p.curToken, Value: v}
	case token.STRING:
		return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
	case token.IDENT, token.TYPE_NAME, token.PRIM_REF:
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case token.LPAREN:
		p.nextToken()
		e := p.parseExpression()
		if e == nil {
			return nil
		}
		if !p.expectPeek(token.RPAREN) {
			return nil
		}
		return e
	default:
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, p.curToken,
			"expected an expression, got %q", p.curToken.Lexeme))
		return nil
	}
}
