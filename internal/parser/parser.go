package parser

import (
	"strings"

	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/diagnostics"
	"github.com/funvibe/forall/internal/lexer"
	"github.com/funvibe/forall/internal/token"
)

// Parser is a recursive-descent parser over the token stream. It produces
// surface declarations only; name resolution and annotation enforcement are
// the elaborator's job.
type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	errors []*diagnostics.DiagnosticError

	// pending doc/pragma attach to the next annotation or definition line.
	pendingDoc    string
	pendingPragma *ast.Pragma

	// annotations collects `name : T` lines until the matching `name = e`
	// definition arrives.
	annotations map[string]*annotation
	annOrder    []string
}

type annotation struct {
	tok    token.Token
	typ    ast.Type
	doc    string
	pragma *ast.Pragma
	used   bool
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:           l,
		annotations: make(map[string]*annotation),
	}
	// Read two tokens, so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*diagnostics.DiagnosticError {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, p.peekToken,
		"expected %s, got %q", t, p.peekToken.Lexeme))
	return false
}

// skipNewlinesPeek consumes NEWLINE tokens sitting in peek position. Used
// where the grammar explicitly allows line breaks (inside case braces,
// before 'in', between data alternatives).
func (p *Parser) skipNewlinesPeek() {
	for p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
}

// ParseProgram consumes the whole token stream and returns the surface
// declarations in source order.
func (p *Parser) ParseProgram() []ast.Declaration {
	var decls []ast.Declaration

	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.NEWLINE:
			// Blank line detaches a pending doc comment from whatever
			// follows much later; keep it simple and let it ride.
		case token.DOC_COMMENT:
			p.pendingDoc = p.curToken.Literal
		case token.PRAGMA:
			p.pendingPragma = parsePragma(p.curToken)
			if p.pendingPragma == nil {
				p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP003, p.curToken,
					"malformed pragma %q", p.curToken.Lexeme))
			}
		case token.PRIM_TYPE:
			if d := p.parsePrimTypeDeclaration(); d != nil {
				decls = append(decls, d)
			}
		case token.PRIM_OP:
			if d := p.parsePrimOpDeclaration(); d != nil {
				decls = append(decls, d)
			}
		case token.DATA:
			if d := p.parseDataDeclaration(); d != nil {
				decls = append(decls, d)
			}
		case token.IDENT:
			if d := p.parseNamedLine(); d != nil {
				decls = append(decls, d)
			}
		default:
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, p.curToken,
				"unexpected token %q at top level", p.curToken.Lexeme))
			p.syncToNewline()
		}
		p.nextToken()
	}

	// Annotations that never met a definition.
	for _, name := range p.annOrder {
		ann := p.annotations[name]
		if !ann.used {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, ann.tok,
				"type annotation for %q has no matching definition", name))
		}
	}

	return decls
}

// syncToNewline skips tokens until the next top-level line so one malformed
// declaration does not cascade.
// ParseExpression parses one standalone expression, for interactive input.
// Leftover tokens after the expression are an error.
func (p *Parser) ParseExpression() ast.Expression {
	for p.curTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	if p.curTokenIs(token.EOF) {
		return nil
	}
	expr := p.parseExpression()
	if expr == nil {
		return nil
	}
	for p.peekTokenIs(token.NEWLINE) {
		p.nextToken()
	}
	if !p.peekTokenIs(token.EOF) {
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, p.peekToken,
			"unexpected %q after expression", p.peekToken.Lexeme))
		return nil
	}
	return expr
}

func (p *Parser) syncToNewline() {
	for !p.curTokenIs(token.NEWLINE) && !p.curTokenIs(token.EOF) {
		p.nextToken()
	}
}

// parseNamedLine handles the two forms that start with a lowercase name:
//
//	name : Type
//	name = expr
//
// The first is stashed until its definition arrives; only the second yields
// a declaration.
func (p *Parser) parseNamedLine() ast.Declaration {
	nameTok := p.curToken
	name := &ast.Identifier{Token: nameTok, Value: nameTok.Literal}

	switch p.peekToken.Type {
	case token.COLON:
		p.nextToken() // ':'
		p.nextToken() // first type token
		typ := p.parseType()
		if typ == nil {
			p.syncToNewline()
			return nil
		}
		if prev, ok := p.annotations[nameTok.Literal]; ok && !prev.used {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, nameTok,
				"duplicate type annotation for %q", nameTok.Literal))
		} else {
			p.annotations[nameTok.Literal] = &annotation{
				tok:    nameTok,
				typ:    typ,
				doc:    p.pendingDoc,
				pragma: p.pendingPragma,
			}
			p.annOrder = append(p.annOrder, nameTok.Literal)
		}
		p.pendingDoc = ""
		p.pendingPragma = nil
		return nil

	case token.ASSIGN:
		p.nextToken() // '='
		p.skipNewlinesPeek()
		p.nextToken() // first expression token
		body := p.parseExpression()
		if body == nil {
			p.syncToNewline()
			return nil
		}

		decl := &ast.FuncDeclaration{
			Token:     nameTok,
			Name:      name,
			Body:      body,
			Docstring: p.pendingDoc,
			Pragma:    p.pendingPragma,
		}
		p.pendingDoc = ""
		p.pendingPragma = nil

		if ann, ok := p.annotations[nameTok.Literal]; ok && !ann.used {
			ann.used = true
			decl.TypeAnnotation = ann.typ
			if decl.Docstring == "" {
				decl.Docstring = ann.doc
			}
			if decl.Pragma == nil {
				decl.Pragma = ann.pragma
			}
		}
		return decl

	default:
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, p.peekToken,
			"expected ':' or '=' after %q, got %q", nameTok.Lexeme, p.peekToken.Lexeme))
		p.syncToNewline()
		return nil
	}
}

// parsePrimTypeDeclaration parses: prim_type Name
func (p *Parser) parsePrimTypeDeclaration() ast.Declaration {
	tok := p.curToken
	if !p.expectPeek(token.TYPE_NAME) {
		p.syncToNewline()
		return nil
	}
	decl := &ast.PrimTypeDeclaration{
		Token: tok,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	p.pendingDoc = ""
	p.pendingPragma = nil
	return decl
}

// parsePrimOpDeclaration parses: prim_op name : Type
func (p *Parser) parsePrimOpDeclaration() ast.Declaration {
	tok := p.curToken
	if !p.expectPeek(token.IDENT) {
		p.syncToNewline()
		return nil
	}
	name := &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	if !p.expectPeek(token.COLON) {
		p.syncToNewline()
		return nil
	}
	p.nextToken()
	typ := p.parseType()
	if typ == nil {
		p.syncToNewline()
		return nil
	}
	p.pendingDoc = ""
	p.pendingPragma = nil
	return &ast.PrimOpDeclaration{Token: tok, Name: name, Type: typ}
}

// parseDataDeclaration parses:
//
//	data Name a b = Ctor T1 T2 | Other
//
// Line breaks are allowed after '=' and around '|'.
func (p *Parser) parseDataDeclaration() ast.Declaration {
	tok := p.curToken
	if !p.expectPeek(token.TYPE_NAME) {
		p.syncToNewline()
		return nil
	}
	decl := &ast.DataDeclaration{
		Token:     tok,
		Name:      &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		Docstring: p.pendingDoc,
	}
	p.pendingDoc = ""
	p.pendingPragma = nil

	for p.peekTokenIs(token.IDENT) {
		p.nextToken()
		decl.TypeParams = append(decl.TypeParams, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(token.ASSIGN) {
		p.syncToNewline()
		return nil
	}

	for {
		p.skipNewlinesPeek()
		if !p.expectPeek(token.TYPE_NAME) {
			p.syncToNewline()
			return nil
		}
		ctor := &ast.ConstructorDef{
			Token: p.curToken,
			Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
		}
		for p.peekStartsTypeAtom() {
			p.nextToken()
			field := p.parseTypeAtom()
			if field == nil {
				p.syncToNewline()
				return nil
			}
			ctor.Fields = append(ctor.Fields, field)
		}
		decl.Constructors = append(decl.Constructors, ctor)

		p.skipNewlinesPeekBeforePipe()
		if p.peekTokenIs(token.PIPE) {
			p.nextToken()
			continue
		}
		break
	}

	return decl
}

// skipNewlinesPeekBeforePipe consumes newlines only when a '|' alternative
// follows, so a data declaration can end at end of line without swallowing
// the separator of the next declaration.
func (p *Parser) skipNewlinesPeekBeforePipe() {
	for p.peekTokenIs(token.NEWLINE) {
		save := *p.l
		saveCur, savePeek := p.curToken, p.peekToken
		p.nextToken()
		if p.peekTokenIs(token.PIPE) || p.peekTokenIs(token.NEWLINE) {
			continue
		}
		*p.l = save
		p.curToken, p.peekToken = saveCur, savePeek
		return
	}
}

// parsePragma splits "{-# LLM model=gpt-4,temperature=0.2 #-}" content into
// the pragma name and its raw parameter string.
func parsePragma(tok token.Token) *ast.Pragma {
	text := strings.TrimSpace(tok.Literal)
	if text == "" {
		return nil
	}
	name := text
	params := ""
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		name = text[:i]
		params = strings.TrimSpace(text[i+1:])
	}
	return &ast.Pragma{Token: tok, Name: name, Params: params}
}
