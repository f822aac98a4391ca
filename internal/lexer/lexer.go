package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/forall/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
		l.ch = r
		l.position = l.readPosition
		l.readPosition += w
		l.column++
		return
	}

	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespace()

	switch l.ch {
	case '\n':
		tok = newToken(token.NEWLINE, l.ch, l.line, l.column)
	case '=':
		tok = newToken(token.ASSIGN, l.ch, l.line, l.column)
	case ':':
		tok = newToken(token.COLON, l.ch, l.line, l.column)
	case '|':
		tok = newToken(token.PIPE, l.ch, l.line, l.column)
	case ',':
		tok = newToken(token.COMMA, l.ch, l.line, l.column)
	case '.':
		tok = newToken(token.DOT, l.ch, l.line, l.column)
	case '(':
		tok = newToken(token.LPAREN, l.ch, l.line, l.column)
	case ')':
		tok = newToken(token.RPAREN, l.ch, l.line, l.column)
	case '[':
		tok = newToken(token.LBRACKET, l.ch, l.line, l.column)
	case ']':
		tok = newToken(token.RBRACKET, l.ch, l.line, l.column)
	case '}':
		tok = newToken(token.RBRACE, l.ch, l.line, l.column)
	case '\\':
		tok = newToken(token.LAMBDA, l.ch, l.line, l.column)
	case '/':
		if l.peekChar() == '\\' {
			line, col := l.line, l.column
			l.readChar()
			tok = token.Token{Type: token.TYLAMBDA, Lexeme: "/\\", Literal: "/\\", Line: line, Column: col}
		} else {
			tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
		}
	case '-':
		if l.peekChar() == '>' {
			line, col := l.line, l.column
			l.readChar()
			tok = token.Token{Type: token.ARROW, Lexeme: "->", Literal: "->", Line: line, Column: col}
		} else if l.peekChar() == '-' {
			return l.readLineComment()
		} else {
			tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
		}
	case '{':
		if l.peekChar() == '-' {
			return l.readBlockComment()
		}
		tok = newToken(token.LBRACE, l.ch, l.line, l.column)
	case '"':
		line, col := l.line, l.column
		literal := l.readString()
		return token.Token{Type: token.STRING, Lexeme: `"` + literal + `"`, Literal: literal, Line: line, Column: col}
	case '$':
		line, col := l.line, l.column
		name := l.readPrimRef()
		return token.Token{Type: token.PRIM_REF, Lexeme: name, Literal: name, Line: line, Column: col}
	case 0:
		tok = token.Token{Type: token.EOF, Lexeme: "", Literal: "", Line: l.line, Column: l.column}
	default:
		if isLetter(l.ch) {
			line, col := l.line, l.column
			ident := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(ident), Lexeme: ident, Literal: ident, Line: line, Column: col}
		}
		if unicode.IsDigit(l.ch) {
			line, col := l.line, l.column
			num := l.readNumber()
			return token.Token{Type: token.INT, Lexeme: num, Literal: num, Line: line, Column: col}
		}
		tok = newToken(token.ILLEGAL, l.ch, l.line, l.column)
	}

	l.readChar()
	return tok
}

// readLineComment consumes a `--` comment. `-- |` and `-- ^` are doc
// comments and become tokens; anything else is skipped entirely.
func (l *Lexer) readLineComment() token.Token {
	line, col := l.line, l.column
	l.readChar() // first '-'
	l.readChar() // second '-'

	marker := rune(0)
	l.skipSpaces()
	if l.ch == '|' || l.ch == '^' {
		marker = l.ch
		l.readChar()
	}

	// A `-- ^` doc may sit inline inside a type annotation
	// (String -- ^ input text -> String), so it ends at `->` as well as at
	// end of line. Function docs (`-- |`) always run to end of line.
	var b strings.Builder
	for l.ch != '\n' && l.ch != 0 {
		if marker == '^' && l.ch == '-' && l.peekChar() == '>' {
			break
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	text := strings.TrimSpace(b.String())

	switch marker {
	case '|':
		return token.Token{Type: token.DOC_COMMENT, Lexeme: "-- | " + text, Literal: text, Line: line, Column: col}
	case '^':
		return token.Token{Type: token.PARAM_DOC, Lexeme: "-- ^ " + text, Literal: text, Line: line, Column: col}
	}
	// Plain comment: resume tokenizing after it.
	return l.NextToken()
}

// readBlockComment consumes `{- ... -}`. The pragma form `{-# ... #-}` is
// preserved as a PRAGMA token with the inner text as its literal.
func (l *Lexer) readBlockComment() token.Token {
	line, col := l.line, l.column
	l.readChar() // '{'
	l.readChar() // '-'

	isPragma := l.ch == '#'
	if isPragma {
		l.readChar()
	}

	var b strings.Builder
	for {
		if l.ch == 0 {
			break
		}
		if isPragma && l.ch == '#' && l.peekChar() == '-' {
			l.readChar() // '#'
			l.readChar() // '-'
			if l.ch == '}' {
				l.readChar()
				break
			}
			b.WriteString("#-")
			continue
		}
		if !isPragma && l.ch == '-' && l.peekChar() == '}' {
			l.readChar()
			l.readChar()
			break
		}
		b.WriteRune(l.ch)
		l.readChar()
	}

	if isPragma {
		text := strings.TrimSpace(b.String())
		return token.Token{Type: token.PRAGMA, Lexeme: "{-# " + text + " #-}", Literal: text, Line: line, Column: col}
	}
	return l.NextToken()
}

func (l *Lexer) readString() string {
	var b strings.Builder
	l.readChar() // opening quote
	for l.ch != '"' && l.ch != 0 {
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '"':
				b.WriteRune('"')
			case '\\':
				b.WriteRune('\\')
			default:
				b.WriteRune(l.ch)
			}
			l.readChar()
			continue
		}
		b.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // closing quote
	return b.String()
}

// readPrimRef reads a `$prim.name` / `$llm.name` reference as one token.
func (l *Lexer) readPrimRef() string {
	start := l.position
	l.readChar() // '$'
	for isLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '.' || l.ch == '_' {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || unicode.IsDigit(l.ch) || l.ch == '_' || l.ch == '\'' {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber() string {
	start := l.position
	for unicode.IsDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch) || ch == '_'
}

func newToken(tokenType token.TokenType, ch rune, line, column int) token.Token {
	return token.Token{Type: tokenType, Lexeme: string(ch), Literal: string(ch), Line: line, Column: column}
}
