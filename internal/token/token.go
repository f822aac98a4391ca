package token

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string // Raw source text of the token
	Literal string // Decoded value (e.g. string contents without quotes)
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"
	NEWLINE = "NEWLINE"

	// Identifiers and literals
	IDENT     = "IDENT"      // add, x, echo
	TYPE_NAME = "TYPE_NAME"  // Int, Bool, List (uppercase-initial)
	PRIM_REF  = "PRIM_REF"   // $prim.int_plus, $llm.echo
	INT       = "INT"        // 42
	STRING    = "STRING"     // "hello"

	// Documentation and pragmas
	DOC_COMMENT = "DOC_COMMENT" // -- | function-level docstring
	PARAM_DOC   = "PARAM_DOC"   // -- ^ parameter docstring
	PRAGMA      = "PRAGMA"      // {-# LLM model=gpt-4 #-}

	// Operators and delimiters
	ASSIGN   = "="
	COLON    = ":"
	ARROW    = "->"
	LAMBDA   = "\\"
	TYLAMBDA = "/\\"
	DOT      = "."
	PIPE     = "|"
	COMMA    = ","
	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"
	LBRACE   = "{"
	RBRACE   = "}"

	// Keywords
	DATA      = "DATA"
	CASE      = "CASE"
	OF        = "OF"
	LET       = "LET"
	IN        = "IN"
	FORALL    = "FORALL"
	PRIM_TYPE = "PRIM_TYPE"
	PRIM_OP   = "PRIM_OP"
)

var keywords = map[string]TokenType{
	"data":      DATA,
	"case":      CASE,
	"of":        OF,
	"let":       LET,
	"in":        IN,
	"forall":    FORALL,
	"prim_type": PRIM_TYPE,
	"prim_op":   PRIM_OP,
}

// LookupIdent returns the keyword token type for ident, or IDENT/TYPE_NAME
// depending on the initial letter's case.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if len(ident) > 0 && ident[0] >= 'A' && ident[0] <= 'Z' {
		return TYPE_NAME
	}
	return IDENT
}
