package lexer

import (
	"testing"

	"github.com/funvibe/forall/internal/token"
)

type want struct {
	typ     token.TokenType
	literal string
}

func collect(t *testing.T, input string) []token.Token {
	t.Helper()
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks
		}
		if len(toks) > 1000 {
			t.Fatal("lexer did not terminate")
		}
	}
}

func expectTokens(t *testing.T, input string, wants []want) {
	t.Helper()
	toks := collect(t, input)
	if len(toks) != len(wants) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(wants), toks)
	}
	for i, w := range wants {
		if toks[i].Type != w.typ {
			t.Errorf("token %d: type %q, want %q (literal %q)", i, toks[i].Type, w.typ, toks[i].Literal)
		}
		if toks[i].Literal != w.literal {
			t.Errorf("token %d: literal %q, want %q", i, toks[i].Literal, w.literal)
		}
	}
}

func TestDeclarationTokens(t *testing.T) {
	input := "add : Int -> Int\nadd = \\x:Int -> x"
	expectTokens(t, input, []want{
		{token.IDENT, "add"},
		{token.COLON, ":"},
		{token.TYPE_NAME, "Int"},
		{token.ARROW, "->"},
		{token.TYPE_NAME, "Int"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "add"},
		{token.ASSIGN, "="},
		{token.LAMBDA, "\\"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.TYPE_NAME, "Int"},
		{token.ARROW, "->"},
		{token.IDENT, "x"},
		{token.EOF, ""},
	})
}

func TestTypeLambdaAndBrackets(t *testing.T) {
	input := `/\a. \x:a -> id [Int] 1`
	expectTokens(t, input, []want{
		{token.TYLAMBDA, "/\\"},
		{token.IDENT, "a"},
		{token.DOT, "."},
		{token.LAMBDA, "\\"},
		{token.IDENT, "x"},
		{token.COLON, ":"},
		{token.IDENT, "a"},
		{token.ARROW, "->"},
		{token.IDENT, "id"},
		{token.LBRACKET, "["},
		{token.TYPE_NAME, "Int"},
		{token.RBRACKET, "]"},
		{token.INT, "1"},
		{token.EOF, ""},
	})
}

func TestKeywords(t *testing.T) {
	input := "data case of let in forall prim_type prim_op"
	expectTokens(t, input, []want{
		{token.DATA, "data"},
		{token.CASE, "case"},
		{token.OF, "of"},
		{token.LET, "let"},
		{token.IN, "in"},
		{token.FORALL, "forall"},
		{token.PRIM_TYPE, "prim_type"},
		{token.PRIM_OP, "prim_op"},
		{token.EOF, ""},
	})
}

func TestPrimReference(t *testing.T) {
	input := "$prim.int_plus 1 $llm.echo"
	expectTokens(t, input, []want{
		{token.PRIM_REF, "$prim.int_plus"},
		{token.INT, "1"},
		{token.PRIM_REF, "$llm.echo"},
		{token.EOF, ""},
	})
}

func TestDocComments(t *testing.T) {
	input := "-- | Adds two numbers.\nadd : Int -> Int"
	expectTokens(t, input, []want{
		{token.DOC_COMMENT, "Adds two numbers."},
		{token.NEWLINE, "\n"},
		{token.IDENT, "add"},
		{token.COLON, ":"},
		{token.TYPE_NAME, "Int"},
		{token.ARROW, "->"},
		{token.TYPE_NAME, "Int"},
		{token.EOF, ""},
	})
}

func TestInlineParamDocStopsAtArrow(t *testing.T) {
	input := "f : String -- ^ input text -> String"
	expectTokens(t, input, []want{
		{token.IDENT, "f"},
		{token.COLON, ":"},
		{token.TYPE_NAME, "String"},
		{token.PARAM_DOC, "input text"},
		{token.ARROW, "->"},
		{token.TYPE_NAME, "String"},
		{token.EOF, ""},
	})
}

func TestPlainCommentsAreSkipped(t *testing.T) {
	input := "x -- nothing to see\ny {- block\ncomment -} z"
	expectTokens(t, input, []want{
		{token.IDENT, "x"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "y"},
		{token.IDENT, "z"},
		{token.EOF, ""},
	})
}

func TestPragma(t *testing.T) {
	input := "{-# LLM model=gpt-4, temperature=0.2 #-}\nf = 1"
	toks := collect(t, input)
	if toks[0].Type != token.PRAGMA {
		t.Fatalf("expected PRAGMA, got %q", toks[0].Type)
	}
	if toks[0].Literal != "LLM model=gpt-4, temperature=0.2" {
		t.Errorf("pragma literal = %q", toks[0].Literal)
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"line\nbreak" "tab\there" "quote\"inside"`
	toks := collect(t, input)
	got := []string{toks[0].Literal, toks[1].Literal, toks[2].Literal}
	wants := []string{"line\nbreak", "tab\there", "quote\"inside"}
	for i := range wants {
		if got[i] != wants[i] {
			t.Errorf("string %d: %q, want %q", i, got[i], wants[i])
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	input := "a\n  b"
	toks := collect(t, input)
	a, b := toks[0], toks[2]
	if a.Line != 1 || a.Column != 1 {
		t.Errorf("a at %d:%d, want 1:1", a.Line, a.Column)
	}
	if b.Line != 2 || b.Column != 3 {
		t.Errorf("b at %d:%d, want 2:3", b.Line, b.Column)
	}
}

func TestIllegalCharacter(t *testing.T) {
	toks := collect(t, "a ? b")
	if toks[1].Type != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %q", toks[1].Type)
	}
}
