package parser

import (
	"testing"

	"github.com/funvibe/forall/internal/lexer"
)

// FuzzParseProgram feeds arbitrary input through the lexer and parser. Bad
// input must surface as positioned diagnostics, never as a panic or a hang.
func FuzzParseProgram(f *testing.F) {
	f.Add("id : forall a. a -> a\nid = /\\a. \\x:a -> x\n")
	f.Add("data List a = Nil | Cons a (List a)\n")
	f.Add("{-# LLM model=gpt-4 #-}\nf : String -- ^ in -> String\nf = \\s:String -> s\n")
	f.Add("main = case x of { True -> 1 | False -> 2 }\n")
	f.Add("prim_op p : Int -> Int\ng = $prim.p (let y = 1 in y) [Int]\n")
	f.Add(": = -> \\ /\\ { } [ ] | \"unterminated")

	f.Fuzz(func(t *testing.T, input string) {
		p := New(lexer.New(input))
		decls := p.ParseProgram()

		for _, err := range p.Errors() {
			if err.Code == "" {
				t.Errorf("diagnostic without a code: %v", err)
			}
		}
		for _, d := range decls {
			if d == nil {
				t.Error("ParseProgram returned a nil declaration")
			}
		}
	})
}
