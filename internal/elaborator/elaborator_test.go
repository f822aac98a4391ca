package elaborator

import (
	"testing"

	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
	"github.com/funvibe/forall/internal/lexer"
	"github.com/funvibe/forall/internal/parser"
)

const basePrelude = `prim_type Int
prim_type String
data Bool = True | False
prim_op int_plus : Int -> Int -> Int
prim_op int_eq : Int -> Int -> Bool
`

func parseDecls(t *testing.T, src string) []ast.Declaration {
	t.Helper()
	p := parser.New(lexer.New(src))
	decls := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return decls
}

func elaborate(t *testing.T, src string) *core.Module {
	t.Helper()
	mod := Elaborate("test", parseDecls(t, basePrelude+src))
	if mod.HasErrors() {
		t.Fatalf("elaboration errors: %v", mod.Errors)
	}
	return mod
}

func elaborateErr(t *testing.T, src string) *core.Module {
	t.Helper()
	mod := Elaborate("test", parseDecls(t, basePrelude+src))
	if !mod.HasErrors() {
		t.Fatal("expected elaboration errors, got none")
	}
	return mod
}

func lastTerm(t *testing.T, mod *core.Module, name string) core.Term {
	t.Helper()
	for _, d := range mod.Declarations {
		if td, ok := d.(core.TermDeclaration); ok && td.Name == name {
			return td.Body
		}
	}
	t.Fatalf("no term declaration %q", name)
	return nil
}

func TestLambdaBecomesDeBruijn(t *testing.T) {
	mod := elaborate(t, "f : Int -> Int -> Int\nf = \\x:Int -> \\y:Int -> x\n")
	abs := lastTerm(t, mod, "f").(core.Abs)
	inner := abs.Body.(core.Abs)
	if inner.Body.(core.Var).Index != 1 {
		t.Errorf("x under two binders should be index 1, got %v", inner.Body)
	}
}

func TestShadowing(t *testing.T) {
	mod := elaborate(t, "f : Int -> Int -> Int\nf = \\x:Int -> \\x:Int -> x\n")
	inner := lastTerm(t, mod, "f").(core.Abs).Body.(core.Abs)
	if inner.Body.(core.Var).Index != 0 {
		t.Errorf("inner x should shadow, got %v", inner.Body)
	}
}

func TestLocalShadowsGlobal(t *testing.T) {
	mod := elaborate(t, "g : Int\ng = 1\nf : Int -> Int\nf = \\g:Int -> g\n")
	body := lastTerm(t, mod, "f").(core.Abs).Body
	if _, ok := body.(core.Var); !ok {
		t.Errorf("local should win over global, got %T", body)
	}
}

func TestPrimPrefixBypassesScoping(t *testing.T) {
	// A lambda binder named like the op must not capture the $prim reference.
	mod := elaborate(t, "f : Int -> Int\nf = \\int_plus:Int -> $prim.int_plus int_plus 1\n")
	app := lastTerm(t, mod, "f").(core.Abs).Body.(core.App)
	head := app.Fn.(core.App).Fn
	if po, ok := head.(core.PrimOp); !ok || po.Name != "int_plus" {
		t.Fatalf("head = %v", head)
	}
}

func TestGlobalReference(t *testing.T) {
	mod := elaborate(t, "one : Int\none = 1\ntwo : Int\ntwo = $prim.int_plus one one\n")
	app := lastTerm(t, mod, "two").(core.App)
	if g, ok := app.Arg.(core.Global); !ok || g.Name != "one" {
		t.Fatalf("arg = %v", app.Arg)
	}
}

func TestUnboundIdentifier(t *testing.T) {
	mod := elaborateErr(t, "f : Int\nf = missing\n")
	if mod.Errors[0].Code != diagnostics.ErrE001 {
		t.Errorf("code = %s, want E001", mod.Errors[0].Code)
	}
	// The annotation was fine, so the type survives for tooling.
	if _, ok := mod.GlobalTypes["f"]; !ok {
		t.Error("declared type should stay registered")
	}
}

func TestMissingAnnotationRejected(t *testing.T) {
	mod := elaborateErr(t, "f = 1\n")
	if mod.Errors[0].Code != diagnostics.ErrE003 {
		t.Errorf("code = %s, want E003", mod.Errors[0].Code)
	}
	if _, ok := mod.GlobalTypes["f"]; ok {
		t.Error("unannotated declaration must leave no trace")
	}
}

func TestDuplicateDeclaration(t *testing.T) {
	mod := elaborateErr(t, "f : Int\nf = 1\nf : Int\nf = 2\n")
	found := false
	for _, err := range mod.Errors {
		if err.Code == diagnostics.ErrE002 {
			found = true
		}
	}
	if !found {
		t.Errorf("want E002, got %v", mod.Errors)
	}
}

func TestConstructorTypes(t *testing.T) {
	mod := elaborate(t, "data Pair a b = MkPair a b\n")
	// MkPair : forall. forall. t1 -> t0 -> (Pair t1 t0)
	want := core.TypeForall{Body: core.TypeForall{Body: core.TypeArrow{
		Domain: core.TypeVar{Index: 1},
		Codomain: core.TypeArrow{
			Domain: core.TypeVar{Index: 0},
			Codomain: core.TypeConstructor{Name: "Pair", TypeArgs: []core.Type{
				core.TypeVar{Index: 1}, core.TypeVar{Index: 0},
			}},
		},
	}}}
	got := mod.ConstructorTypes["MkPair"]
	if !core.TypeEqual(got, want) {
		t.Errorf("MkPair : %s, want %s", got, want)
	}
}

func TestRecursiveDataType(t *testing.T) {
	mod := elaborate(t, "data List a = Nil | Cons a (List a)\n")
	cons := mod.ConstructorTypes["Cons"]
	if cons == nil {
		t.Fatal("Cons not registered")
	}
}

func TestConstructorAritySaturated(t *testing.T) {
	mod := elaborateErr(t, "data Pair a b = MkPair a b\nf : Int\nf = MkPair 1\n")
	if mod.Errors[0].Code != diagnostics.ErrE005 {
		t.Errorf("code = %s, want E005", mod.Errors[0].Code)
	}
}

func TestNullaryConstructorInAtomPosition(t *testing.T) {
	mod := elaborate(t, "t : Bool\nt = True\n")
	ca := lastTerm(t, mod, "t").(core.ConstructorApp)
	if ca.Ctor != "True" || len(ca.Args) != 0 {
		t.Errorf("got %v", ca)
	}
}

func TestUnknownConstructorInCase(t *testing.T) {
	mod := elaborateErr(t, "f : Bool -> Int\nf = \\b:Bool -> case b of { Maybe -> 1 }\n")
	if mod.Errors[0].Code != diagnostics.ErrE004 {
		t.Errorf("code = %s, want E004", mod.Errors[0].Code)
	}
}

func TestCasePatternArity(t *testing.T) {
	mod := elaborateErr(t, "f : Bool -> Int\nf = \\b:Bool -> case b of { True x -> 1 }\n")
	if mod.Errors[0].Code != diagnostics.ErrE005 {
		t.Errorf("code = %s, want E005", mod.Errors[0].Code)
	}
}

func TestCaseBindsFieldsInnermostLast(t *testing.T) {
	src := "data Pair a b = MkPair a b\nf : Int\nf = case MkPair 1 2 of { MkPair x y -> y }\n"
	mod := elaborate(t, src)
	cs := lastTerm(t, mod, "f").(core.Case)
	// y is the last-bound field, so it is index 0.
	if cs.Branches[0].Body.(core.Var).Index != 0 {
		t.Errorf("y = %v", cs.Branches[0].Body)
	}
}

func TestUnknownType(t *testing.T) {
	mod := elaborateErr(t, "f : Widget\nf = 1\n")
	if mod.Errors[0].Code != diagnostics.ErrE006 {
		t.Errorf("code = %s, want E006", mod.Errors[0].Code)
	}
}

func TestTypeArityChecked(t *testing.T) {
	mod := elaborateErr(t, "data List a = Nil | Cons a (List a)\nf : List\nf = Nil\n")
	if mod.Errors[0].Code != diagnostics.ErrE005 {
		t.Errorf("code = %s, want E005", mod.Errors[0].Code)
	}
}

func TestForallAnnotation(t *testing.T) {
	mod := elaborate(t, "id : forall a. a -> a\nid = /\\a. \\x:a -> x\n")
	want := core.TypeForall{Body: core.TypeArrow{
		Domain:   core.TypeVar{Index: 0},
		Codomain: core.TypeVar{Index: 0},
	}}
	if !core.TypeEqual(mod.GlobalTypes["id"], want) {
		t.Errorf("id : %s", mod.GlobalTypes["id"])
	}
	if _, ok := lastTerm(t, mod, "id").(core.TypeAbs); !ok {
		t.Error("body should be a type abstraction")
	}
}

func TestLLMPragmaDeclaration(t *testing.T) {
	src := "-- | Classifies the sentiment of a text.\n" +
		"{-# LLM model=gpt-4, temperature=0.3 #-}\n" +
		"sentiment : String -- ^ the text to classify -> Bool\n" +
		"sentiment = \\s:String -> True\n"
	mod := elaborate(t, src)

	meta, ok := mod.LLMFunctions["sentiment"]
	if !ok {
		t.Fatal("no LLM metadata recorded")
	}
	if meta.FunctionDocstring != "Classifies the sentiment of a text." {
		t.Errorf("docstring = %q", meta.FunctionDocstring)
	}
	if len(meta.ArgTypes) != 1 || !core.TypeEqual(meta.ArgTypes[0], core.PrimitiveType{Name: "String"}) {
		t.Errorf("arg types = %v", meta.ArgTypes)
	}
	if len(meta.ArgDocstrings) != 1 || meta.ArgDocstrings[0] != "the text to classify" {
		t.Errorf("arg docs = %v", meta.ArgDocstrings)
	}
	if !core.TypeEqual(meta.ReturnType, core.TypeConstructor{Name: "Bool"}) {
		t.Errorf("return type = %s", meta.ReturnType)
	}
	if meta.PragmaParams != "model=gpt-4, temperature=0.3" {
		t.Errorf("pragma params = %q", meta.PragmaParams)
	}

	// The executable body is the registry hook; the written lambda survives
	// as the fallback.
	body := lastTerm(t, mod, "sentiment")
	if po, ok := body.(core.PrimOp); !ok || po.Name != "llm.sentiment" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := meta.Fallback.(core.Abs); !ok {
		t.Errorf("fallback = %T", meta.Fallback)
	}
	if _, ok := mod.GlobalTypes["$llm.sentiment"]; !ok {
		t.Error("no $llm. type registered")
	}
}

func TestUnknownPragmaWarns(t *testing.T) {
	mod := elaborate(t, "{-# INLINE aggressively #-}\nf : Int\nf = 1\n")
	if len(mod.Warnings) != 1 {
		t.Fatalf("warnings = %v", mod.Warnings)
	}
	// Still an ordinary declaration.
	if _, ok := mod.LLMFunctions["f"]; ok {
		t.Error("non-LLM pragma must not create LLM metadata")
	}
}

func TestLLMReferenceElaborates(t *testing.T) {
	src := "{-# LLM #-}\necho : String -> String\necho = \\s:String -> s\n" +
		"f : String\nf = $llm.echo \"hi\"\n"
	mod := elaborate(t, src)
	app := lastTerm(t, mod, "f").(core.App)
	if po, ok := app.Fn.(core.PrimOp); !ok || po.Name != "llm.echo" {
		t.Fatalf("fn = %v", app.Fn)
	}
}

func TestElaborateExpr(t *testing.T) {
	mod := elaborate(t, "data List a = Nil | Cons a (List a)\none : Int\none = 1\n")
	p := parser.New(lexer.New("Cons one Nil"))
	expr := p.ParseExpression()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	term, err := ElaborateExpr(mod, expr)
	if err != nil {
		t.Fatalf("elaborate: %v", err)
	}
	ca, ok := term.(core.ConstructorApp)
	if !ok || ca.Ctor != "Cons" || len(ca.Args) != 2 {
		t.Fatalf("term = %v", term)
	}
}
