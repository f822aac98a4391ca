package llm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funvibe/forall/internal/checker"
	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/elaborator"
	"github.com/funvibe/forall/internal/evaluator"
	"github.com/funvibe/forall/internal/lexer"
	"github.com/funvibe/forall/internal/parser"
	"github.com/funvibe/forall/internal/prelude"
)

func TestOverrides(t *testing.T) {
	tests := []struct {
		params    string
		wantModel string
		wantTemp  float64
	}{
		{"", "base", 0.5},
		{"model=gpt-4", "gpt-4", 0.5},
		{"temperature=0.9", "base", 0.9},
		{"model=gpt-4, temperature=0.1", "gpt-4", 0.1},
		{"model = gpt-4 , temperature = 0.1", "gpt-4", 0.1},
		{"temperature=hot", "base", 0.5},
		{"unknown=x, model=m", "m", 0.5},
	}
	for _, tc := range tests {
		model, temp := Overrides(tc.params, "base", 0.5)
		if model != tc.wantModel || temp != tc.wantTemp {
			t.Errorf("Overrides(%q) = %q/%v, want %q/%v",
				tc.params, model, temp, tc.wantModel, tc.wantTemp)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	meta := &core.LLMMetadata{
		FunctionName:      "sentiment",
		FunctionDocstring: "Classifies the sentiment of a text.",
		ArgTypes:          []core.Type{core.PrimitiveType{Name: "String"}},
		ArgDocstrings:     []string{"the text to classify"},
		ReturnType:        core.TypeConstructor{Name: "Bool"},
	}
	prompt := BuildPrompt(meta, []evaluator.Value{evaluator.VString{Value: "what a day"}})

	for _, fragment := range []string{
		"Classifies the sentiment of a text.",
		"FUNCTION: sentiment",
		"the text to classify",
		"what a day",
		"RETURN TYPE:",
		"Bool",
	} {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, prompt)
		}
	}
	if strings.Contains(prompt, `"what a day"`) {
		t.Error("string arguments should be rendered unquoted")
	}
}

func TestBuildPromptDefaultInstruction(t *testing.T) {
	meta := &core.LLMMetadata{FunctionName: "f", ReturnType: core.PrimitiveType{Name: "Int"}}
	prompt := BuildPrompt(meta, nil)
	if !strings.Contains(prompt, defaultInstruction) {
		t.Error("missing default instruction for undocumented function")
	}
}

func TestParseResponse(t *testing.T) {
	intType := core.PrimitiveType{Name: "Int"}
	strType := core.PrimitiveType{Name: "String"}
	boolType := core.TypeConstructor{Name: "Bool"}

	tests := []struct {
		name    string
		typ     core.Type
		text    string
		want    evaluator.Value
		wantErr bool
	}{
		{"int", intType, "42", evaluator.VInt{Value: 42}, false},
		{"int with whitespace", intType, "  7\n", evaluator.VInt{Value: 7}, false},
		{"int fenced", intType, "```\n42\n```", evaluator.VInt{Value: 42}, false},
		{"not an int", intType, "forty-two", nil, true},
		{"string raw", strType, "hello", evaluator.VString{Value: "hello"}, false},
		{"string quoted", strType, `"hello"`, evaluator.VString{Value: "hello"}, false},
		{"constructor", boolType, "True", evaluator.VConstructor{Tag: "True"}, false},
		{"arrow is opaque", core.TypeArrow{Domain: intType, Codomain: intType}, "x", nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseResponse(tc.typ, tc.text)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			switch want := tc.want.(type) {
			case evaluator.VInt:
				if got.(evaluator.VInt).Value != want.Value {
					t.Errorf("got %s", got.Inspect())
				}
			case evaluator.VString:
				if got.(evaluator.VString).Value != want.Value {
					t.Errorf("got %s", got.Inspect())
				}
			case evaluator.VConstructor:
				if got.(evaluator.VConstructor).Tag != want.Tag {
					t.Errorf("got %s", got.Inspect())
				}
			}
		})
	}
}

const llmProgram = `-- | Shouts the given text back.
{-# LLM #-}
shout : String -- ^ text to shout -> String
shout = \s:String -> $prim.string_concat s "!"
`

func llmMachine(t *testing.T, caller Caller) (*evaluator.Machine, *core.Module) {
	t.Helper()
	p := parser.New(lexer.New(llmProgram))
	decls := append(prelude.Declarations(), p.ParseProgram()...)
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	mod := elaborator.Elaborate("test", decls)
	if mod.HasErrors() {
		t.Fatalf("elaboration errors: %v", mod.Errors)
	}
	if errs := checker.CheckModule(mod); len(errs) > 0 {
		t.Fatalf("type errors: %v", errs)
	}

	reg := prelude.NativeRegistry()
	Populate(reg, mod, caller, config.Default().LLM)

	m, err := evaluator.New(mod, reg)
	if err != nil {
		t.Fatal(err)
	}
	return m, mod
}

func callShout(t *testing.T, m *evaluator.Machine, arg string) evaluator.Value {
	t.Helper()
	fn, err := m.Eval(core.Global{Name: "shout"})
	if err != nil {
		t.Fatal(err)
	}
	v, err := m.Apply(fn, evaluator.VString{Value: arg})
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestLLMCallSuccess(t *testing.T) {
	var seen Request
	caller := CallerFunc(func(_ context.Context, req Request) (string, error) {
		seen = req
		return "HELLO", nil
	})
	m, _ := llmMachine(t, caller)

	v := callShout(t, m, "hello")
	if s, ok := v.(evaluator.VString); !ok || s.Value != "HELLO" {
		t.Fatalf("got %s", v.Inspect())
	}
	if seen.ID == "" {
		t.Error("request should carry an ID")
	}
	if !strings.Contains(seen.Prompt, "Shouts the given text back.") {
		t.Errorf("prompt missing docstring:\n%s", seen.Prompt)
	}
	if !strings.Contains(seen.Prompt, "text to shout") {
		t.Errorf("prompt missing parameter doc:\n%s", seen.Prompt)
	}
}

func TestLLMCallFailureRunsFallback(t *testing.T) {
	m, _ := llmMachine(t, Unconfigured())
	v := callShout(t, m, "hello")
	if s, ok := v.(evaluator.VString); !ok || s.Value != "hello!" {
		t.Fatalf("fallback result = %s", v.Inspect())
	}
}

func TestLLMUnparsableResponseRunsFallback(t *testing.T) {
	// A String return type accepts any text, so force the mismatch through a
	// constructor-returning function instead.
	src := "{-# LLM #-}\nhappy : String -> Bool\nhappy = \\s:String -> True\n"
	p := parser.New(lexer.New(src))
	decls := append(prelude.Declarations(), p.ParseProgram()...)
	mod := elaborator.Elaborate("test", decls)
	if mod.HasErrors() {
		t.Fatalf("elaboration errors: %v", mod.Errors)
	}

	caller := CallerFunc(func(context.Context, Request) (string, error) {
		return "Definitely positive, great vibes", nil
	})
	reg := prelude.NativeRegistry()
	Populate(reg, mod, caller, config.Default().LLM)
	m, err := evaluator.New(mod, reg)
	if err != nil {
		t.Fatal(err)
	}

	fn, err := m.Eval(core.Global{Name: "happy"})
	if err != nil {
		t.Fatal(err)
	}
	v, err := m.Apply(fn, evaluator.VString{Value: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if ctor, ok := v.(evaluator.VConstructor); !ok || ctor.Tag != "True" {
		t.Fatalf("fallback result = %s", v.Inspect())
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	req := Request{ID: "ignored", Prompt: "p", Model: "m", Temperature: 0.5}
	ctx := context.Background()

	if _, ok, err := cache.Get(ctx, req); err != nil || ok {
		t.Fatalf("unexpected hit: ok=%v err=%v", ok, err)
	}
	if err := cache.Put(ctx, req, "answer"); err != nil {
		t.Fatal(err)
	}

	// A different ID for the same content still hits.
	req.ID = "other"
	got, ok, err := cache.Get(ctx, req)
	if err != nil || !ok || got != "answer" {
		t.Fatalf("got %q ok=%v err=%v", got, ok, err)
	}

	// A different prompt misses.
	other := Request{Prompt: "q", Model: "m", Temperature: 0.5}
	if _, ok, _ := cache.Get(ctx, other); ok {
		t.Error("different prompt should miss")
	}
}

func TestCachingCaller(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	calls := 0
	backend := CallerFunc(func(context.Context, Request) (string, error) {
		calls++
		return "fresh", nil
	})
	cc := NewCachingCaller(cache, backend)

	req := Request{Prompt: "p", Model: "m"}
	for i := 0; i < 3; i++ {
		got, err := cc.Call(context.Background(), req)
		if err != nil || got != "fresh" {
			t.Fatalf("call %d: %q, %v", i, got, err)
		}
	}
	if calls != 1 {
		t.Errorf("backend called %d times, want 1", calls)
	}
}

func TestCachingCallerDoesNotCacheFailures(t *testing.T) {
	cache, err := OpenCache(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	boom := errors.New("backend down")
	calls := 0
	backend := CallerFunc(func(context.Context, Request) (string, error) {
		calls++
		return "", boom
	})
	cc := NewCachingCaller(cache, backend)

	for i := 0; i < 2; i++ {
		if _, err := cc.Call(context.Background(), Request{Prompt: "p"}); !errors.Is(err, boom) {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if calls != 2 {
		t.Errorf("backend called %d times, want 2", calls)
	}
}
