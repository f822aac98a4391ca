package prelude

import (
	"testing"

	"github.com/funvibe/forall/internal/checker"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/elaborator"
	"github.com/funvibe/forall/internal/evaluator"
)

func preludeModule(t *testing.T) *core.Module {
	t.Helper()
	mod := elaborator.Elaborate("prelude", Declarations())
	if mod.HasErrors() {
		t.Fatalf("prelude does not elaborate: %v", mod.Errors)
	}
	if errs := checker.CheckModule(mod); len(errs) > 0 {
		t.Fatalf("prelude does not check: %v", errs)
	}
	return mod
}

func TestPreludeDeclaresBaseTypes(t *testing.T) {
	mod := preludeModule(t)
	for _, name := range []string{"Int", "String"} {
		if _, ok := mod.PrimitiveTypes[name]; !ok {
			t.Errorf("missing prim_type %s", name)
		}
	}
	for _, ctor := range []string{"True", "False"} {
		if _, ok := mod.ConstructorTypes[ctor]; !ok {
			t.Errorf("missing constructor %s", ctor)
		}
	}
}

func TestEveryDeclaredOpIsImplemented(t *testing.T) {
	mod := preludeModule(t)
	reg := NativeRegistry()
	for _, d := range mod.Declarations {
		po, ok := d.(core.PrimOpDeclaration)
		if !ok {
			continue
		}
		entry, found := reg.Lookup(po.Name)
		if !found {
			t.Errorf("prim_op %s has no native implementation", po.Name)
			continue
		}
		params, _ := core.ArrowSpine(po.Type)
		if entry.Arity != len(params) {
			t.Errorf("prim_op %s: registered arity %d, declared %d", po.Name, entry.Arity, len(params))
		}
	}
}

func TestNativeOps(t *testing.T) {
	reg := NativeRegistry()
	call := func(t *testing.T, name string, args ...evaluator.Value) (evaluator.Value, error) {
		t.Helper()
		entry, ok := reg.Lookup(name)
		if !ok {
			t.Fatalf("no op %s", name)
		}
		return entry.Fn(nil, args)
	}

	v, err := call(t, "int_plus", evaluator.VInt{Value: 2}, evaluator.VInt{Value: 3})
	if err != nil || v.(evaluator.VInt).Value != 5 {
		t.Errorf("int_plus = %v, %v", v, err)
	}

	v, err = call(t, "int_eq", evaluator.VInt{Value: 2}, evaluator.VInt{Value: 2})
	if err != nil || v.(evaluator.VConstructor).Tag != "True" {
		t.Errorf("int_eq = %v, %v", v, err)
	}

	v, err = call(t, "string_concat", evaluator.VString{Value: "fo"}, evaluator.VString{Value: "rall"})
	if err != nil || v.(evaluator.VString).Value != "forall" {
		t.Errorf("string_concat = %v, %v", v, err)
	}

	v, err = call(t, "string_len", evaluator.VString{Value: "four"})
	if err != nil || v.(evaluator.VInt).Value != 4 {
		t.Errorf("string_len = %v, %v", v, err)
	}

	v, err = call(t, "int_to_string", evaluator.VInt{Value: -7})
	if err != nil || v.(evaluator.VString).Value != "-7" {
		t.Errorf("int_to_string = %v, %v", v, err)
	}

	if _, err = call(t, "int_div", evaluator.VInt{Value: 1}, evaluator.VInt{Value: 0}); err == nil {
		t.Error("int_div by zero should fail")
	}

	if _, err = call(t, "int_plus", evaluator.VString{Value: "x"}, evaluator.VInt{Value: 1}); err == nil {
		t.Error("type-confused arguments should fail")
	}
}
