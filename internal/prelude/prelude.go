// Package prelude ships the base environment every module is elaborated
// against: the embedded source declaring the primitive types and operations,
// and the native registry implementing them.
package prelude

import (
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"github.com/funvibe/forall/internal/ast"
	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/evaluator"
	"github.com/funvibe/forall/internal/lexer"
	"github.com/funvibe/forall/internal/parser"
)

//go:embed prelude.fa
var source string

// Source returns the prelude source text. It is seeded ahead of user modules
// by the pipeline, so prelude names resolve like any other global.
func Source() string { return source }

var (
	declsOnce sync.Once
	decls     []ast.Declaration
)

// Declarations parses the embedded prelude once. A parse error here is a
// build defect, not user input, so it panics. The returned slice is a copy;
// callers append their own declarations to it.
func Declarations() []ast.Declaration {
	declsOnce.Do(func() {
		p := parser.New(lexer.New(source))
		decls = p.ParseProgram()
		if errs := p.Errors(); len(errs) > 0 {
			panic(fmt.Sprintf("prelude does not parse: %s", errs[0]))
		}
	})
	return append([]ast.Declaration(nil), decls...)
}

// NativeRegistry returns a registry implementing every prim_op the prelude
// declares. Hosts embedding the language can register additional operations
// on the returned registry before building a machine.
func NativeRegistry() *evaluator.Registry {
	reg := evaluator.NewRegistry()

	reg.RegisterNative("int_plus", 2, intBinop(func(a, b int64) int64 { return a + b }))
	reg.RegisterNative("int_minus", 2, intBinop(func(a, b int64) int64 { return a - b }))
	reg.RegisterNative("int_mul", 2, intBinop(func(a, b int64) int64 { return a * b }))
	reg.RegisterNative("int_div", 2, func(_ *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		a, b, err := twoInts("int_div", args)
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, fmt.Errorf("int_div: division by zero")
		}
		return evaluator.VInt{Value: a / b}, nil
	})
	reg.RegisterNative("int_lt", 2, intCompare(func(a, b int64) bool { return a < b }))
	reg.RegisterNative("int_eq", 2, intCompare(func(a, b int64) bool { return a == b }))
	reg.RegisterNative("int_to_string", 1, func(_ *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		n, ok := args[0].(evaluator.VInt)
		if !ok {
			return nil, fmt.Errorf("int_to_string: expected Int, got %s", args[0].Type())
		}
		return evaluator.VString{Value: strconv.FormatInt(n.Value, 10)}, nil
	})

	reg.RegisterNative("string_concat", 2, func(_ *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		a, b, err := twoStrings("string_concat", args)
		if err != nil {
			return nil, err
		}
		return evaluator.VString{Value: a + b}, nil
	})
	reg.RegisterNative("string_len", 1, func(_ *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		s, ok := args[0].(evaluator.VString)
		if !ok {
			return nil, fmt.Errorf("string_len: expected String, got %s", args[0].Type())
		}
		return evaluator.VInt{Value: int64(len(s.Value))}, nil
	})
	reg.RegisterNative("string_eq", 2, func(_ *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		a, b, err := twoStrings("string_eq", args)
		if err != nil {
			return nil, err
		}
		return boolValue(a == b), nil
	})

	return reg
}

func intBinop(op func(a, b int64) int64) evaluator.PrimFunc {
	return func(_ *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		a, b, err := twoInts("integer operation", args)
		if err != nil {
			return nil, err
		}
		return evaluator.VInt{Value: op(a, b)}, nil
	}
}

func intCompare(op func(a, b int64) bool) evaluator.PrimFunc {
	return func(_ *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		a, b, err := twoInts("integer comparison", args)
		if err != nil {
			return nil, err
		}
		return boolValue(op(a, b)), nil
	}
}

func twoInts(op string, args []evaluator.Value) (int64, int64, error) {
	a, ok := args[0].(evaluator.VInt)
	if !ok {
		return 0, 0, fmt.Errorf("%s: expected Int, got %s", op, args[0].Type())
	}
	b, ok := args[1].(evaluator.VInt)
	if !ok {
		return 0, 0, fmt.Errorf("%s: expected Int, got %s", op, args[1].Type())
	}
	return a.Value, b.Value, nil
}

func twoStrings(op string, args []evaluator.Value) (string, string, error) {
	a, ok := args[0].(evaluator.VString)
	if !ok {
		return "", "", fmt.Errorf("%s: expected String, got %s", op, args[0].Type())
	}
	b, ok := args[1].(evaluator.VString)
	if !ok {
		return "", "", fmt.Errorf("%s: expected String, got %s", op, args[1].Type())
	}
	return a.Value, b.Value, nil
}

// boolValue builds the prelude's Bool as a plain data value. The runtime has
// no boolean representation of its own.
func boolValue(b bool) evaluator.Value {
	if b {
		return evaluator.VConstructor{Tag: config.TrueCtorName}
	}
	return evaluator.VConstructor{Tag: config.FalseCtorName}
}
