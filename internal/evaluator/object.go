package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/forall/internal/core"
)

type ValueType string

const (
	INT_VALUE          = "INT"
	STRING_VALUE       = "STRING"
	CLOSURE_VALUE      = "CLOSURE"
	TYPE_CLOSURE_VALUE = "TYPE_CLOSURE"
	CONSTRUCTOR_VALUE  = "CONSTRUCTOR"
	PRIM_OP_VALUE      = "PRIM_OP"
	PRIM_PARTIAL_VALUE = "PRIM_PARTIAL"
)

// Value is a runtime value. Values are created per evaluation and scoped to
// the call that produced them; environments captured inside closures are
// immutable snapshots, so values can be shared freely.
type Value interface {
	Type() ValueType
	Inspect() string
}

type VInt struct {
	Value int64
}

func (v VInt) Type() ValueType { return INT_VALUE }
func (v VInt) Inspect() string { return strconv.FormatInt(v.Value, 10) }

type VString struct {
	Value string
}

func (v VString) Type() ValueType { return STRING_VALUE }
func (v VString) Inspect() string { return strconv.Quote(v.Value) }

// VClosure is a lambda paired with the environment it closed over.
type VClosure struct {
	Env  *Environment
	Body core.Term
}

func (v VClosure) Type() ValueType { return CLOSURE_VALUE }
func (v VClosure) Inspect() string { return "<closure>" }

// VTypeClosure is the runtime form of a type abstraction. Type application
// forces its body with no runtime argument.
type VTypeClosure struct {
	Env  *Environment
	Body core.Term
}

func (v VTypeClosure) Type() ValueType { return TYPE_CLOSURE_VALUE }
func (v VTypeClosure) Inspect() string { return "<type closure>" }

// VConstructor is a data value: a tag plus positional fields.
type VConstructor struct {
	Tag    string
	Fields []Value
}

func (v VConstructor) Type() ValueType { return CONSTRUCTOR_VALUE }
func (v VConstructor) Inspect() string {
	if len(v.Fields) == 0 {
		return v.Tag
	}
	parts := make([]string, 0, len(v.Fields)+1)
	parts = append(parts, v.Tag)
	for _, f := range v.Fields {
		parts = append(parts, f.Inspect())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// VPrimOp is an un-applied registry operation.
type VPrimOp struct {
	Name string
}

func (v VPrimOp) Type() ValueType { return PRIM_OP_VALUE }
func (v VPrimOp) Inspect() string { return fmt.Sprintf("<prim %s>", v.Name) }

// VPrimOpPartial is a registry operation that has collected some, but not
// all, of its arguments.
type VPrimOpPartial struct {
	Name  string
	Arity int
	Args  []Value
}

func (v VPrimOpPartial) Type() ValueType { return PRIM_PARTIAL_VALUE }
func (v VPrimOpPartial) Inspect() string {
	return fmt.Sprintf("<prim %s %d/%d>", v.Name, len(v.Args), v.Arity)
}
