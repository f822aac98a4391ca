package evaluator

import (
	"fmt"

	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/diagnostics"
)

// RuntimeError is fatal to the evaluation request that raised it, but does
// not invalidate the loaded module or the machine.
type RuntimeError struct {
	Code    diagnostics.ErrorCode
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func runtimeErrorf(code diagnostics.ErrorCode, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Machine is a call-by-value, environment-passing evaluator over core terms.
// Globals are evaluated once in declaration order at construction; after
// that the machine only reads its tables, so concurrent Eval calls are safe.
type Machine struct {
	mod      *core.Module
	registry *Registry
	globals  map[string]Value
}

// New builds a machine for a checked module. The registry must already hold
// an implementation for every prim_op the module declares; completeness is
// the host's responsibility and a miss surfaces as a runtime error.
func New(mod *core.Module, registry *Registry) (*Machine, error) {
	m := &Machine{
		mod:      mod,
		registry: registry,
		globals:  make(map[string]Value),
	}
	for _, d := range mod.Declarations {
		td, ok := d.(core.TermDeclaration)
		if !ok {
			continue
		}
		v, err := m.eval(td.Body, nil)
		if err != nil {
			return nil, fmt.Errorf("evaluating %s: %w", td.Name, err)
		}
		m.globals[td.Name] = v
	}
	return m, nil
}

// Module returns the module this machine was built from.
func (m *Machine) Module() *core.Module { return m.mod }

// Eval evaluates a closed term in the global scope.
func (m *Machine) Eval(term core.Term) (Value, error) {
	return m.eval(term, nil)
}

func (m *Machine) eval(term core.Term, env *Environment) (Value, error) {
	switch t := term.(type) {
	case core.IntLit:
		return VInt{Value: t.Value}, nil

	case core.StringLit:
		return VString{Value: t.Value}, nil

	case core.Var:
		v, ok := env.Lookup(t.Index)
		if !ok {
			return nil, runtimeErrorf(diagnostics.ErrR002, "unbound variable #%d", t.Index)
		}
		return v, nil

	case core.Global:
		v, ok := m.globals[t.Name]
		if !ok {
			return nil, runtimeErrorf(diagnostics.ErrR002, "unbound global %q", t.Name)
		}
		return v, nil

	case core.PrimOp:
		return VPrimOp{Name: t.Name}, nil

	case core.Abs:
		return VClosure{Env: env, Body: t.Body}, nil

	case core.TypeAbs:
		return VTypeClosure{Env: env, Body: t.Body}, nil

	case core.App:
		fn, err := m.eval(t.Fn, env)
		if err != nil {
			return nil, err
		}
		arg, err := m.eval(t.Arg, env)
		if err != nil {
			return nil, err
		}
		return m.Apply(fn, arg)

	case core.TypeApp:
		v, err := m.eval(t.Term, env)
		if err != nil {
			return nil, err
		}
		switch tv := v.(type) {
		case VTypeClosure:
			return m.eval(tv.Body, tv.Env)
		case VPrimOp, VPrimOpPartial:
			// Primitive signatures may be polymorphic; instantiation is
			// erased at runtime.
			return v, nil
		default:
			return nil, runtimeErrorf(diagnostics.ErrR002,
				"cannot type-apply %s", v.Type())
		}

	case core.Let:
		v, err := m.eval(t.Value, env)
		if err != nil {
			return nil, err
		}
		return m.eval(t.Body, env.Extend(v))

	case core.ConstructorApp:
		fields := make([]Value, len(t.Args))
		for i, a := range t.Args {
			v, err := m.eval(a, env)
			if err != nil {
				return nil, err
			}
			fields[i] = v
		}
		return VConstructor{Tag: t.Ctor, Fields: fields}, nil

	case core.Case:
		return m.evalCase(t, env)
	}

	return nil, runtimeErrorf(diagnostics.ErrR002, "cannot evaluate %s", term)
}

// Apply applies fn to one argument: closures run their body in the captured
// environment, registry operations accumulate arguments until their arity
// is met.
func (m *Machine) Apply(fn, arg Value) (Value, error) {
	switch f := fn.(type) {
	case VClosure:
		return m.eval(f.Body, f.Env.Extend(arg))

	case VPrimOp:
		entry, ok := m.registry.Lookup(f.Name)
		if !ok {
			return nil, runtimeErrorf(diagnostics.ErrR002,
				"no registered implementation for primitive %q", f.Name)
		}
		return m.applyPrim(f.Name, entry, []Value{arg})

	case VPrimOpPartial:
		entry, ok := m.registry.Lookup(f.Name)
		if !ok {
			return nil, runtimeErrorf(diagnostics.ErrR002,
				"no registered implementation for primitive %q", f.Name)
		}
		args := make([]Value, 0, len(f.Args)+1)
		args = append(args, f.Args...)
		args = append(args, arg)
		return m.applyPrim(f.Name, entry, args)

	default:
		return nil, runtimeErrorf(diagnostics.ErrR002, "cannot apply %s", fn.Type())
	}
}

func (m *Machine) applyPrim(name string, entry PrimEntry, args []Value) (Value, error) {
	if len(args) < entry.Arity {
		return VPrimOpPartial{Name: name, Arity: entry.Arity, Args: args}, nil
	}
	return entry.Fn(m, args)
}

// evalCase dispatches on the scrutinee's tag and binds the matching
// constructor's fields positionally. No matching branch is a fatal match
// failure; exhaustiveness is deliberately not checked statically.
func (m *Machine) evalCase(t core.Case, env *Environment) (Value, error) {
	scrut, err := m.eval(t.Scrutinee, env)
	if err != nil {
		return nil, err
	}
	ctor, ok := scrut.(VConstructor)
	if !ok {
		return nil, runtimeErrorf(diagnostics.ErrR001,
			"case scrutinee is %s, not a data value", scrut.Type())
	}

	for _, br := range t.Branches {
		if br.Ctor != ctor.Tag {
			continue
		}
		if br.Arity != len(ctor.Fields) {
			return nil, runtimeErrorf(diagnostics.ErrR001,
				"branch %q binds %d fields, value has %d", br.Ctor, br.Arity, len(ctor.Fields))
		}
		benv := env
		for _, f := range ctor.Fields {
			benv = benv.Extend(f)
		}
		return m.eval(br.Body, benv)
	}

	return nil, runtimeErrorf(diagnostics.ErrR001,
		"no case branch matches constructor %q", ctor.Tag)
}
