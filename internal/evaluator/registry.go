package evaluator

import (
	"strings"

	"github.com/funvibe/forall/internal/config"
)

// PrimFunc is a registered operation over raw values. The machine is passed
// in so LLM closures can run their fallback lambda through it; native
// operations ignore it.
type PrimFunc func(m *Machine, args []Value) (Value, error)

// PrimEntry pairs an implementation with its declared arity. Application
// accumulates arguments until the arity is met, then invokes.
type PrimEntry struct {
	Arity int
	Fn    PrimFunc
}

// Registry holds the runtime bindings for declared primitives: the native
// half keyed by bare prim_op name, the LLM half keyed by function name. It
// is an explicit value injected at machine construction, not process state,
// so modules with different capabilities (e.g. a stubbed LLM caller in
// tests) coexist freely. Populated once at construction, read-only after.
type Registry struct {
	native map[string]PrimEntry
	llm    map[string]PrimEntry
}

func NewRegistry() *Registry {
	return &Registry{
		native: make(map[string]PrimEntry),
		llm:    make(map[string]PrimEntry),
	}
}

func (r *Registry) RegisterNative(name string, arity int, fn PrimFunc) {
	r.native[name] = PrimEntry{Arity: arity, Fn: fn}
}

func (r *Registry) RegisterLLM(name string, arity int, fn PrimFunc) {
	r.llm[name] = PrimEntry{Arity: arity, Fn: fn}
}

// Lookup routes a PrimOp name: the "llm." prefix selects the LLM half,
// anything else the native half. The prefix was fixed once at elaboration;
// nothing here re-parses surface conventions.
func (r *Registry) Lookup(opName string) (PrimEntry, bool) {
	if rest, ok := strings.CutPrefix(opName, config.LLMOpPrefix); ok {
		e, found := r.llm[rest]
		return e, found
	}
	e, found := r.native[opName]
	return e, found
}
