package llm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/evaluator"
)

// Populate registers a closure for every LLM function the module declares.
// Each closure crafts a prompt, invokes the caller, parses the reply against
// the declared return type, and on any failure evaluates the function's
// original fallback lambda on the same arguments — which is what keeps a
// module runnable offline and under test without live calls.
func Populate(reg *evaluator.Registry, mod *core.Module, caller Caller, cfg config.LLMConfig) {
	for name, meta := range mod.LLMFunctions {
		reg.RegisterLLM(name, len(meta.ArgTypes), closure(mod, meta, caller, cfg))
	}
}

func closure(mod *core.Module, meta *core.LLMMetadata, caller Caller, cfg config.LLMConfig) evaluator.PrimFunc {
	model, temperature := Overrides(meta.PragmaParams, cfg.Model, cfg.Temperature)
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	return func(m *evaluator.Machine, args []evaluator.Value) (evaluator.Value, error) {
		req := Request{
			ID:          uuid.NewString(),
			Prompt:      BuildPrompt(meta, args),
			Model:       model,
			Temperature: temperature,
		}

		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		text, err := caller.Call(ctx, req)
		if err == nil {
			if v, perr := ParseResponse(meta.ReturnType, text); perr == nil {
				if accepts(mod, meta.ReturnType, v) {
					return v, nil
				}
			}
		}
		return runFallback(m, meta, args)
	}
}

// accepts re-validates a parsed constructor value against the module's
// tables: the tag must exist, be nullary, and build the declared data type.
func accepts(mod *core.Module, returnType core.Type, v evaluator.Value) bool {
	ctor, ok := v.(evaluator.VConstructor)
	if !ok {
		return true // ints and strings were fully validated by the parse
	}
	want, ok := returnType.(core.TypeConstructor)
	if !ok {
		return false
	}
	ctype, ok := mod.ConstructorTypes[ctor.Tag]
	if !ok {
		return false
	}
	for {
		if fa, isForall := ctype.(core.TypeForall); isForall {
			ctype = fa.Body
			continue
		}
		break
	}
	fields, result := core.ArrowSpine(ctype)
	data, ok := result.(core.TypeConstructor)
	return ok && len(fields) == 0 && data.Name == want.Name
}

// runFallback evaluates the retained lambda and applies it to the collected
// arguments.
func runFallback(m *evaluator.Machine, meta *core.LLMMetadata, args []evaluator.Value) (evaluator.Value, error) {
	fn, err := m.Eval(meta.Fallback)
	if err != nil {
		return nil, err
	}
	for _, arg := range args {
		fn, err = m.Apply(fn, arg)
		if err != nil {
			return nil, err
		}
	}
	return fn, nil
}
