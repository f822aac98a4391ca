package evaluator

// Environment is an immutable chain of single-value frames indexed by de
// Bruijn distance. Extension allocates a new head frame and shares the rest,
// so a closure's captured snapshot is never disturbed by later bindings.
// Read-only after capture means concurrent evaluations sharing a closure
// need no synchronization.
type Environment struct {
	parent *Environment
	value  Value
}

// Extend returns a new environment with v as the innermost binding.
// Extending the nil (empty) environment is valid.
func (e *Environment) Extend(v Value) *Environment {
	return &Environment{parent: e, value: v}
}

// Lookup resolves de Bruijn index i (0 = innermost binding).
func (e *Environment) Lookup(i int) (Value, bool) {
	cur := e
	for cur != nil {
		if i == 0 {
			return cur.value, true
		}
		i--
		cur = cur.parent
	}
	return nil, false
}
