package core

import (
	"sort"

	"github.com/funvibe/forall/internal/diagnostics"
)

// Declaration is a module-level declaration in elaborated form.
type Declaration interface {
	declNode()
	DeclName() string
}

// TermDeclaration is a global binding with its (mandatory) declared type.
type TermDeclaration struct {
	Name string
	Type Type
	Body Term
}

// Constructor is one alternative of a data declaration.
type Constructor struct {
	Name   string
	Fields []Type
}

// DataDeclaration introduces an algebraic data type. TypeParams holds the
// surface parameter names for display; constructor field types reference
// them by de Bruijn index under the implicit foralls in ConstructorTypes.
type DataDeclaration struct {
	Name         string
	TypeParams   []string
	Constructors []Constructor
}

// PrimTypeDeclaration registers a nominal primitive type (prim_type Int).
type PrimTypeDeclaration struct {
	Name string
}

// PrimOpDeclaration registers a callable primitive signature under
// "$prim.<name>" (prim_op int_plus : Int -> Int -> Int). The runtime
// implementation binds later, at evaluator construction.
type PrimOpDeclaration struct {
	Name string
	Type Type
}

func (TermDeclaration) declNode()     {}
func (DataDeclaration) declNode()     {}
func (PrimTypeDeclaration) declNode() {}
func (PrimOpDeclaration) declNode()   {}

func (d TermDeclaration) DeclName() string     { return d.Name }
func (d DataDeclaration) DeclName() string     { return d.Name }
func (d PrimTypeDeclaration) DeclName() string { return d.Name }
func (d PrimOpDeclaration) DeclName() string   { return d.Name }

// LLMMetadata is the compile-time record for a declaration carrying an LLM
// pragma. It is owned by the Module and read-only after elaboration.
type LLMMetadata struct {
	FunctionName      string
	FunctionDocstring string

	// ArgTypes are the declared parameter types (validated by the checker
	// along with the rest of the declaration).
	ArgTypes []Type

	// ArgDocstrings come from TypeArrow.ParamDoc, one per parameter, ""
	// when absent. LLM functions are global, so argument identity by binder
	// name is not required.
	ArgDocstrings []string

	// ReturnType is the declared result type, used to parse model output.
	ReturnType Type

	// PragmaParams is the raw pragma parameter string, e.g.
	// "model=gpt-4,temperature=0.2".
	PragmaParams string

	// Fallback is the elaborated lambda the declaration would have had
	// without the pragma. It runs whenever the LLM call fails.
	Fallback Term
}

// Module is the immutable product of one elaboration call. The invariant:
// every Global/ConstructorApp reachable from Declarations has a matching
// entry in GlobalTypes/ConstructorTypes, and names are unique module-wide.
type Module struct {
	Name         string
	Declarations []Declaration

	// ConstructorTypes maps a constructor name to its curried type,
	// forall-wrapped once per data type parameter and ending in the owning
	// data type applied to those parameters.
	ConstructorTypes map[string]Type

	// GlobalTypes maps global names to types. Primitive signatures live
	// here under their "$prim."/"$llm." keys; this is the only place the
	// checker ever finds a primitive's type.
	GlobalTypes map[string]Type

	// PrimitiveTypes maps prim_type names to their nominal types. Even
	// literal typing goes through this table.
	PrimitiveTypes map[string]PrimitiveType

	// Docstrings holds function-level `-- |` docs by declaration name.
	Docstrings map[string]string

	// LLMFunctions holds the metadata of every LLM-pragma'd declaration,
	// keyed by function name. This is also the tooling inspection surface.
	LLMFunctions map[string]*LLMMetadata

	Errors   []*diagnostics.DiagnosticError
	Warnings []string
}

func NewModule(name string) *Module {
	return &Module{
		Name:             name,
		ConstructorTypes: make(map[string]Type),
		GlobalTypes:      make(map[string]Type),
		PrimitiveTypes:   make(map[string]PrimitiveType),
		Docstrings:       make(map[string]string),
		LLMFunctions:     make(map[string]*LLMMetadata),
	}
}

// HasErrors reports whether elaboration produced any semantic errors. A host
// is expected to refuse evaluation of a module with errors.
func (m *Module) HasErrors() bool {
	return len(m.Errors) > 0
}

// LLMFunctionNames returns the names of all LLM-derived functions in
// deterministic order, for the inspection surface.
func (m *Module) LLMFunctionNames() []string {
	names := make([]string, 0, len(m.LLMFunctions))
	for name := range m.LLMFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
