package config

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".fa", ".forall"}

// Reserved identifier prefixes. Identifiers starting with these bypass
// lexical scoping entirely and always resolve to primitive references.
const (
	PrimPrefix = "$prim."
	LLMPrefix  = "$llm."
)

// Registry key prefix for LLM-backed operations. A declaration carrying an
// LLM pragma elaborates its body to a PrimOp named LLMOpPrefix + name.
const LLMOpPrefix = "llm."

// Pragma names recognized by the elaborator.
const LLMPragmaName = "LLM"

// Base type names the prelude is expected to declare. These are looked up in
// Module.PrimitiveTypes, never hardcoded into the checker.
const (
	IntTypeName    = "Int"
	StringTypeName = "String"
	BoolTypeName   = "Bool"
	TrueCtorName   = "True"
	FalseCtorName  = "False"
)

// ConfigFileName is the per-project configuration file.
const ConfigFileName = "forall.yaml"
