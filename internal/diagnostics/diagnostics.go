package diagnostics

import (
	"fmt"

	"github.com/funvibe/forall/internal/token"
)

type ErrorCode string

// Error codes are stable identifiers grouped by pipeline stage:
// P = parser, E = elaboration, T = type checking, R = runtime.
const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // malformed declaration
	ErrP003 ErrorCode = "P003" // malformed pragma

	ErrE001 ErrorCode = "E001" // unbound identifier
	ErrE002 ErrorCode = "E002" // duplicate declaration
	ErrE003 ErrorCode = "E003" // missing type annotation
	ErrE004 ErrorCode = "E004" // unknown constructor
	ErrE005 ErrorCode = "E005" // constructor arity mismatch
	ErrE006 ErrorCode = "E006" // unknown type name
	ErrE007 ErrorCode = "E007" // unrecognized pragma

	ErrT001 ErrorCode = "T001" // type mismatch
	ErrT002 ErrorCode = "T002" // not a function
	ErrT003 ErrorCode = "T003" // not a forall
	ErrT004 ErrorCode = "T004" // unknown primitive
	ErrT005 ErrorCode = "T005" // unknown constructor
	ErrT006 ErrorCode = "T006" // arity mismatch
	ErrT007 ErrorCode = "T007" // unbound variable
	ErrT008 ErrorCode = "T008" // branch types disagree

	ErrR001 ErrorCode = "R001" // match failure
	ErrR002 ErrorCode = "R002" // unknown primitive at runtime
	ErrR003 ErrorCode = "R003" // LLM call failure
)

// DiagnosticError is a positioned, coded error accumulated by the pipeline.
// Elaboration and type errors are collected as values rather than returned
// eagerly, so one load reports every problem in a module.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
}

func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Token:   tok,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *DiagnosticError) Error() string {
	if e.Token.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Token.Line, e.Token.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
