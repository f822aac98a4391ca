package llm

import (
	"fmt"
	"strings"

	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/evaluator"
)

const defaultInstruction = "You are implementing a pure function. " +
	"Follow the signature below and compute the result for the given arguments."

// BuildPrompt assembles the prompt for one invocation from the function's
// docstring, its ordered (type, doc) argument pairs, and the actual argument
// values.
func BuildPrompt(meta *core.LLMMetadata, args []evaluator.Value) string {
	instruction := strings.TrimSpace(meta.FunctionDocstring)
	if instruction == "" {
		instruction = defaultInstruction
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", instruction)
	fmt.Fprintf(&b, "FUNCTION: %s\n\n", meta.FunctionName)

	if len(args) > 0 {
		b.WriteString("ARGUMENTS:\n")
		for i, arg := range args {
			label := fmt.Sprintf("argument %d", i+1)
			if i < len(meta.ArgDocstrings) && meta.ArgDocstrings[i] != "" {
				label = meta.ArgDocstrings[i]
			}
			typ := "?"
			if i < len(meta.ArgTypes) {
				typ = meta.ArgTypes[i].String()
			}
			fmt.Fprintf(&b, "  %d. %s (%s) = %s\n", i+1, label, typ, renderValue(arg))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "RETURN TYPE:\n  %s\n\n", meta.ReturnType)
	b.WriteString("TASK:\nRespond with exactly one value of the return type and nothing else.\n")
	return b.String()
}

// renderValue prints an argument for the prompt. Strings go in unquoted so
// the model sees the text itself; everything else uses the value printer.
func renderValue(v evaluator.Value) string {
	if s, ok := v.(evaluator.VString); ok {
		return s.Value
	}
	return v.Inspect()
}
