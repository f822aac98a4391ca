package llm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/evaluator"
)

// ParseResponse turns raw model output into a value of the declared return
// type. Any shape mismatch is an error; the caller then runs the fallback
// lambda instead.
func ParseResponse(returnType core.Type, text string) (evaluator.Value, error) {
	raw := unwrapFenced(strings.TrimSpace(text))

	switch rt := returnType.(type) {
	case core.PrimitiveType:
		switch rt.Name {
		case config.IntTypeName:
			n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("llm: %q is not an Int", raw)
			}
			return evaluator.VInt{Value: n}, nil
		case config.StringTypeName:
			if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
				if unq, err := strconv.Unquote(raw); err == nil {
					return evaluator.VString{Value: unq}, nil
				}
			}
			return evaluator.VString{Value: raw}, nil
		default:
			return nil, fmt.Errorf("llm: cannot construct primitive type %s from text", rt.Name)
		}

	case core.TypeConstructor:
		// Nullary constructors parse by tag name (Bool and friends).
		tag := strings.TrimSpace(raw)
		return evaluator.VConstructor{Tag: tag}, nil

	default:
		return nil, fmt.Errorf("llm: cannot parse a value of type %s", returnType)
	}
}

// unwrapFenced removes a surrounding markdown code fence if present.
func unwrapFenced(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	rest := strings.TrimPrefix(s, "```")
	if i := strings.Index(rest, "\n"); i >= 0 {
		rest = rest[i+1:]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}
