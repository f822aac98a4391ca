package llm

import (
	"strconv"
	"strings"
)

// Overrides applies per-function pragma parameters on top of the configured
// defaults. Parameters are comma-separated key=value pairs, for example
// "model=gpt-4o, temperature=0.2". Unknown keys and malformed values are
// ignored so a typo in a pragma never breaks the function.
func Overrides(params, model string, temperature float64) (string, float64) {
	for _, pair := range strings.Split(params, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "model":
			if value != "" {
				model = value
			}
		case "temperature":
			if t, err := strconv.ParseFloat(value, 64); err == nil {
				temperature = t
			}
		}
	}
	return model, temperature
}
