package cli

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/funvibe/forall/internal/pipeline"
)

const (
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
)

func stderrIsTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

func reportErrors(ctx *pipeline.PipelineContext) {
	color := stderrIsTerminal()
	where := ctx.FilePath
	if where == "" {
		where = "<input>"
	}
	for _, err := range ctx.Errors {
		if color {
			fmt.Fprintf(os.Stderr, "%s%s:%s %s\n", ansiRed, where, ansiReset, err.Error())
		} else {
			fmt.Fprintf(os.Stderr, "%s: %s\n", where, err.Error())
		}
	}
}

func reportWarnings(ctx *pipeline.PipelineContext) {
	color := stderrIsTerminal()
	for _, w := range ctx.Warnings {
		if color {
			fmt.Fprintf(os.Stderr, "%swarning:%s %s\n", ansiYellow, ansiReset, w)
		} else {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
	}
}
