// Package cli implements the forall command: checking, running, and
// inspecting source files.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/funvibe/forall/internal/checker"
	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/elaborator"
	"github.com/funvibe/forall/internal/evaluator"
	"github.com/funvibe/forall/internal/llm"
	"github.com/funvibe/forall/internal/parser"
	"github.com/funvibe/forall/internal/pipeline"
	"github.com/funvibe/forall/internal/prelude"
)

const Version = "0.1.0"

const usage = `Usage: forall <command> [arguments]

Commands:
  run <file>      type-check and evaluate a module, printing its main value
  check <file>    type-check a module and report diagnostics
  llm <file>      list the module's LLM-derived functions
  repl            start an interactive session
  version         print the version
`

// Run dispatches a command line and returns the process exit code.
func Run(args []string) int {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	switch args[0] {
	case "run":
		return withSourceArg(args, cmdRun)
	case "check":
		return withSourceArg(args, cmdCheck)
	case "llm":
		return withSourceArg(args, cmdLLM)
	case "version", "-v", "--version":
		fmt.Println("forall " + Version)
		return 0
	case "help", "-h", "--help":
		fmt.Print(usage)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "forall: unknown command %q\n\n%s", args[0], usage)
		return 2
	}
}

func withSourceArg(args []string, cmd func(path string) int) int {
	if len(args) < 2 {
		fmt.Fprintf(os.Stderr, "forall %s: missing source file\n", args[0])
		return 2
	}
	path := args[1]
	if !isSourceFile(path) {
		fmt.Fprintf(os.Stderr, "forall: %s is not a source file (expected %s)\n",
			path, strings.Join(config.SourceFileExtensions, " or "))
		return 2
	}
	return cmd(path)
}

func isSourceFile(path string) bool {
	for _, ext := range config.SourceFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// BuildProgram runs source through the full front end: prelude declarations
// first, then the file's own, then elaboration and checking.
func BuildProgram(source, filePath string) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(source)
	ctx.FilePath = filePath
	if filePath != "" {
		ctx.ModuleName = strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	}
	ctx.Decls = prelude.Declarations()

	p := pipeline.New(
		&parser.ParserProcessor{},
		&elaborator.ElaboratorProcessor{},
		&checker.CheckerProcessor{},
	)
	return p.Run(ctx)
}

// NewMachine builds an evaluator for a checked module, wiring the native
// prelude operations and one LLM closure per declared LLM function. The
// returned cleanup closes the response cache, if one was opened.
func NewMachine(mod *core.Module, cfg *config.Config) (*evaluator.Machine, func(), error) {
	cleanup := func() {}

	caller := llm.NewHTTPCaller(cfg.LLM)
	if cfg.LLM.CachePath != "" {
		cache, err := llm.OpenCache(cfg.LLM.CachePath)
		if err != nil {
			return nil, nil, err
		}
		caller = llm.NewCachingCaller(cache, caller)
		cleanup = func() { cache.Close() }
	}

	reg := prelude.NativeRegistry()
	llm.Populate(reg, mod, caller, cfg.LLM)

	m, err := evaluator.New(mod, reg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return m, cleanup, nil
}

// LoadConfig reads forall.yaml from the source file's directory.
func LoadConfig(sourcePath string) (*config.Config, error) {
	return config.Load(filepath.Join(filepath.Dir(sourcePath), config.ConfigFileName))
}

func cmdCheck(path string) int {
	ctx, ok := buildFromFile(path)
	if !ok {
		return 1
	}
	reportWarnings(ctx)
	if ctx.HasErrors() {
		reportErrors(ctx)
		return 1
	}
	fmt.Printf("%s: ok (%d declarations)\n", path, len(ctx.Module.Declarations))
	return 0
}

func cmdRun(path string) int {
	ctx, ok := buildFromFile(path)
	if !ok {
		return 1
	}
	reportWarnings(ctx)
	if ctx.HasErrors() {
		reportErrors(ctx)
		return 1
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "forall: %s\n", err)
		return 1
	}

	m, cleanup, err := NewMachine(ctx.Module, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "forall: %s\n", err)
		return 1
	}
	defer cleanup()

	if _, ok := ctx.Module.GlobalTypes["main"]; !ok {
		fmt.Fprintf(os.Stderr, "forall: %s does not define main\n", path)
		return 1
	}
	v, err := m.Eval(core.Global{Name: "main"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "forall: %s\n", err)
		return 1
	}
	fmt.Println(render(v))
	return 0
}

func cmdLLM(path string) int {
	ctx, ok := buildFromFile(path)
	if !ok {
		return 1
	}
	reportWarnings(ctx)
	if ctx.HasErrors() {
		reportErrors(ctx)
		return 1
	}

	names := ctx.Module.LLMFunctionNames()
	if len(names) == 0 {
		fmt.Printf("%s: no LLM-derived functions\n", path)
		return 0
	}
	sort.Strings(names)
	for _, name := range names {
		meta := ctx.Module.LLMFunctions[name]
		fmt.Printf("%s : %s\n", name, ctx.Module.GlobalTypes[config.LLMPrefix+name])
		if meta.FunctionDocstring != "" {
			fmt.Printf("  doc: %s\n", meta.FunctionDocstring)
		}
		if meta.PragmaParams != "" {
			fmt.Printf("  pragma: %s\n", meta.PragmaParams)
		}
	}
	return 0
}

func buildFromFile(path string) (*pipeline.PipelineContext, bool) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "forall: %s\n", err)
		return nil, false
	}
	return BuildProgram(string(source), path), true
}

// render prints a top-level result: strings come out raw, everything else
// through the value printer.
func render(v evaluator.Value) string {
	if s, ok := v.(evaluator.VString); ok {
		return s.Value
	}
	return v.Inspect()
}
