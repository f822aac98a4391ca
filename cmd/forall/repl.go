package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/funvibe/forall/internal/checker"
	"github.com/funvibe/forall/internal/config"
	"github.com/funvibe/forall/internal/core"
	"github.com/funvibe/forall/internal/elaborator"
	"github.com/funvibe/forall/internal/evaluator"
	"github.com/funvibe/forall/internal/lexer"
	"github.com/funvibe/forall/internal/parser"
	"github.com/funvibe/forall/pkg/cli"
)

const historyFile = ".forall_history"

func runRepl() int {
	fmt.Printf("forall %s — :type <expr> for a type, :quit to exit\n", cli.Version)

	base := cli.BuildProgram("", "")
	if base.HasErrors() {
		for _, err := range base.Errors {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}

	cfg, err := config.Load(config.ConfigFileName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	m, cleanup, err := cli.NewMachine(base.Module, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer cleanup()

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		line, err := ln.Prompt("forall> ")
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, ":") {
			if handleCommand(base.Module, input) {
				return 0
			}
			ln.AppendHistory(input)
			continue
		}

		term, typ, derr := analyze(base.Module, input)
		if derr != nil {
			fmt.Fprintln(os.Stderr, derr)
			continue
		}
		v, rerr := m.Eval(term)
		if rerr != nil {
			fmt.Fprintln(os.Stderr, rerr)
			continue
		}
		fmt.Printf("%s : %s\n", render(v), typ)
		ln.AppendHistory(input)
	}
}

// handleCommand runs a colon command; a true result exits the loop.
func handleCommand(mod *core.Module, input string) bool {
	cmd, rest, _ := strings.Cut(input, " ")
	switch cmd {
	case ":quit", ":q":
		return true
	case ":type", ":t":
		_, typ, err := analyze(mod, rest)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
		fmt.Println(typ)
	case ":help", ":h":
		fmt.Println(":type <expr>  infer a type without evaluating\n:quit         exit")
	default:
		fmt.Printf("unknown command %s. Type :help.\n", cmd)
	}
	return false
}

// analyze parses, resolves, and types one expression against the module.
func analyze(mod *core.Module, src string) (core.Term, core.Type, error) {
	p := parser.New(lexer.New(src))
	expr := p.ParseExpression()
	if errs := p.Errors(); len(errs) > 0 {
		return nil, nil, errs[0]
	}
	if expr == nil {
		return nil, nil, fmt.Errorf("empty input")
	}

	term, derr := elaborator.ElaborateExpr(mod, expr)
	if derr != nil {
		return nil, nil, derr
	}
	typ, terr := checker.New(mod).Infer(term, checker.NewContext())
	if terr != nil {
		return nil, nil, terr
	}
	return term, typ, nil
}

func render(v evaluator.Value) string {
	return v.Inspect()
}
