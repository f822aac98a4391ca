package main

import (
	"os"

	"github.com/funvibe/forall/pkg/cli"
)

func main() {
	args := os.Args[1:]
	if len(args) >= 1 && args[0] == "repl" {
		os.Exit(runRepl())
	}
	os.Exit(cli.Run(args))
}
