// main.go - command-line entry point (C15)
//
// Wires a cobra root command over the relocator, tracer, disassembler and
// visualiser linker. Grounded on z80opt's cobra command construction
// (one package-level cmd with flags bound to local vars, RunE returning
// error) generalized to one flat command with many flags, since spec.md's
// CLI surface is a single verb with mutually-exclusive modes rather than
// cobra's natural subcommand split.

package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the process exit code: 0 success, 1
// fatal error, 2 verification mismatch.
func run(args []string) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		if exitErr, ok := err.(*cliExitError); ok {
			if exitErr.message != "" {
				fmt.Fprintln(os.Stderr, exitErr.message)
			}
			return exitErr.code
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// cliExitError carries a specific process exit code through cobra's
// error-returning RunE, for the verification-mismatch case (exit 2)
// spec.md's error model names distinctly from a generic fatal error.
type cliExitError struct {
	code    int
	message string
}

func (e *cliExitError) Error() string { return e.message }
