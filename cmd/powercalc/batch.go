package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/kingrea/powercalc/internal/batch"
	"github.com/kingrea/powercalc/internal/format"
)

// runBatch resolves every case in a YAML file and reports pass/fail.
func runBatch(e *env, args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	verbose := fs.Bool("v", false, "print resolved values for passing cases")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(e.stderr, "Usage: powercalc batch [-v] cases.yaml")
		return exitUsage
	}
	file, err := batch.LoadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(e.stderr, "%v\n", err)
		return exitUsage
	}

	results := batch.Run(e.registry, file.Cases)
	failed := 0
	for _, r := range results {
		if r.Passed() {
			fmt.Fprintf(e.stdout, "PASS  %s\n", r.Case.Name)
			if *verbose && r.Outcome.OK() {
				for _, name := range r.Outcome.SolvedFor {
					fmt.Fprintf(e.stdout, "      %s = %s\n", name, format.Annotated(r.Outcome.Values[name], e.config.Precision()))
				}
			}
			continue
		}
		failed++
		fmt.Fprintf(e.stdout, "FAIL  %s: %s\n", r.Case.Name, strings.Join(r.Failures, "; "))
	}
	fmt.Fprintf(e.stdout, "%d passed, %d failed\n", len(results)-failed, failed)
	e.logbook.Info("CLI · batch %s · %d passed, %d failed", fs.Arg(0), len(results)-failed, failed)
	if failed > 0 {
		return exitInvalid
	}
	return exitOK
}
