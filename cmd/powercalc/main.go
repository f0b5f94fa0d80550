// cmd/powercalc/main.go
//
// This is the entry point for the powercalc CLI.
//
// Flow:
// 1. With a subcommand (solve, wire, vdrop, batch) run it once and exit
// 2. Otherwise load the config, open the history log and launch the TUI

package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/powercalc/internal/config"
	"github.com/kingrea/powercalc/internal/logbook"
	"github.com/kingrea/powercalc/internal/logging"
	"github.com/kingrea/powercalc/internal/resolver"
	"github.com/kingrea/powercalc/internal/tui"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

// command is a one-shot subcommand. It writes results to stdout and
// diagnostics to stderr and returns the process exit code.
type command func(env *env, args []string) int

var commands = map[string]command{
	"solve": runSolve,
	"wire":  runWire,
	"vdrop": runVoltageDrop,
	"batch": runBatch,
}

// env carries what every subcommand needs.
type env struct {
	config   *config.Config
	logbook  *logbook.Logbook
	registry *resolver.Registry
	stdout   io.Writer
	stderr   io.Writer
}

func main() {
	if len(os.Args) > 1 {
		name := os.Args[1]
		if name == "help" || name == "-h" || name == "--help" {
			usage(os.Stdout)
			return
		}
		cmd, ok := commands[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", name)
			usage(os.Stderr)
			os.Exit(exitUsage)
		}
		e, err := newEnv(os.Stdout, os.Stderr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(exitInvalid)
		}
		os.Exit(cmd(e, os.Args[2:]))
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(exitInvalid)
	}
	diag, err := logging.New(cfg.LogsDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: diagnostics log disabled: %v\n", err)
	}
	defer diag.Close()

	lb, err := logbook.New(cfg.HistoryPath())
	if err != nil {
		// History is optional; the calculators work without it.
		fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
		diag.Printf("history disabled: %v", err)
	}
	diag.Printf("tui start · home %s · session %s", cfg.Home, lb.Session())

	// Create and run the TUI
	p := tea.NewProgram(
		tui.NewApp(cfg, tui.WithLogbook(lb)),
		tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
	)

	// Run blocks until the user quits
	if _, err := p.Run(); err != nil {
		diag.Printf("tui failed: %v", err)
		diag.Close()
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(exitInvalid)
	}
	diag.Printf("tui exit")
}

func newEnv(stdout, stderr io.Writer) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.HistoryPath())
	if err != nil {
		fmt.Fprintf(stderr, "Warning: history disabled: %v\n", err)
	}
	return &env{
		config:   cfg,
		logbook:  lb,
		registry: resolver.Builtin(),
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  powercalc                                   interactive calculator
  powercalc solve <ohm|three-phase> K=V ...   resolve a variable set
  powercalc wire -length M -area MM2 [-material NAME | -rho OHM_M]
  powercalc vdrop -phase 1|3 -volts V -current A -length M -area MM2 [-material NAME]
  powercalc batch cases.yaml                  run YAML batch cases
`)
}
