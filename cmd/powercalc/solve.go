package main

import (
	"flag"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/modes"
	"github.com/kingrea/powercalc/internal/quantity"
)

// keyValueFlag collects NAME=VALUE pairs.
type keyValueFlag map[string]string

func (kv *keyValueFlag) String() string {
	if kv == nil || len(*kv) == 0 {
		return ""
	}
	var pairs []string
	for key, value := range *kv {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ", ")
}

func (kv *keyValueFlag) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected NAME=VALUE, got %q", value)
	}
	key := strings.TrimSpace(parts[0])
	if key == "" {
		return fmt.Errorf("variable name is empty in %q", value)
	}
	if *kv == nil {
		*kv = keyValueFlag{}
	}
	(*kv)[key] = strings.TrimSpace(parts[1])
	return nil
}

// runSolve resolves one calculator from NAME=VALUE arguments, e.g.
// `powercalc solve ohm V=10 I=2`.
func runSolve(e *env, args []string) int {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	precision := fs.Int("precision", e.config.Precision(), "significant digits")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if *precision < 1 {
		fmt.Fprintf(e.stderr, "-precision must be at least 1, got %d\n", *precision)
		return exitUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(e.stderr, "Usage: powercalc solve <%s> NAME=VALUE ...\n", strings.Join(e.registry.IDs(), "|"))
		return exitUsage
	}
	res, err := e.registry.Lookup(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(e.stderr, "%v\n", err)
		return exitUsage
	}

	pairs := keyValueFlag{}
	for _, arg := range fs.Args()[1:] {
		if err := pairs.Set(arg); err != nil {
			fmt.Fprintf(e.stderr, "%v\n", err)
			return exitUsage
		}
	}
	vars := res.Variables()
	knowns, err := parseKnowns(vars, pairs)
	if err != nil {
		fmt.Fprintf(e.stderr, "%v\n", err)
		return exitUsage
	}

	out := res.Resolve(knowns)
	if !out.OK() {
		fmt.Fprintf(e.stdout, "%s: %s\n", res.Name(), out.Reason)
		e.logbook.Warn("CLI · %s · %s", res.Name(), out.Reason)
		return exitInvalid
	}
	fmt.Fprintf(e.stdout, "%s\n", res.Name())
	for _, v := range vars {
		val, ok := out.Values[v.Name]
		if !ok {
			continue
		}
		marker := ""
		if out.Solved(v.Name) {
			marker = "  (solved)"
		}
		unit := ""
		if v.Unit != "" {
			unit = " " + v.Unit
		}
		fmt.Fprintf(e.stdout, "  %-5s %s%s%s\n", v.Name, format.Annotated(val, *precision), unit, marker)
	}
	names := make([]quantity.Name, 0, len(vars))
	for _, v := range vars {
		names = append(names, v.Name)
	}
	e.logbook.Info("CLI · %s · %s", res.Name(), modes.DescribeValues(out.Values, names))
	return exitOK
}

// parseKnowns maps NAME=VALUE pairs onto the calculator's variables. Names
// match case-insensitively; unknown names and unparseable numbers are usage
// errors.
func parseKnowns(vars []quantity.Variable, pairs keyValueFlag) (quantity.Knowns, error) {
	knowns := quantity.Knowns{}
	for key, raw := range pairs {
		var name quantity.Name
		for _, v := range vars {
			if strings.EqualFold(string(v.Name), key) {
				name = v.Name
				break
			}
		}
		if name == "" {
			return nil, fmt.Errorf("unknown variable %q", key)
		}
		if knowns.Has(name) {
			return nil, fmt.Errorf("%s given more than once", name)
		}
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil || !quantity.IsFinite(val) {
			return nil, fmt.Errorf("%s: %q is not a number", name, raw)
		}
		knowns[name] = val
	}
	return knowns, nil
}
