// Package batch runs calculation cases described in a YAML file through the
// resolver registry and checks them against expected values.
package batch

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/powercalc/internal/format"
	"github.com/kingrea/powercalc/internal/quantity"
	"github.com/kingrea/powercalc/internal/resolver"
)

// DefaultTolerance applies to cases that do not set one.
const DefaultTolerance = 1e-9

// Case is one calculation with optional expectations.
type Case struct {
	Name         string             `yaml:"name"`
	Calculator   string             `yaml:"calculator"`
	Knowns       map[string]float64 `yaml:"knowns"`
	Expect       map[string]float64 `yaml:"expect,omitempty"`
	ExpectStatus string             `yaml:"expect_status,omitempty"`
	Tolerance    float64            `yaml:"tolerance,omitempty"`
}

// File models a batch YAML document.
type File struct {
	Cases []Case `yaml:"cases"`
}

// Result pairs a case with its outcome and any mismatches.
type Result struct {
	Case     Case
	Outcome  quantity.Outcome
	Failures []string
}

// Passed reports whether every expectation held.
func (r Result) Passed() bool {
	return len(r.Failures) == 0
}

// Parse decodes and validates a batch payload.
func Parse(data []byte) (File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return File{}, fmt.Errorf("batch: payload is empty")
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("batch: decode: %w", err)
	}
	if len(f.Cases) == 0 {
		return File{}, fmt.Errorf("batch: no cases defined")
	}
	for i := range f.Cases {
		c := &f.Cases[i]
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		c.Calculator = strings.TrimSpace(c.Calculator)
		if c.Calculator == "" {
			return File{}, fmt.Errorf("batch: %s: calculator is required", c.Name)
		}
		c.ExpectStatus = strings.ToLower(strings.TrimSpace(c.ExpectStatus))
		switch quantity.Status(c.ExpectStatus) {
		case "":
			c.ExpectStatus = string(quantity.StatusResolved)
		case quantity.StatusResolved, quantity.StatusInvalid, quantity.StatusAmbiguous:
		default:
			return File{}, fmt.Errorf("batch: %s: unknown expect_status %q", c.Name, c.ExpectStatus)
		}
		if c.Tolerance < 0 {
			return File{}, fmt.Errorf("batch: %s: tolerance cannot be negative", c.Name)
		}
		if c.Tolerance == 0 {
			c.Tolerance = DefaultTolerance
		}
	}
	return f, nil
}

// LoadFile reads and parses a batch file from disk.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("batch: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("batch: %s: %w", path, err)
	}
	return f, nil
}

// Run resolves every case in order.
func Run(reg *resolver.Registry, cases []Case) []Result {
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		results = append(results, runCase(reg, c))
	}
	return results
}

func runCase(reg *resolver.Registry, c Case) Result {
	res, err := reg.Lookup(c.Calculator)
	if err != nil {
		return Result{Case: c, Outcome: quantity.Invalid(err.Error()), Failures: []string{err.Error()}}
	}
	vars := res.Variables()
	knowns := quantity.Knowns{}
	var failures []string
	for name, v := range c.Knowns {
		if _, ok := quantity.Lookup(vars, quantity.Name(name)); !ok {
			failures = append(failures, fmt.Sprintf("unknown variable %q for %s", name, res.ID()))
			continue
		}
		knowns[quantity.Name(name)] = v
	}
	if len(failures) > 0 {
		sort.Strings(failures)
		return Result{Case: c, Outcome: quantity.Invalid(failures[0]), Failures: failures}
	}

	out := res.Resolve(knowns)
	if string(out.Status) != c.ExpectStatus {
		detail := out.Reason
		if detail == "" {
			detail = "no error"
		}
		failures = append(failures, fmt.Sprintf("status %s, want %s (%s)", out.Status, c.ExpectStatus, detail))
		return Result{Case: c, Outcome: out, Failures: failures}
	}
	names := make([]string, 0, len(c.Expect))
	for name := range c.Expect {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		want := c.Expect[name]
		got, ok := out.Values[quantity.Name(name)]
		if !ok {
			failures = append(failures, fmt.Sprintf("%s missing from result", name))
			continue
		}
		if !scalar.EqualWithinAbsOrRel(got, want, c.Tolerance, c.Tolerance) {
			failures = append(failures, fmt.Sprintf("%s = %s, want %s", name, format.Number(got, 8), format.Number(want, 8)))
		}
	}
	return Result{Case: c, Outcome: out, Failures: failures}
}
