package harness

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/roach88/prodnet/internal/engine"
	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/plan"
)

// Tolerance is the absolute difference allowed between quantities.
const Tolerance = 1e-9

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Node     string // Recipe path of the checked node
	Field    string // Field that differed
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s: expected %s, got %s", e.Node, e.Field, e.Expected, e.Actual)
}

// EvaluateExpectations checks every expectation against net and returns one
// message per mismatch.
func EvaluateExpectations(net *engine.Network, expects []Expectation) []string {
	var errs []string
	for _, e := range expects {
		for _, err := range checkExpectation(net, e) {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func checkExpectation(net *engine.Network, e Expectation) []error {
	n, lookupErr := plan.Lookup(net, e.Node)
	if e.Absent {
		if lookupErr == nil {
			return []error{&AssertionError{Node: e.Node, Field: "absent", Expected: "no node", Actual: "node " + string(n.ID())}}
		}
		return nil
	}
	if lookupErr != nil {
		return []error{&AssertionError{Node: e.Node, Field: "node", Expected: "a live node", Actual: "none"}}
	}

	var errs []error
	add := func(field, expected, actual string) {
		errs = append(errs, &AssertionError{Node: e.Node, Field: field, Expected: expected, Actual: actual})
	}

	if e.Capacity != nil && !scalar.EqualWithinAbs(*e.Capacity, n.Capacity(), Tolerance) {
		add("capacity", fmt.Sprint(*e.Capacity), fmt.Sprint(n.Capacity()))
	}
	if err := compareVector(e.Input, n.InputDemand()); err != "" {
		add("input", formatExpected(e.Input), err)
	}
	if err := compareVector(e.Output, n.OutputSupply()); err != "" {
		add("output", formatExpected(e.Output), err)
	}
	if err := compareVector(e.Supply, ir.Vector(n.SupplyRatio())); err != "" {
		add("supply", formatExpected(e.Supply), err)
	}
	if e.Sufficient != nil && *e.Sufficient != n.Sufficient() {
		add("sufficient", fmt.Sprint(*e.Sufficient), fmt.Sprint(n.Sufficient()))
	}
	if e.Count != nil && *e.Count != n.CountNodes() {
		add("count", fmt.Sprint(*e.Count), fmt.Sprint(n.CountNodes()))
	}
	if e.Stats != nil {
		s := n.Stats()
		for _, f := range []struct {
			name string
			want *float64
			got  float64
		}{
			{"stats.speed", e.Stats.Speed, s.Speed},
			{"stats.pollution", e.Stats.Pollution, s.Pollution},
			{"stats.energy", e.Stats.Energy, s.Energy},
		} {
			if f.want != nil && *f.want != f.got {
				add(f.name, fmt.Sprint(*f.want), fmt.Sprint(f.got))
			}
		}
	}
	return errs
}

// compareVector checks that every expected entry is present in actual
// within Tolerance. Extra entries in actual are ignored. Returns a
// description of actual on mismatch, or "".
func compareVector(expected map[string]float64, actual ir.Vector) string {
	for res, want := range expected {
		got, ok := actual[ir.Resource(res)]
		if !ok || !scalar.EqualWithinAbs(want, got, Tolerance) {
			return formatVector(actual)
		}
	}
	return ""
}

func formatExpected(m map[string]float64) string {
	v := make(ir.Vector, len(m))
	for k, q := range m {
		v[ir.Resource(k)] = q
	}
	return formatVector(v)
}

func formatVector(v ir.Vector) string {
	keys := v.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, v[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
