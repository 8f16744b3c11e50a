package plan

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/gocarina/gocsv"

	"github.com/roach88/prodnet/internal/engine"
	"github.com/roach88/prodnet/internal/ir"
)

// Report is a point-in-time snapshot of a network.
type Report struct {
	Plan            string
	CycleLength     float64
	CycleScaling    bool
	CapacityScaling bool
	TotalEnergy     float64
	TotalPollution  float64
	Nodes           []NodeReport
}

// NodeReport is one node of a report, in depth-first order.
type NodeReport struct {
	Path       string
	Depth      int
	Recipe     string
	Unit       string
	Modules    []string
	Capacity   float64
	Inputs     ir.Vector // demand per cycle
	Outputs    ir.Vector // supply per cycle
	Supply     ir.Ratios
	Sufficient bool
	Unsupplied []string
	Stats      engine.Stats
}

// Render snapshots net under the given plan name.
func Render(net *engine.Network, planName string) *Report {
	r := &Report{
		Plan:            planName,
		CycleLength:     net.CycleLength(),
		CycleScaling:    net.CycleScaling(),
		CapacityScaling: net.CapacityScaling(),
		Nodes:           []NodeReport{},
	}
	if root := net.Root(); root != nil {
		r.TotalEnergy = root.TotalEnergy()
		r.TotalPollution = root.TotalPollution()
	}

	var stack []string
	net.Walk(func(n *engine.Node, depth int) bool {
		stack = append(stack[:depth], n.Recipe().ID)
		r.Nodes = append(r.Nodes, nodeReport(strings.Join(stack, "/"), depth, n))
		return true
	})
	return r
}

func nodeReport(path string, depth int, n *engine.Node) NodeReport {
	nr := NodeReport{
		Path:       path,
		Depth:      depth,
		Recipe:     n.Recipe().ID,
		Modules:    n.Modules().IDs(),
		Capacity:   n.Capacity(),
		Inputs:     n.InputDemand(),
		Outputs:    n.OutputSupply(),
		Supply:     n.SupplyRatio(),
		Sufficient: n.Sufficient(),
		Unsupplied: []string{},
		Stats:      n.Stats(),
	}
	if u := n.Unit(); u != nil {
		nr.Unit = u.ID
	}
	if nr.Modules == nil {
		nr.Modules = []string{}
	}
	for _, res := range n.Unsupplied() {
		nr.Unsupplied = append(nr.Unsupplied, string(res))
	}
	return nr
}

// Node returns the node report at path.
func (r *Report) Node(path string) (NodeReport, bool) {
	for _, n := range r.Nodes {
		if n.Path == path {
			return n, true
		}
	}
	return NodeReport{}, false
}

// Canonical returns the report as a canonical JSON object tree.
func (r *Report) Canonical() map[string]any {
	nodes := make([]any, len(r.Nodes))
	for i, n := range r.Nodes {
		nodes[i] = map[string]any{
			"path":       n.Path,
			"depth":      n.Depth,
			"recipe":     n.Recipe,
			"unit":       n.Unit,
			"modules":    n.Modules,
			"capacity":   n.Capacity,
			"inputs":     n.Inputs,
			"outputs":    n.Outputs,
			"supply":     n.Supply,
			"sufficient": n.Sufficient,
			"unsupplied": n.Unsupplied,
			"stats": map[string]any{
				"speed":     n.Stats.Speed,
				"pollution": n.Stats.Pollution,
				"energy":    n.Stats.Energy,
			},
		}
	}
	return map[string]any{
		"plan":             r.Plan,
		"version":          ir.ReportVersion,
		"cycle_length":     r.CycleLength,
		"cycle_scaling":    r.CycleScaling,
		"capacity_scaling": r.CapacityScaling,
		"total_energy":     r.TotalEnergy,
		"total_pollution":  r.TotalPollution,
		"nodes":            nodes,
	}
}

// JSON renders the report as canonical JSON.
func (r *Report) JSON() ([]byte, error) {
	data, err := ir.MarshalCanonical(r.Canonical())
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return data, nil
}

// ID returns the content-addressed id of the rendered report.
func (r *Report) ID() (string, error) {
	body, err := r.JSON()
	if err != nil {
		return "", err
	}
	return ir.ReportID(r.Plan, body), nil
}

// WriteText renders the report as an aligned table.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Plan: %s (cycle %s)\n\n", r.Plan, formatFloat(r.CycleLength))
	fmt.Fprintln(tw, "NODE\tUNIT\tCAPACITY\tSUPPLY\tOK\tSPEED\tPOLLUTION\tENERGY")
	for _, n := range r.Nodes {
		unit := n.Unit
		if unit == "" {
			unit = "-"
		}
		ok := "yes"
		if !n.Sufficient {
			ok = "no"
		}
		fmt.Fprintf(tw, "%s%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			strings.Repeat("  ", n.Depth), n.Recipe,
			unit,
			formatFloat(n.Capacity),
			formatRatios(n.Supply),
			ok,
			formatFloat(n.Stats.Speed),
			formatFloat(n.Stats.Pollution),
			formatFloat(n.Stats.Energy),
		)
	}
	fmt.Fprintf(tw, "\nTotal energy: %s\tTotal pollution: %s\n",
		formatFloat(r.TotalEnergy), formatFloat(r.TotalPollution))
	return tw.Flush()
}

// Row is the flat CSV form of a NodeReport.
type Row struct {
	Path       string  `csv:"path"`
	Recipe     string  `csv:"recipe"`
	Unit       string  `csv:"unit"`
	Modules    string  `csv:"modules"`
	Capacity   float64 `csv:"capacity"`
	Inputs     string  `csv:"inputs"`
	Outputs    string  `csv:"outputs"`
	Supply     string  `csv:"supply"`
	Sufficient bool    `csv:"sufficient"`
	Speed      float64 `csv:"speed"`
	Pollution  float64 `csv:"pollution"`
	Energy     float64 `csv:"energy"`
}

// Rows flattens the report for CSV export.
func (r *Report) Rows() []*Row {
	rows := make([]*Row, len(r.Nodes))
	for i, n := range r.Nodes {
		rows[i] = &Row{
			Path:       n.Path,
			Recipe:     n.Recipe,
			Unit:       n.Unit,
			Modules:    strings.Join(n.Modules, "+"),
			Capacity:   n.Capacity,
			Inputs:     formatVector(n.Inputs),
			Outputs:    formatVector(n.Outputs),
			Supply:     formatRatios(n.Supply),
			Sufficient: n.Sufficient,
			Speed:      n.Stats.Speed,
			Pollution:  n.Stats.Pollution,
			Energy:     n.Stats.Energy,
		}
	}
	return rows
}

// WriteCSV writes one row per node with a header line.
func (r *Report) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(r.Rows(), w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// formatVector renders "a=1;b=2" in sorted key order.
func formatVector(v ir.Vector) string {
	parts := make([]string, 0, len(v))
	for _, k := range v.Keys() {
		parts = append(parts, string(k)+"="+formatFloat(v[k]))
	}
	return strings.Join(parts, ";")
}

func formatRatios(r ir.Ratios) string {
	if len(r) == 0 {
		return "-"
	}
	return formatVector(ir.Vector(r))
}

func formatFloat(f float64) string {
	s, err := ir.FormatFloat(f)
	if err != nil {
		return fmt.Sprint(f)
	}
	return s
}
