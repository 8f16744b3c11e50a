package harness

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/prodnet/internal/catalog"
	"github.com/roach88/prodnet/internal/config"
	"github.com/roach88/prodnet/internal/engine"
	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/plan"
	"github.com/roach88/prodnet/internal/testutil"
)

// Harness is the test execution engine.
// It applies scenario steps to one live network.
type Harness struct {
	net    *engine.Network
	cat    *ir.Catalog
	logger *slog.Logger
}

// Option configures a run.
type Option func(*runConfig)

type runConfig struct {
	catalog *ir.Catalog
	logger  *slog.Logger
	netOpts []engine.NetworkOption
}

// WithCatalog supplies the catalog directly instead of loading the
// scenario's catalog directory.
func WithCatalog(cat *ir.Catalog) Option {
	return func(c *runConfig) { c.catalog = cat }
}

// WithLogger sets the logger used by the harness and the network.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) { c.logger = l }
}

// WithNetworkOptions adds defaults applied before the plan's own settings.
func WithNetworkOptions(opts ...engine.NetworkOption) Option {
	return func(c *runConfig) { c.netOpts = append(c.netOpts, opts...) }
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh network with sequential node ids.
//
// Execution flow:
// 1. Load the catalog (unless one was supplied)
// 2. Build the plan
// 3. Apply steps, checking each against its expect_error
// 4. Evaluate expectations and render the final report
//
// Returns an error only when the scenario cannot be set up.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: config.Discard()}
	for _, opt := range opts {
		opt(&cfg)
	}

	cat := cfg.catalog
	if cat == nil {
		loaded, errs := catalog.Load(scenario.Catalog, catalog.LoadModeFailFast)
		if len(errs) > 0 {
			return nil, fmt.Errorf("failed to load catalog: %w", errors.Join(errs...))
		}
		cat = loaded.Catalog
	}

	netOpts := append([]engine.NetworkOption{
		engine.WithLogger(cfg.logger),
		engine.WithIDGenerator(testutil.NewSequentialIDs("node")),
	}, cfg.netOpts...)
	net, err := plan.Build(scenario.Plan, cat, netOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build plan: %w", err)
	}

	h := &Harness{net: net, cat: cat, logger: cfg.logger}
	result := NewResult()
	h.executeSteps(scenario.Steps, result)

	for _, msg := range EvaluateExpectations(net, scenario.Expect) {
		result.AddError(msg)
	}
	result.Report = plan.Render(net, scenario.Plan.Name)
	return result, nil
}

// executeSteps applies every step in order. Failures are recorded on the
// result and do not stop later steps.
func (h *Harness) executeSteps(steps []Step, result *Result) {
	for i, st := range steps {
		detail, err := h.apply(st)

		ev := TraceEvent{Step: i, Action: st.Action, Node: st.Node, Detail: detail}
		code := ""
		if err != nil {
			code = ErrorCode(err)
			ev.Error = code
		}
		result.AddTrace(ev)

		switch {
		case st.ExpectError == "" && err != nil:
			result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", i, st.Action, err))
		case st.ExpectError != "" && err == nil:
			result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got success", i, st.Action, st.ExpectError))
		case st.ExpectError != "" && code != st.ExpectError:
			result.AddError(fmt.Sprintf("steps[%d] %s: expected error %s, got %s: %v", i, st.Action, st.ExpectError, code, err))
		}

		h.logger.Debug("step applied",
			"step", i,
			"action", st.Action,
			"node", st.Node,
			"detail", detail,
			"error", code,
		)
	}
}

// apply performs one step and returns a short description of its effect.
func (h *Harness) apply(st Step) (string, error) {
	switch st.Action {
	case ActionSetCycleLength:
		if err := h.net.SetCycleLength(*st.Value); err != nil {
			return "", err
		}
		return "cycle_length=" + formatFloat(h.net.CycleLength()), nil
	case ActionSetCycleScaling:
		h.net.SetCycleScaling(*st.Enabled)
		return fmt.Sprintf("cycle_scaling=%t", *st.Enabled), nil
	case ActionSetCapacityScaling:
		h.net.SetCapacityScaling(*st.Enabled)
		return fmt.Sprintf("capacity_scaling=%t", *st.Enabled), nil
	case ActionRemove:
		return h.remove(st)
	case ActionRegister:
		child, err := plan.Attach(h.net, h.cat, st.Node, st.Child)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("registered=%s capacity=%s", child.Recipe().ID, formatFloat(child.Capacity())), nil
	}

	n, err := plan.Lookup(h.net, st.Node)
	if err != nil {
		return "", err
	}

	switch st.Action {
	case ActionSetCapacity:
		if err := n.SetCapacity(*st.Value); err != nil {
			return "", err
		}
	case ActionSetOutput:
		changed, err := n.SetDesiredOutput(ir.Resource(st.Resource), *st.Value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("changed=%t capacity=%s", changed, formatFloat(n.Capacity())), nil
	case ActionSetUnit:
		var unit *ir.UnitType
		if st.Unit != "" {
			if unit, err = h.cat.Unit(st.Unit); err != nil {
				return "", err
			}
		}
		if err := n.SetUnit(unit); err != nil {
			return "", err
		}
		return "unit=" + st.Unit, nil
	case ActionSetModules:
		modules, err := h.cat.ModuleConfig(st.Modules)
		if err != nil {
			return "", err
		}
		if err := n.SetModules(modules); err != nil {
			return "", err
		}
		return "modules=" + strings.Join(st.Modules, "+"), nil
	default:
		return "", fmt.Errorf("unknown action %q", st.Action)
	}
	return "capacity=" + formatFloat(n.Capacity()), nil
}

// remove deletes by recipe id, searching below st.Node when set and from the
// root otherwise.
func (h *Harness) remove(st Step) (string, error) {
	before := h.net.Len()
	var removed bool
	if st.Node != "" {
		n, err := plan.Lookup(h.net, st.Node)
		if err != nil {
			return "", err
		}
		removed = n.Remove(st.Recipe)
	} else {
		removed = h.net.Remove(st.Recipe)
	}
	if !removed {
		return "", &NoMatchError{Recipe: st.Recipe}
	}
	return fmt.Sprintf("removed=%s nodes=%d", st.Recipe, before-h.net.Len()), nil
}

// NoMatchError is returned when a remove step matches no node.
type NoMatchError struct {
	Recipe string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no node with recipe %q", e.Recipe)
}

// Harness error codes for failures that are not engine errors.
const (
	ErrCodeNodeNotFound  = "NODE_NOT_FOUND"
	ErrCodeNoMatch       = "NO_MATCH"
	ErrCodeUnknownPrefix = "UNKNOWN_"
	ErrCodeInvalid       = "INVALID"
)

// ErrorCode classifies a step error for expect_error matching.
//
// Engine errors keep their own code. Catalog misses map to UNKNOWN_RECIPE,
// UNKNOWN_UNIT or UNKNOWN_MODULE.
func ErrorCode(err error) string {
	var rtErr *engine.RuntimeError
	if errors.As(err, &rtErr) {
		return string(rtErr.Code)
	}
	var notFound *ir.NotFoundError
	if errors.As(err, &notFound) {
		return ErrCodeUnknownPrefix + strings.ToUpper(string(notFound.Kind))
	}
	var pathErr *plan.PathError
	if errors.As(err, &pathErr) {
		return ErrCodeNodeNotFound
	}
	var noMatch *NoMatchError
	if errors.As(err, &noMatch) {
		return ErrCodeNoMatch
	}
	return ErrCodeInvalid
}

func formatFloat(f float64) string {
	s, err := ir.FormatFloat(f)
	if err != nil {
		return fmt.Sprint(f)
	}
	return s
}
