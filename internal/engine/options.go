package engine

import (
	"io"
	"log/slog"

	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/rates"
	"github.com/roach88/prodnet/internal/reactive"
)

// Default network settings.
const (
	DefaultCycleLength = 1.0
	DefaultCapacity    = 1.0
)

// settings collects option values before the network is built.
type settings struct {
	cycleLength     float64
	cycleScaling    bool
	capacityScaling bool
	formulas        rates.Formulas
	logger          *slog.Logger
	ids             IDGenerator
	maxCascade      int
}

// NetworkOption allows configuration of network parameters.
type NetworkOption func(*settings)

// WithCycleLength sets the initial shared cycle length.
// Default: 1 (quantities per time unit).
func WithCycleLength(length float64) NetworkOption {
	return func(s *settings) {
		s.cycleLength = length
	}
}

// WithCycleScaling makes pollution and energy stats scale with cycle length.
func WithCycleScaling(enabled bool) NetworkOption {
	return func(s *settings) {
		s.cycleScaling = enabled
	}
}

// WithCapacityScaling makes pollution and energy stats scale with capacity.
func WithCapacityScaling(enabled bool) NetworkOption {
	return func(s *settings) {
		s.capacityScaling = enabled
	}
}

// WithFormulas substitutes the rate function library.
func WithFormulas(f rates.Formulas) NetworkOption {
	return func(s *settings) {
		s.formulas = f
	}
}

// WithLogger sets the structured logger. Default discards.
func WithLogger(l *slog.Logger) NetworkOption {
	return func(s *settings) {
		s.logger = l
	}
}

// WithIDGenerator sets the node id source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) NetworkOption {
	return func(s *settings) {
		s.ids = g
	}
}

// WithMaxCascade sets the nested propagation limit.
// Default: reactive.DefaultMaxCascade.
func WithMaxCascade(n int) NetworkOption {
	return func(s *settings) {
		s.maxCascade = n
	}
}

func defaultSettings() settings {
	return settings{
		cycleLength: DefaultCycleLength,
		formulas:    rates.Default{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		ids:         UUIDv7Generator{},
		maxCascade:  reactive.DefaultMaxCascade,
	}
}

// nodeSettings collects per-node option values.
type nodeSettings struct {
	unit     *ir.UnitType
	modules  ir.ModuleConfig
	capacity float64
}

// NodeOption configures a node at creation.
type NodeOption func(*nodeSettings)

// WithUnit assigns the unit type. Default: none.
func WithUnit(u *ir.UnitType) NodeOption {
	return func(s *nodeSettings) {
		s.unit = u
	}
}

// WithModules equips modules. Default: none.
func WithModules(cfg ir.ModuleConfig) NodeOption {
	return func(s *nodeSettings) {
		s.modules = cfg
	}
}

// WithCapacity sets the initial capacity. Default: 1.
func WithCapacity(c float64) NodeOption {
	return func(s *nodeSettings) {
		s.capacity = c
	}
}
