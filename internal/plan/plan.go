package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/prodnet/internal/config"
	"github.com/roach88/prodnet/internal/ir"
)

// Plan is the root of a plan file.
// Network settings left nil fall back to the configured engine defaults.
type Plan struct {
	Name            string    `yaml:"name" validate:"required"`
	Description     string    `yaml:"description,omitempty"`
	CycleLength     *float64  `yaml:"cycle_length,omitempty" validate:"omitempty,gt=0"`
	CycleScaling    *bool     `yaml:"cycle_scaling,omitempty"`
	CapacityScaling *bool     `yaml:"capacity_scaling,omitempty"`
	Root            *NodeSpec `yaml:"root" validate:"required"`
}

// NodeSpec describes one node and its suppliers.
type NodeSpec struct {
	Recipe   string             `yaml:"recipe" validate:"required"`
	Unit     string             `yaml:"unit,omitempty"`
	Modules  []string           `yaml:"modules,omitempty" validate:"dive,required"`
	Capacity *float64           `yaml:"capacity,omitempty" validate:"omitempty,gte=0"`
	Target   map[string]float64 `yaml:"target,omitempty" validate:"dive,keys,required,endkeys,gte=0"`
	Children []*NodeSpec        `yaml:"children,omitempty" validate:"dive,required"`
}

// Load reads and validates a plan file.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes plan YAML. Unknown fields are rejected.
func Parse(data []byte) (*Plan, error) {
	var p Plan
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse plan: empty document")
		}
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks required fields and value ranges.
func (p *Plan) Validate() error {
	return config.NewValidator().Validate(p)
}

// Walk visits every node spec depth-first with its slash-separated recipe
// path.
func (p *Plan) Walk(fn func(path string, spec *NodeSpec)) {
	if p.Root == nil {
		return
	}
	var visit func(prefix string, s *NodeSpec)
	visit = func(prefix string, s *NodeSpec) {
		path := s.Recipe
		if prefix != "" {
			path = prefix + "/" + s.Recipe
		}
		fn(path, s)
		for _, c := range s.Children {
			visit(path, c)
		}
	}
	visit("", p.Root)
}

// Hash returns a stable content hash of the plan.
func (p *Plan) Hash() (string, error) {
	desc := map[string]any{"name": p.Name}
	if p.CycleLength != nil {
		desc["cycle_length"] = *p.CycleLength
	}
	if p.CycleScaling != nil {
		desc["cycle_scaling"] = *p.CycleScaling
	}
	if p.CapacityScaling != nil {
		desc["capacity_scaling"] = *p.CapacityScaling
	}
	if p.Root != nil {
		desc["root"] = p.Root.describe()
	}
	return ir.PlanHash(desc)
}

func (s *NodeSpec) describe() map[string]any {
	d := map[string]any{
		"recipe":  s.Recipe,
		"unit":    s.Unit,
		"modules": append([]string{}, s.Modules...),
	}
	if s.Capacity != nil {
		d["capacity"] = *s.Capacity
	}
	if len(s.Target) > 0 {
		target := make(map[string]any, len(s.Target))
		for res, q := range s.Target {
			target[res] = q
		}
		d["target"] = target
	}
	children := make([]any, 0, len(s.Children))
	for _, c := range s.Children {
		if c != nil {
			children = append(children, c.describe())
		}
	}
	d["children"] = children
	return d
}
