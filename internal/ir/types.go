package ir

import (
	"fmt"
	"sort"
)

// Resource identifies a material flowing through the network.
type Resource string

// Vector maps resources to quantities.
// Quantities are per craft on a Recipe, per time unit or per cycle elsewhere.
type Vector map[Resource]float64

// Get returns the quantity for r and whether r is present.
func (v Vector) Get(r Resource) (float64, bool) {
	q, ok := v[r]
	return q, ok
}

// Keys returns the resources in v sorted lexically.
func (v Vector) Keys() []Resource {
	keys := make([]Resource, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Scale returns a new vector with every quantity multiplied by f.
func (v Vector) Scale(f float64) Vector {
	out := make(Vector, len(v))
	for k, q := range v {
		out[k] = q * f
	}
	return out
}

// Clone returns a shallow copy of v. A nil vector clones to an empty one.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for k, q := range v {
		out[k] = q
	}
	return out
}

// Equal reports whether v and o hold the same resources and quantities.
func (v Vector) Equal(o Vector) bool {
	if len(v) != len(o) {
		return false
	}
	for k, q := range v {
		oq, ok := o[k]
		if !ok || oq != q {
			return false
		}
	}
	return true
}

// Ratios maps a consumed resource to the fraction of demand met by a supplier.
type Ratios map[Resource]float64

// Equal reports whether r and o hold the same entries.
func (r Ratios) Equal(o Ratios) bool {
	return Vector(r).Equal(Vector(o))
}

// Keys returns the resources in r sorted lexically.
func (r Ratios) Keys() []Resource {
	return Vector(r).Keys()
}

// Recipe is a conversion rule: Input quantities are consumed and Output
// quantities produced once per craft, a craft taking Time seconds at speed 1.
type Recipe struct {
	ID     string  `json:"id"`
	Time   float64 `json:"time"`
	Input  Vector  `json:"input"`
	Output Vector  `json:"output"`
}

// HasInputs reports whether the recipe consumes anything.
func (r *Recipe) HasInputs() bool {
	return len(r.Input) > 0
}

// Energy holds a unit's power draw figures.
type Energy struct {
	Max   float64 `json:"max"`
	Drain float64 `json:"drain"`
}

// UnitType is a building or machine that runs recipes.
type UnitType struct {
	ID        string  `json:"id"`
	Speed     float64 `json:"speed"`
	Pollution float64 `json:"pollution"`
	Energy    Energy  `json:"energy"`
}

// Module is an upgrade that can be equipped in a unit.
// Each field is an additive contribution to the matching modifier.
type Module struct {
	ID           string  `json:"id"`
	Speed        float64 `json:"speed"`
	Productivity float64 `json:"productivity"`
	Pollution    float64 `json:"pollution"`
	Energy       float64 `json:"energy"`
}

// ModuleConfig is the ordered set of modules equipped in a node.
type ModuleConfig []Module

// IDs returns the module ids in equip order.
func (c ModuleConfig) IDs() []string {
	ids := make([]string, len(c))
	for i, m := range c {
		ids[i] = m.ID
	}
	return ids
}

// Equal reports whether both configurations equip the same modules in order.
func (c ModuleConfig) Equal(o ModuleConfig) bool {
	if len(c) != len(o) {
		return false
	}
	for i := range c {
		if c[i] != o[i] {
			return false
		}
	}
	return true
}

// Kind names a catalog section.
type Kind string

const (
	KindRecipe Kind = "recipe"
	KindUnit   Kind = "unit"
	KindModule Kind = "module"
)

// NotFoundError is returned when a catalog lookup misses.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.ID)
}

// Catalog holds the recipes, unit types and modules a plan may reference.
type Catalog struct {
	Recipes map[string]*Recipe
	Units   map[string]*UnitType
	Modules map[string]Module
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Recipes: make(map[string]*Recipe),
		Units:   make(map[string]*UnitType),
		Modules: make(map[string]Module),
	}
}

// Recipe looks up a recipe by id.
func (c *Catalog) Recipe(id string) (*Recipe, error) {
	r, ok := c.Recipes[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindRecipe, ID: id}
	}
	return r, nil
}

// Unit looks up a unit type by id.
func (c *Catalog) Unit(id string) (*UnitType, error) {
	u, ok := c.Units[id]
	if !ok {
		return nil, &NotFoundError{Kind: KindUnit, ID: id}
	}
	return u, nil
}

// ModuleConfig resolves module ids into a configuration, preserving order.
func (c *Catalog) ModuleConfig(ids []string) (ModuleConfig, error) {
	cfg := make(ModuleConfig, 0, len(ids))
	for _, id := range ids {
		m, ok := c.Modules[id]
		if !ok {
			return nil, &NotFoundError{Kind: KindModule, ID: id}
		}
		cfg = append(cfg, m)
	}
	return cfg, nil
}

// RecipeIDs returns all recipe ids sorted lexically.
func (c *Catalog) RecipeIDs() []string {
	ids := make([]string, 0, len(c.Recipes))
	for id := range c.Recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
