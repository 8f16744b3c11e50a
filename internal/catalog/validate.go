package catalog

import (
	"fmt"
	"math"
	"sort"

	"github.com/roach88/prodnet/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// Recipe errors (E201-E209)
	ErrRecipeTime       = "E201" // craft time must be positive
	ErrNegativeQuantity = "E202" // input/output quantities must be non-negative
	ErrRecipeEmpty      = "E203" // recipe has neither inputs nor outputs
	ErrNotANumber       = "E204" // field is not a finite number

	// Unit errors (E210-E219)
	ErrUnitSpeed     = "E210" // unit speed must be positive
	ErrUnitEnergy    = "E211" // energy figures must be non-negative
	ErrUnitPollution = "E212" // base pollution must be non-negative

	// Module errors (E220-E229)
	ErrModuleEffect = "E220" // module effect is not finite
)

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled catalog.
// Returns all errors found (does not fail-fast), ordered by section and id.
func Validate(cat *ir.Catalog) []ValidationError {
	var errs []ValidationError
	for _, id := range cat.RecipeIDs() {
		errs = append(errs, validateRecipe(cat.Recipes[id])...)
	}
	for _, id := range sortedKeys(cat.Units) {
		errs = append(errs, validateUnit(cat.Units[id])...)
	}
	for _, id := range sortedKeys(cat.Modules) {
		errs = append(errs, validateModule(cat.Modules[id])...)
	}
	return errs
}

func validateRecipe(r *ir.Recipe) []ValidationError {
	var errs []ValidationError
	field := "recipe." + r.ID

	// E201: time must be positive
	if !finite(r.Time) || r.Time <= 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".time",
			Message: fmt.Sprintf("craft time must be positive, got %v", r.Time),
			Code:    ErrRecipeTime,
		})
	}

	// E203: something must flow
	if len(r.Input) == 0 && len(r.Output) == 0 {
		errs = append(errs, ValidationError{
			Field:   field,
			Message: "recipe has neither inputs nor outputs",
			Code:    ErrRecipeEmpty,
		})
	}

	// E202: quantities non-negative
	for _, section := range []struct {
		name string
		vec  ir.Vector
	}{{"input", r.Input}, {"output", r.Output}} {
		for _, res := range section.vec.Keys() {
			q := section.vec[res]
			if !finite(q) || q < 0 {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("%s.%s.%s", field, section.name, res),
					Message: fmt.Sprintf("quantity must be non-negative, got %v", q),
					Code:    ErrNegativeQuantity,
				})
			}
		}
	}
	return errs
}

func validateUnit(u *ir.UnitType) []ValidationError {
	var errs []ValidationError
	field := "unit." + u.ID

	// E210: speed must be positive
	if !finite(u.Speed) || u.Speed <= 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".speed",
			Message: fmt.Sprintf("speed must be positive, got %v", u.Speed),
			Code:    ErrUnitSpeed,
		})
	}

	// E212: pollution non-negative
	if !finite(u.Pollution) || u.Pollution < 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".pollution",
			Message: fmt.Sprintf("pollution must be non-negative, got %v", u.Pollution),
			Code:    ErrUnitPollution,
		})
	}

	// E211: energy figures non-negative
	if !finite(u.Energy.Max) || u.Energy.Max < 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".energy.max",
			Message: fmt.Sprintf("energy max must be non-negative, got %v", u.Energy.Max),
			Code:    ErrUnitEnergy,
		})
	}
	if !finite(u.Energy.Drain) || u.Energy.Drain < 0 {
		errs = append(errs, ValidationError{
			Field:   field + ".energy.drain",
			Message: fmt.Sprintf("energy drain must be non-negative, got %v", u.Energy.Drain),
			Code:    ErrUnitEnergy,
		})
	}
	return errs
}

func validateModule(m ir.Module) []ValidationError {
	var errs []ValidationError
	for _, effect := range []struct {
		name string
		v    float64
	}{
		{"speed", m.Speed},
		{"productivity", m.Productivity},
		{"pollution", m.Pollution},
		{"energy", m.Energy},
	} {
		if !finite(effect.v) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("module.%s.%s", m.ID, effect.name),
				Message: fmt.Sprintf("effect must be finite, got %v", effect.v),
				Code:    ErrModuleEffect,
			})
		}
	}
	return errs
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
