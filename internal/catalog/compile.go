package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/prodnet/internal/ir"
)

// CompileRecipe parses a CUE value into a Recipe.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the recipe struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`recipe: gear: { time: 0.5, input: { plate: 2 }, output: { gear: 1 } }`)
//	r, err := CompileRecipe("gear", v.LookupPath(cue.ParsePath("recipe.gear")))
func CompileRecipe(id string, v cue.Value) (*ir.Recipe, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// Parse time (required)
	timeVal := v.LookupPath(cue.ParsePath("time"))
	if !timeVal.Exists() {
		return nil, &CompileError{
			Field:   "time",
			Message: fmt.Sprintf("recipe %q: time is required", id),
			Pos:     v.Pos(),
		}
	}
	craftTime, err := number(timeVal, "time")
	if err != nil {
		return nil, err
	}

	input, err := parseVector(v, "input")
	if err != nil {
		return nil, err
	}
	output, err := parseVector(v, "output")
	if err != nil {
		return nil, err
	}

	return &ir.Recipe{
		ID:     id,
		Time:   craftTime,
		Input:  input,
		Output: output,
	}, nil
}

// CompileUnit parses a CUE value into a UnitType.
// speed is required; pollution and energy default to zero.
func CompileUnit(id string, v cue.Value) (*ir.UnitType, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	speedVal := v.LookupPath(cue.ParsePath("speed"))
	if !speedVal.Exists() {
		return nil, &CompileError{
			Field:   "speed",
			Message: fmt.Sprintf("unit %q: speed is required", id),
			Pos:     v.Pos(),
		}
	}
	speed, err := number(speedVal, "speed")
	if err != nil {
		return nil, err
	}

	unit := &ir.UnitType{ID: id, Speed: speed}
	if unit.Pollution, err = optionalNumber(v, "pollution"); err != nil {
		return nil, err
	}

	// Energy is optional; both members default to zero
	energyVal := v.LookupPath(cue.ParsePath("energy"))
	if energyVal.Exists() {
		if unit.Energy.Max, err = optionalNumber(energyVal, "max"); err != nil {
			return nil, err
		}
		if unit.Energy.Drain, err = optionalNumber(energyVal, "drain"); err != nil {
			return nil, err
		}
	}

	return unit, nil
}

// CompileModule parses a CUE value into a Module.
// Every effect is optional and defaults to zero.
func CompileModule(id string, v cue.Value) (ir.Module, error) {
	m := ir.Module{ID: id}
	if err := v.Err(); err != nil {
		return m, formatCUEError(err)
	}

	var err error
	if m.Speed, err = optionalNumber(v, "speed"); err != nil {
		return m, err
	}
	if m.Productivity, err = optionalNumber(v, "productivity"); err != nil {
		return m, err
	}
	if m.Pollution, err = optionalNumber(v, "pollution"); err != nil {
		return m, err
	}
	if m.Energy, err = optionalNumber(v, "energy"); err != nil {
		return m, err
	}
	return m, nil
}

// parseVector reads an optional resource → quantity struct.
func parseVector(v cue.Value, field string) (ir.Vector, error) {
	vec := make(ir.Vector)

	val := v.LookupPath(cue.ParsePath(field))
	if !val.Exists() {
		return vec, nil
	}

	iter, err := val.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		q, err := number(iter.Value(), field+"."+iter.Label())
		if err != nil {
			return nil, err
		}
		vec[ir.Resource(iter.Label())] = q
	}
	return vec, nil
}

func optionalNumber(v cue.Value, field string) (float64, error) {
	val := v.LookupPath(cue.ParsePath(field))
	if !val.Exists() {
		return 0, nil
	}
	return number(val, field)
}

// number accepts CUE ints and floats.
func number(v cue.Value, field string) (float64, error) {
	switch v.IncompleteKind() {
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
	default:
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("must be a number, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
	f, err := v.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
