package engine

import (
	"fmt"
	"math"

	"github.com/roach88/prodnet/internal/ir"
	"github.com/roach88/prodnet/internal/rates"
)

// SetCapacity drives the node forward from a known capacity.
//
// The value is rounded to rates.CapacityPrecision decimals before it is
// stored. Negative or non-finite values are rejected and the previous
// capacity is kept.
func (n *Node) SetCapacity(c float64) error {
	if err := n.net.checkOwned(n); err != nil {
		return err
	}
	if err := validateCapacity(c); err != nil {
		err.NodeID = n.id
		err.Recipe = n.recipe.ID
		return err
	}
	if n.capacity.Set(rates.RoundCapacity(c)) {
		n.net.logger.Debug("capacity set",
			"node", n.id,
			"recipe", n.recipe.ID,
			"capacity", n.capacity.Get(),
		)
	}
	return nil
}

// SetDesiredOutput solves backward: it sets capacity so that the per-cycle
// output of res equals q.
//
// Returns true if capacity changed. A write that resolves to the current
// capacity changes nothing and propagates nothing, so repeating a write is
// idempotent. On error the previous capacity is kept.
func (n *Node) SetDesiredOutput(res ir.Resource, q float64) (bool, error) {
	if err := n.net.checkOwned(n); err != nil {
		return false, err
	}
	if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
		return false, n.solveError(ErrCodeUnsolvableOutput, res,
			fmt.Sprintf("desired output must be non-negative and finite, got %v", q))
	}

	rate, ok := n.outputRate.Get()[res]
	if !ok {
		return false, n.solveError(ErrCodeUnknownResource, res,
			fmt.Sprintf("recipe does not produce %s", res))
	}

	cycle := n.net.cycleLength.Get()
	required := rates.RoundCapacity(n.net.formulas.InverseCapacity(q, rate, cycle))
	if math.IsNaN(required) || math.IsInf(required, 0) || required < 0 {
		return false, n.solveError(ErrCodeUnsolvableOutput, res,
			fmt.Sprintf("no capacity yields %v of %s (rate %v, cycle %v)", q, res, rate, cycle))
	}

	if !n.capacity.Set(required) {
		return false, nil
	}
	n.net.logger.Debug("capacity solved",
		"node", n.id,
		"recipe", n.recipe.ID,
		"resource", string(res),
		"desired", q,
		"capacity", required,
	)
	return true, nil
}

func (n *Node) solveError(code RuntimeErrorCode, res ir.Resource, msg string) *RuntimeError {
	n.net.logger.Debug("solve rejected",
		"node", n.id,
		"recipe", n.recipe.ID,
		"resource", string(res),
		"code", string(code),
	)
	return &RuntimeError{
		Code:    code,
		Message: msg,
		NodeID:  n.id,
		Recipe:  n.recipe.ID,
		Details: map[string]string{"resource": string(res)},
	}
}
