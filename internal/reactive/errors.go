package reactive

import (
	"errors"
	"fmt"
)

// CascadeError reports a propagation that nested deeper than the runtime
// allows. It is raised with panic: a cascade this deep means an effect keeps
// re-triggering itself.
type CascadeError struct {
	Depth int // Depth reached
	Limit int // Configured limit
}

// Error implements the error interface.
func (e *CascadeError) Error() string {
	return fmt.Sprintf("propagation cascade exceeded limit: depth %d > %d", e.Depth, e.Limit)
}

// IsCascadeError returns true if err is a CascadeError.
// Uses errors.As to handle wrapped errors.
func IsCascadeError(err error) bool {
	var ce *CascadeError
	return errors.As(err, &ce)
}
