package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents a rejected engine operation.
//
// Runtime errors include:
//   - Invalid capacity: negative or non-finite capacity
//   - Invalid cycle length: non-positive or non-finite cycle length
//   - Unsolvable output: backward solve produced a negative or non-finite capacity
//   - Unknown resource: the node does not produce the requested resource
//   - Tree violation: the edit would break the tree shape
//
// A rejected operation leaves all state unchanged.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// NodeID identifies the affected node, if any.
	NodeID NodeID

	// Recipe is the affected node's recipe id, if any.
	Recipe string

	// Details contains additional context.
	Details map[string]string
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeInvalidCapacity indicates a negative or non-finite capacity.
	ErrCodeInvalidCapacity RuntimeErrorCode = "INVALID_CAPACITY"

	// ErrCodeInvalidCycleLength indicates a non-positive or non-finite cycle length.
	ErrCodeInvalidCycleLength RuntimeErrorCode = "INVALID_CYCLE_LENGTH"

	// ErrCodeUnsolvableOutput indicates the backward solve had no valid capacity.
	ErrCodeUnsolvableOutput RuntimeErrorCode = "UNSOLVABLE_OUTPUT"

	// ErrCodeUnknownResource indicates the node does not produce the resource.
	ErrCodeUnknownResource RuntimeErrorCode = "UNKNOWN_RESOURCE"

	// ErrCodeTreeViolation indicates an edit that would break the tree.
	ErrCodeTreeViolation RuntimeErrorCode = "TREE_VIOLATION"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Recipe != "" {
		return fmt.Sprintf("%s: %s (recipe=%s)", e.Code, e.Message, e.Recipe)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func hasCode(err error, codes ...RuntimeErrorCode) bool {
	var re *RuntimeError
	if !errors.As(err, &re) {
		return false
	}
	for _, c := range codes {
		if re.Code == c {
			return true
		}
	}
	return false
}

// IsTreeError returns true if the error is a tree violation.
// Uses errors.As to handle wrapped errors.
func IsTreeError(err error) bool {
	return hasCode(err, ErrCodeTreeViolation)
}

// IsSolveError returns true if a backward solve was rejected.
// Matches unsolvable outputs and unknown resources.
func IsSolveError(err error) bool {
	return hasCode(err, ErrCodeUnsolvableOutput, ErrCodeUnknownResource)
}

// IsCapacityError returns true if a capacity or cycle length was rejected.
func IsCapacityError(err error) bool {
	return hasCode(err, ErrCodeInvalidCapacity, ErrCodeInvalidCycleLength)
}

func newTreeError(n *Node, msg string) *RuntimeError {
	return &RuntimeError{
		Code:    ErrCodeTreeViolation,
		Message: msg,
		NodeID:  n.id,
		Recipe:  n.recipe.ID,
	}
}
