package innertext

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is wrapped by every RangeError.
var ErrOutOfBounds = errors.New("innertext: out of bounds")

// RangeError reports an index that cannot be mapped: outside
// [0, length], an inverted range, or a seek that found no item.
type RangeError struct {
	Index  int
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("innertext: index %d: %s", e.Index, e.Reason)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfBounds
}

func outOfBounds(i int) error {
	return &RangeError{Index: i, Reason: "out of bounds"}
}
