package memds

import (
	"errors"
	"fmt"
)

var (
	ErrIndexOutOfBounds = errors.New("index out of bounds")
	ErrStaleIndex       = errors.New("stale index: the sequence length changed since the index was created")
)

// A Fin is an index into a sequence of a given length (its bound). A Fin can only be created
// by NewFin or Env.Index, so Value() < Bound() always holds.
type Fin struct {
	value int
	bound int
}

// NewFin returns a Fin for a sequence of length bound, an error wrapping ErrIndexOutOfBounds
// is returned if value is not in [0, bound).
func NewFin(value, bound int) (Fin, error) {
	if value < 0 || value >= bound {
		return Fin{}, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfBounds, value, bound)
	}
	return Fin{value: value, bound: bound}, nil
}

func (f Fin) Value() int {
	return f.value
}

func (f Fin) Bound() int {
	return f.bound
}

// Compare returns -1, 0 or +1 depending on whether f's value is less than, equal to or
// greater than other's value. Bounds are ignored.
func (f Fin) Compare(other Fin) int {
	switch {
	case f.value < other.value:
		return -1
	case f.value > other.value:
		return 1
	default:
		return 0
	}
}

// Rebound re-derives f against a sequence of length bound.
func (f Fin) Rebound(bound int) (Fin, error) {
	return NewFin(f.value, bound)
}

// ShiftedDown returns the index of the same item after the removal of an item located before it:
// both the value and the bound are decremented.
func (f Fin) ShiftedDown() Fin {
	if f.value == 0 {
		panic(fmt.Errorf("%w: cannot shift down index 0", ErrIndexOutOfBounds))
	}
	return Fin{value: f.value - 1, bound: f.bound - 1}
}

func (f Fin) String() string {
	return fmt.Sprintf("%d/%d", f.value, f.bound)
}

// AssertValidFor panics with an error wrapping ErrStaleIndex if f was not created for a sequence of the given length,
// and with an error wrapping ErrIndexOutOfBounds if f was not created by NewFin (e.g. the zero value).
func (f Fin) AssertValidFor(length int) {
	if f.value < 0 || f.value >= f.bound {
		panic(fmt.Errorf("%w: invalid index %s", ErrIndexOutOfBounds, f))
	}
	if f.bound != length {
		panic(fmt.Errorf("%w (index %s, length %d)", ErrStaleIndex, f, length))
	}
}
