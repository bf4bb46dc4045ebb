package memds

import (
	"errors"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

var (
	ErrMaskLengthMismatch = errors.New("mask length does not match sequence length")
)

// A Mask is an immutable sequence of booleans used to split an Env, bit k set means
// that the item at position k goes to the left part.
type Mask struct {
	bits   *bitset.BitSet
	length int
}

func NewMask(values []bool) Mask {
	bits := bitset.New(uint(len(values)))
	for i, v := range values {
		if v {
			bits.Set(uint(i))
		}
	}
	return Mask{bits: bits, length: len(values)}
}

// MaskFromBitSet returns a mask of the given length, bits at positions >= length are ignored.
// The set is cloned.
func MaskFromBitSet(set *bitset.BitSet, length int) Mask {
	if length < 0 {
		length = 0
	}
	bits := bitset.New(uint(length))
	if set != nil {
		for i, ok := set.NextSet(0); ok && i < uint(length); i, ok = set.NextSet(i + 1) {
			bits.Set(i)
		}
	}
	return Mask{bits: bits, length: length}
}

func (m Mask) Len() int {
	return m.length
}

// Test returns the value at position i, false is returned for out of bounds positions.
func (m Mask) Test(i int) bool {
	if i < 0 || i >= m.length || m.bits == nil {
		return false
	}
	return m.bits.Test(uint(i))
}

// CountSetBefore returns the number of set (value = true) positions in [0, i).
func (m Mask) CountSetBefore(i int) int {
	if m.bits == nil || i <= 0 {
		return 0
	}
	count := 0
	for pos, ok := m.bits.NextSet(0); ok && pos < uint(i); pos, ok = m.bits.NextSet(pos + 1) {
		count++
	}
	return count
}

// CountSet returns the number of positions set to true.
func (m Mask) CountSet() int {
	if m.bits == nil {
		return 0
	}
	return int(m.bits.Count())
}

func (m Mask) Bools() []bool {
	values := make([]bool, m.length)
	for i := range values {
		values[i] = m.Test(i)
	}
	return values
}

// CheckMask returns an error wrapping ErrMaskLengthMismatch if the mask cannot be used to split env.
func (env Env[T]) CheckMask(mask Mask) error {
	if mask.Len() != env.Len() {
		return fmt.Errorf("%w: mask has length %d, sequence has length %d", ErrMaskLengthMismatch, mask.Len(), env.Len())
	}
	return nil
}
