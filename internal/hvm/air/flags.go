// Package air declares the transition constraints and boundary assertions
// that a trace produced by internal/hvm/vm must satisfy (spec §4.9).
package air

import "github.com/vybium/hvm-stark/internal/hvm/core"

// Bits is the five decoder bit-columns of one row, in the order the trace
// layout uses them: b4 (low opcode bit) .. b0 (shift-right).
type Bits[T any] struct {
	B4, B3, B2, B1, B0 T
}

func not_[T any](ring core.Ring[T], bit T) T {
	return ring.Sub(ring.FromUint64(1), bit)
}

// IsShiftRight is the raw b0 bit (grows the stack).
func IsShiftRight[T any](bits Bits[T]) T {
	return bits.B0
}

// IsShiftLeft is the raw b1 bit (shrinks the stack).
func IsShiftLeft[T any](bits Bits[T]) T {
	return bits.B1
}

// IsNoop is the indicator polynomial for the Noop opcode (spec §4.3).
func IsNoop[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(not_(ring, b.B0), not_(ring, b.B1)), ring.Mul(not_(ring, b.B2), not_(ring, b.B3))), not_(ring, b.B4))
}

// IsAdd is the indicator polynomial for Add.
func IsAdd[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(not_(ring, b.B0), b.B1), ring.Mul(not_(ring, b.B2), not_(ring, b.B3))), not_(ring, b.B4))
}

// IsMul is the indicator polynomial for Mul.
func IsMul[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(not_(ring, b.B0), b.B1), ring.Mul(not_(ring, b.B2), not_(ring, b.B3))), b.B4)
}

// IsSAdd is the indicator polynomial for SAdd.
func IsSAdd[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(not_(ring, b.B0), b.B1), ring.Mul(not_(ring, b.B2), b.B3)), not_(ring, b.B4))
}

// IsSMul is the indicator polynomial for SMul.
func IsSMul[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(not_(ring, b.B0), b.B1), ring.Mul(b.B2, not_(ring, b.B3))), not_(ring, b.B4))
}

// IsAdd2 is the indicator polynomial for Add2.
func IsAdd2[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(not_(ring, b.B0), b.B1), ring.Mul(not_(ring, b.B2), b.B3)), b.B4)
}

// IsPush is the indicator polynomial for Push.
func IsPush[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(b.B0, not_(ring, b.B1)), ring.Mul(not_(ring, b.B2), not_(ring, b.B3))), not_(ring, b.B4))
}

// IsRead is the indicator polynomial for Read.
func IsRead[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(b.B0, not_(ring, b.B1)), ring.Mul(not_(ring, b.B2), not_(ring, b.B3))), b.B4)
}

// IsRead2 is the indicator polynomial for Read2.
func IsRead2[T any](ring core.Ring[T], b Bits[T]) T {
	return ring.Mul(ring.Mul(ring.Mul(b.B0, not_(ring, b.B1)), ring.Mul(not_(ring, b.B2), b.B3)), not_(ring, b.B4))
}

// OpcodeToElement reconstructs the opcode-as-integer (spec §4.3) from its
// bit columns, for injection into the hash round's rate lane 0.
func OpcodeToElement[T any](ring core.Ring[T], b Bits[T]) T {
	sum := ring.Mul(b.B0, ring.FromUint64(16))
	sum = ring.Add(sum, ring.Mul(b.B1, ring.FromUint64(8)))
	sum = ring.Add(sum, ring.Mul(b.B2, ring.FromUint64(4)))
	sum = ring.Add(sum, ring.Mul(b.B3, ring.FromUint64(2)))
	sum = ring.Add(sum, b.B4)
	return sum
}
