package air

import (
	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

// NumTransitionConstraints and NumBoundaryAssertions are the fixed counts
// declared in spec §4.9.
const (
	NumTransitionConstraints = 20
	NumBoundaryAssertions    = 22
)

// TransitionDegrees lists the degree of each transition constraint, in the
// same order EvaluateTransition writes them, for the prover's degree table
// (spec §4.9). Indices 12-19 cycle through the 16-row Rescue cycle; the
// degrees given here are their worst case across the cycle.
var TransitionDegrees = [NumTransitionConstraints]int{
	1, 5, 2, 6, 6, 6, 7, 7, 6, 6, 6, 6,
	4, 7, 4, 4, // hash round, lanes 0-3
	2, 2, 2, 2, // capacity reset, lanes 0-3
}

// PeriodicMask is the public cycle mask: 1 for the first NumRounds
// positions of each 16-cycle, 0 for the trailing capacity-reset positions
// (spec §4.2, §4.9 "periodic columns").
func PeriodicMask[T any](ring core.Ring[T], rowIndex int) T {
	if rowIndex%core.CycleLength < core.NumRounds {
		return ring.FromUint64(1)
	}
	return ring.Zero()
}

func bitsOf[T any](row [vm.NumColumns]T) Bits[T] {
	return Bits[T]{
		B4: row[vm.ColB4],
		B3: row[vm.ColB3],
		B2: row[vm.ColB2],
		B1: row[vm.ColB1],
		B0: row[vm.ColB0],
	}
}

func hashLanes[T any](row [vm.NumColumns]T) [core.StateWidth]T {
	return [core.StateWidth]T{row[vm.ColSponge0], row[vm.ColSponge1], row[vm.ColSponge2], row[vm.ColSponge3]}
}

func slotsOf[T any](row [vm.NumColumns]T) []T {
	return row[vm.ColSlot0 : vm.ColSlot0+vm.StackCapacity]
}

// EvaluateTransition evaluates the 20 transition constraints of spec §4.9
// on one (current, next) row pair at position rowIndex, generic over the
// ring T so the same code serves concrete trace evaluation (T = Element)
// and the AIR's symbolic out-of-domain evaluation (T = Element2).
func EvaluateTransition[T any](
	ring core.Ring[T],
	cur, next [vm.NumColumns]T,
	rowIndex int,
	params lwe.Parameters,
	mds, invMDS [core.StateWidth][core.StateWidth]T,
	ark [16][2 * core.StateWidth]T,
) ([NumTransitionConstraints]T, error) {
	var result [NumTransitionConstraints]T
	// The decoder bits and h0 for the instruction driving this transition are
	// recorded in the row the instruction produces (next), not the row it
	// starts from (cur) — Run emits Row i+1 holding op[i]'s bits alongside
	// op[i]'s post-execution stack/sponge state.
	b := bitsOf(next)
	lweSize := params.LweSize()
	lweSizeMinus1 := ring.FromUint64(uint64(lweSize - 1))

	// 0: clk' - clk - 1 = 0
	result[0] = ring.Sub(ring.Sub(next[vm.ColClk], cur[vm.ColClk]), ring.FromUint64(1))

	// 1: depth' - depth - b0 + b1 - (lweSize-1)*(isRead2 - isAdd2) = 0
	isRead2 := IsRead2(ring, b)
	isAdd2 := IsAdd2(ring, b)
	depthDelta := ring.Sub(ring.Sub(next[vm.ColDepth], cur[vm.ColDepth]), b.B0)
	depthDelta = ring.Add(depthDelta, b.B1)
	correction := ring.Mul(lweSizeMinus1, ring.Sub(isRead2, isAdd2))
	result[1] = ring.Sub(depthDelta, correction)

	// 2: b0 * b1 = 0
	result[2] = ring.Mul(b.B0, b.B1)

	slots := slotsOf(cur)
	slotsNext := slotsOf(next)

	// 3: is_add * (s0' - (s0+s1))
	result[3] = ring.Mul(IsAdd(ring, b), ring.Sub(slotsNext[0], ring.Add(slots[0], slots[1])))

	// 4: is_sadd * sum(s_i' - scalar_add(s0, s1..s_lwe)[i])
	sadd, err := lwe.ScalarAdd[T](ring, params, slots[0], slots[1:1+lweSize])
	if err != nil {
		return result, err
	}
	result[4] = ring.Mul(IsSAdd(ring, b), sumDiff(ring, slotsNext[0:lweSize], sadd))

	// 5: is_add2 * sum(s_i' - add(s0..,s_lwe..)[i])
	add2, err := lwe.Add[T](ring, slots[0:lweSize], slots[lweSize:2*lweSize])
	if err != nil {
		return result, err
	}
	result[5] = ring.Mul(isAdd2, sumDiff(ring, slotsNext[0:lweSize], add2))

	// 6: is_mul * (s0' - s0*s1)
	result[6] = ring.Mul(IsMul(ring, b), ring.Sub(slotsNext[0], ring.Mul(slots[0], slots[1])))

	// 7: is_smul * sum(s_i' - scalar_mul(s0, s1..s_lwe)[i])
	smul := lwe.ScalarMul[T](ring, slots[0], slots[1:1+lweSize])
	result[7] = ring.Mul(IsSMul(ring, b), sumDiff(ring, slotsNext[0:lweSize], smul))

	// 8: is_push * (s1' - s0)
	result[8] = ring.Mul(IsPush(ring, b), ring.Sub(slotsNext[1], slots[0]))

	// 9: is_read * (s1' - s0)
	result[9] = ring.Mul(IsRead(ring, b), ring.Sub(slotsNext[1], slots[0]))

	// 10: is_read2 * (s_lweSize' - s0)
	result[10] = ring.Mul(isRead2, ring.Sub(slotsNext[lweSize], slots[0]))

	// 11: is_noop * (s0' - s0)
	result[11] = ring.Mul(IsNoop(ring, b), ring.Sub(slotsNext[0], slots[0]))

	mask := PeriodicMask(ring, rowIndex)
	notMask := not_(ring, mask)
	h0 := next[vm.ColH0]
	cycleStep := rowIndex % core.CycleLength
	pushFlag := IsPush(ring, b)
	pushImmediate := ring.Mul(slotsNext[0], pushFlag)

	hashCur := hashLanes(cur)
	hashNext := hashLanes(next)
	hashDiff := core.HashRoundConstraintRing(ring, hashCur, hashNext, OpcodeToElement(ring, b), pushImmediate, ark[cycleStep], mds, invMDS)
	for i := 0; i < core.StateWidth; i++ {
		result[12+i] = ring.Mul(ring.Mul(hashDiff[i], mask), h0)
	}

	notH0 := not_(ring, h0)
	result[16] = ring.Mul(ring.Mul(ring.Sub(hashNext[0], hashCur[0]), notMask), notH0)
	result[17] = ring.Mul(ring.Mul(ring.Sub(hashNext[1], hashCur[1]), notMask), notH0)
	result[18] = ring.Mul(ring.Mul(hashNext[2], notMask), notH0)
	result[19] = ring.Mul(ring.Mul(hashNext[3], notMask), notH0)

	return result, nil
}

func sumDiff[T any](ring core.Ring[T], a, b []T) T {
	sum := ring.Zero()
	for i := range a {
		sum = ring.Add(sum, ring.Sub(a[i], b[i]))
	}
	return sum
}

// PublicInputs ties a trace to the program it claims to execute and the
// result it claims to produce (spec §6 "PublicInputs").
type PublicInputs struct {
	ProgramDigest [2]core.Element
	StackOutputs  [8]core.Element
}

// BoundaryAssertion is one (column, row, value) triple the trace must
// satisfy exactly (spec §4.9).
type BoundaryAssertion struct {
	Column int
	Row    int
	Value  core.Element
}

// Assertions returns the 22 boundary assertions of spec §4.9 for a trace
// of the given length.
func Assertions(traceLength int, pub PublicInputs) []BoundaryAssertion {
	lastStep := traceLength - vm.NumTransitionExemptions
	out := make([]BoundaryAssertion, 0, NumBoundaryAssertions)

	out = append(out, BoundaryAssertion{Column: vm.ColClk, Row: 0, Value: core.Zero})
	out = append(out, BoundaryAssertion{Column: vm.ColDepth, Row: 0, Value: core.Zero})

	out = append(out, BoundaryAssertion{Column: vm.ColSponge0, Row: 0, Value: core.Zero})
	out = append(out, BoundaryAssertion{Column: vm.ColSponge0, Row: lastStep, Value: pub.ProgramDigest[0]})
	out = append(out, BoundaryAssertion{Column: vm.ColSponge1, Row: 0, Value: core.Zero})
	out = append(out, BoundaryAssertion{Column: vm.ColSponge1, Row: lastStep, Value: pub.ProgramDigest[1]})

	for i := 0; i < len(pub.StackOutputs); i++ {
		out = append(out, BoundaryAssertion{Column: vm.ColSlot0 + i, Row: 0, Value: core.Zero})
		out = append(out, BoundaryAssertion{Column: vm.ColSlot0 + i, Row: lastStep, Value: pub.StackOutputs[i]})
	}

	return out
}

// EvaluateTransitionConcrete is the base-field convenience entry point used
// by both the prover (evaluating the witness trace) and its tests.
func EvaluateTransitionConcrete(cur, next [vm.NumColumns]core.Element, rowIndex int, params lwe.Parameters) ([NumTransitionConstraints]core.Element, error) {
	return EvaluateTransition[core.Element](core.BaseRing{}, cur, next, rowIndex, params, core.MDS, core.InvMDS, core.ARK)
}
