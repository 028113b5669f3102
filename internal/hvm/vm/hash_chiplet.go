package vm

import "github.com/vybium/hvm-stark/internal/hvm/core"

// HashChiplet maintains the Rescue sponge across execution, absorbing one
// (opcode, immediate) pair per row (spec §4.2, §4.6).
type HashChiplet struct {
	state [core.StateWidth]core.Element
	step  int
}

// NewHashChiplet returns a chiplet with an all-zero initial state.
func NewHashChiplet() *HashChiplet {
	return &HashChiplet{}
}

// Absorb advances the sponge by one row for the given operation, returning
// the row's h0 flag and the resulting 4-wide state to record in the trace's
// sponge columns.
func (h *HashChiplet) Absorb(op Operation) (h0 core.Element, state [core.StateWidth]core.Element) {
	cycleStep := h.step % core.CycleLength
	if cycleStep < core.NumRounds {
		opcodeField := core.FromUint64(uint64(op.Op))
		var immediateField core.Element
		if op.Op.HasImmediate() {
			immediateField = core.FromUint64(uint64(op.Immediate))
		}
		core.ApplyRound(&h.state, opcodeField, immediateField, cycleStep)
		h0 = core.One
	} else {
		core.ApplyCapacityReset(&h.state)
		h0 = core.Zero
	}
	h.step++
	return h0, h.state
}

// Digest returns the current rate lanes (state[0], state[1]), which equal
// the program digest once the full padded stream has been absorbed.
func (h *HashChiplet) Digest() (core.Element, core.Element) {
	return h.state[0], h.state[1]
}

// HashOperations absorbs a full padded operation stream and returns the
// resulting digest, used both by the program loader to compute
// program_digest and, identically, by the hash chiplet during execution
// (spec §3 "Program").
func HashOperations(ops []Operation) (core.Element, core.Element) {
	h := NewHashChiplet()
	for _, op := range ops {
		h.Absorb(op)
	}
	return h.Digest()
}
