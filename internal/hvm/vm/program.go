package vm

import "github.com/vybium/hvm-stark/internal/hvm/core"

// PushAlignment is the row-index modulus a Push instruction must land on,
// so its opcode and immediate are absorbed within the same Rescue round
// (spec §4.3 rule a).
const PushAlignment = 8

// Program is a padded operation stream plus the 2-element digest obtained
// by absorbing that stream into the Rescue sponge (spec §3 "Program").
type Program struct {
	Ops    []Operation
	Digest [2]core.Element
}

// Compile pads ops according to §4.3's three rules and computes the
// resulting program digest. The caller is responsible for tokenising
// source text into ops (internal/hvm/asm).
func Compile(ops []Operation) (*Program, error) {
	if len(ops) == 0 {
		return nil, &ProgramError{Kind: EmptyProgram}
	}

	padded := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if op.Op == Push {
			padded = padAlignment(padded, PushAlignment)
		}
		if len(padded)%core.CycleLength >= core.NumRounds {
			padded = padToCycleBoundary(padded)
		}
		padded = append(padded, op)
	}
	// Unconditional: even an already cycle-aligned program gets one full
	// trailing cycle of Noops, so the digest is always read after a
	// completed capacity-reset, never mid-round.
	padded = padToCycleBoundary(padded)

	lane0, lane1 := HashOperations(padded)

	return &Program{Ops: padded, Digest: [2]core.Element{lane0, lane1}}, nil
}

func padAlignment(ops []Operation, alignment int) []Operation {
	rem := len(ops) % alignment
	padLen := (alignment - rem) % alignment
	for i := 0; i < padLen; i++ {
		ops = append(ops, Operation{Op: Noop})
	}
	return ops
}

// padToCycleBoundary always advances to the NEXT cycle boundary, adding a
// full CycleLength of Noops when ops is already aligned (mirrors the
// reference loader's unconditional end-of-program padding).
func padToCycleBoundary(ops []Operation) []Operation {
	rem := len(ops) % core.CycleLength
	padLen := core.CycleLength - rem
	for i := 0; i < padLen; i++ {
		ops = append(ops, Operation{Op: Noop})
	}
	return ops
}
