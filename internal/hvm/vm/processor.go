package vm

import (
	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
)

// Run executes a compiled, padded Program against the two input tapes and
// returns one Row per executed instruction plus the pre-execution initial
// row (spec §3, §4.4-§4.7). It fails fast and returns no rows on the first
// StackError.
func Run(program *Program, tapeA []uint8, tapeB []lwe.Ciphertext, params lwe.Parameters) ([]Row, error) {
	stack := NewStack()
	hash := NewHashChiplet()

	a := append([]uint8(nil), tapeA...)
	b := append([]lwe.Ciphertext(nil), tapeB...)

	rows := make([]Row, 0, len(program.Ops)+1)
	rows = append(rows, Row{})

	for i, op := range program.Ops {
		if err := executeStackOp(stack, op, &a, &b, params); err != nil {
			if se, ok := err.(*StackError); ok {
				se.Op = op.Op
				se.Clock = i + 1
			}
			return nil, err
		}

		b4, b3, b2, b1, b0 := DecodeBits(op.Op)
		h0, sponge := hash.Absorb(op)

		rows = append(rows, Row{
			Clk:    ClockColumn(i + 1),
			B4:     b4,
			B3:     b3,
			B2:     b2,
			B1:     b1,
			B0:     b0,
			H0:     h0,
			Sponge: sponge,
			Depth:  core.FromUint64(uint64(stack.Depth())),
			Slots:  stack.Slots(),
		})
	}

	return rows, nil
}

func executeStackOp(stack *Stack, op Operation, tapeA *[]uint8, tapeB *[]lwe.Ciphertext, params lwe.Parameters) error {
	switch op.Op {
	case Noop:
		stack.Noop()
		return nil
	case Push:
		return stack.Push(op.Immediate)
	case Read:
		return stack.Read(tapeA)
	case Read2:
		return stack.Read2(tapeB, params.LweSize())
	case Add:
		return stack.Add()
	case Mul:
		return stack.Mul()
	case SAdd:
		return stack.SAdd(params)
	case SMul:
		return stack.SMul(params)
	case Add2:
		return stack.Add2(params)
	default:
		return &ProgramError{Kind: InvalidOp, Tokens: []string{op.String()}}
	}
}

// StackOutputs returns the 16 stack slots recorded at row L-2, the row the
// AIR's boundary assertions tie to PublicInputs.StackOutputs (spec §4.9).
func StackOutputs(t *Trace) [StackCapacity]core.Element {
	var out [StackCapacity]core.Element
	row := t.Length - 2
	for i := 0; i < StackCapacity; i++ {
		out[i] = t.Columns[ColSlot0+i][row]
	}
	return out
}

// ProgramDigestAt returns the sponge rate lanes recorded at row L-2, which
// must equal the Program's digest for a correctly assembled trace.
func ProgramDigestAt(t *Trace) (core.Element, core.Element) {
	row := t.Length - 2
	return t.Columns[ColSponge0][row], t.Columns[ColSponge1][row]
}
