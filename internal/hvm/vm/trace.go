package vm

import (
	"io"
	"math/bits"

	"github.com/vybium/hvm-stark/internal/hvm/core"
)

// NumColumns is the fixed trace width (spec §3): clk, 5 decoder bits, h0,
// 4 sponge lanes, stack depth, 16 stack slots.
const NumColumns = 1 + 5 + 1 + 4 + 1 + StackCapacity

// Column indices, per the fixed layout in spec §3.
const (
	ColClk = iota
	ColB4
	ColB3
	ColB2
	ColB1
	ColB0
	ColH0
	ColSponge0
	ColSponge1
	ColSponge2
	ColSponge3
	ColDepth
	ColSlot0 // slots occupy ColSlot0..ColSlot0+15
)

// NumTransitionExemptions is how many trailing row-pairs the AIR does not
// enforce transition constraints across, to make room for the randomised
// last row (spec §4.8).
const NumTransitionExemptions = 2

// Row is one snapshot of every trace column, after executing zero or more
// instructions (spec §3: row 0 is the pre-execution initial state).
type Row struct {
	Clk    core.Element
	B4, B3, B2, B1, B0 core.Element
	H0     core.Element
	Sponge [core.StateWidth]core.Element
	Depth  core.Element
	Slots  [StackCapacity]core.Element
}

// Columns renders the row as the fixed 28-wide column vector.
func (r Row) Columns() [NumColumns]core.Element {
	var out [NumColumns]core.Element
	out[ColClk] = r.Clk
	out[ColB4] = r.B4
	out[ColB3] = r.B3
	out[ColB2] = r.B2
	out[ColB1] = r.B1
	out[ColB0] = r.B0
	out[ColH0] = r.H0
	out[ColSponge0] = r.Sponge[0]
	out[ColSponge1] = r.Sponge[1]
	out[ColSponge2] = r.Sponge[2]
	out[ColSponge3] = r.Sponge[3]
	out[ColDepth] = r.Depth
	for i := 0; i < StackCapacity; i++ {
		out[ColSlot0+i] = r.Slots[i]
	}
	return out
}

// Trace is the full column-major matrix handed to the AIR and the STARK
// prover.
type Trace struct {
	Columns [NumColumns][]core.Element
	Length  int
}

// Assemble pads rows to the next power of two and overwrites the last row
// of every column with a uniform non-zero random field element, per the
// trace assembler's contract (spec §4.8). rnd supplies the randomisation
// and must produce enough bytes; callers needing determinism should pass a
// seeded reader.
func Assemble(rows []Row, rnd io.Reader) (*Trace, error) {
	if len(rows) == 0 {
		return nil, &ChipletsError{Kind: InvalidTraceLength, Expected: 1, Actual: 0}
	}
	length := nextPowerOfTwo(len(rows))

	t := &Trace{Length: length}
	for c := 0; c < NumColumns; c++ {
		t.Columns[c] = make([]core.Element, length)
	}

	for i, row := range rows {
		cols := row.Columns()
		for c := 0; c < NumColumns; c++ {
			t.Columns[c][i] = cols[c]
		}
	}

	// clk keeps counting linearly through the padding rows, so it reads
	// 0,1,2,...,L-2 up to the last row (which is randomised below like every
	// other column); every other column repeats its last executed value.
	last := rows[len(rows)-1].Columns()
	for i := len(rows); i < length; i++ {
		for c := 0; c < NumColumns; c++ {
			if c == ColClk {
				t.Columns[c][i] = core.FromUint64(uint64(i))
			} else {
				t.Columns[c][i] = last[c]
			}
		}
	}

	for c := 0; c < NumColumns; c++ {
		v, err := randomNonZero(rnd)
		if err != nil {
			return nil, err
		}
		t.Columns[c][length-1] = v
	}

	return t, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func randomNonZero(rnd io.Reader) (core.Element, error) {
	for {
		var buf [16]byte
		if _, err := io.ReadFull(rnd, buf[:]); err != nil {
			return core.Element{}, err
		}
		v := core.ElementFromBytesLE(buf)
		if !v.IsZero() {
			return v, nil
		}
	}
}
