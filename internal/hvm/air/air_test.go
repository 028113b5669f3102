package air

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/hvm-stark/internal/hvm/asm"
	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

func compileAndRun(t *testing.T, source string, tapeA []uint8, tapeB []lwe.Ciphertext, params lwe.Parameters) *vm.Trace {
	t.Helper()
	ops, err := asm.Parse(source)
	require.NoError(t, err)
	program, err := vm.Compile(ops)
	require.NoError(t, err)

	rows, err := vm.Run(program, tapeA, tapeB, params)
	require.NoError(t, err)

	trace, err := vm.Assemble(rows, bytes.NewReader(bytes.Repeat([]byte{1}, 16*vm.NumColumns)))
	require.NoError(t, err)
	return trace
}

func TestEvaluateTransitionZeroOnValidTrace(t *testing.T) {
	params := lwe.DefaultParameters()
	trace := compileAndRun(t, "push.1 push.2 add", nil, nil, params)

	exemptRows := trace.Length - vm.NumTransitionExemptions
	for row := 0; row < exemptRows; row++ {
		var cur, next [vm.NumColumns]core.Element
		for c := 0; c < vm.NumColumns; c++ {
			cur[c] = trace.Columns[c][row]
			next[c] = trace.Columns[c][row+1]
		}
		result, err := EvaluateTransitionConcrete(cur, next, row, params)
		require.NoError(t, err)
		for idx, v := range result {
			assert.Truef(t, v.IsZero(), "constraint %d nonzero at row %d: %s", idx, row, v.String())
		}
	}
}

func TestAssertionsCount(t *testing.T) {
	pub := PublicInputs{}
	assertions := Assertions(32, pub)
	assert.Len(t, assertions, NumBoundaryAssertions)
}

func TestPeriodicMask(t *testing.T) {
	ring := core.BaseRing{}
	for i := 0; i < core.CycleLength; i++ {
		mask := PeriodicMask(ring, i)
		if i < core.NumRounds {
			assert.Equal(t, core.One, mask)
		} else {
			assert.Equal(t, core.Zero, mask)
		}
	}
}
