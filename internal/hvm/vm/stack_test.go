package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
)

func TestStackPushAdd(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push(1))
	require.NoError(t, s.Push(2))
	require.NoError(t, s.Add())

	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, core.FromUint64(3), s.Slots()[0])
}

func TestStackPushMul(t *testing.T) {
	s := NewStack()
	require.NoError(t, s.Push(3))
	require.NoError(t, s.Push(4))
	require.NoError(t, s.Mul())

	assert.Equal(t, core.FromUint64(12), s.Slots()[0])
}

func TestStackPushOverflow(t *testing.T) {
	s := NewStack()
	for i := 0; i < StackCapacity; i++ {
		require.NoError(t, s.Push(uint8(i)))
	}

	err := s.Push(1)
	require.Error(t, err)
	var stackErr *StackError
	require.ErrorAs(t, err, &stackErr)
	assert.Equal(t, StackOverflow, stackErr.Kind)
}

func TestStackReadEmptyInput(t *testing.T) {
	s := NewStack()
	var tape []uint8

	err := s.Read(&tape)
	require.Error(t, err)
	var stackErr *StackError
	require.ErrorAs(t, err, &stackErr)
	assert.Equal(t, EmptyInput, stackErr.Kind)
}

func TestStackScalarAdd(t *testing.T) {
	params, err := lwe.NewParameters(8, 128, 4, 1.0)
	require.NoError(t, err)

	s := NewStack()
	for i := 0; i < params.LweSize(); i++ {
		require.NoError(t, s.Push(uint8(i)))
	}
	require.NoError(t, s.Push(5))
	require.NoError(t, s.SAdd(params))

	assert.Equal(t, params.LweSize(), s.Depth())
}

func TestStackAdd2(t *testing.T) {
	params, err := lwe.NewParameters(8, 128, 4, 1.0)
	require.NoError(t, err)
	lweSize := params.LweSize()

	s := NewStack()
	for i := 0; i < 2*lweSize; i++ {
		require.NoError(t, s.Push(uint8(i)))
	}
	require.NoError(t, s.Add2(params))

	assert.Equal(t, lweSize, s.Depth())
}
