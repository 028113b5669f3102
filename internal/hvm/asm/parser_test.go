package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

func TestParseBasicProgram(t *testing.T) {
	ops, err := Parse("push.1 push.2 add")
	require.NoError(t, err)
	require.Len(t, ops, 3)

	assert.Equal(t, vm.Push, ops[0].Op)
	assert.Equal(t, uint8(1), ops[0].Immediate)
	assert.Equal(t, vm.Push, ops[1].Op)
	assert.Equal(t, uint8(2), ops[1].Immediate)
	assert.Equal(t, vm.Add, ops[2].Op)
}

func TestParseStripsComments(t *testing.T) {
	source := "# a comment\npush.3 # inline comment\nadd2\n"
	ops, err := Parse(source)
	require.NoError(t, err)
	require.Len(t, ops, 2)
	assert.Equal(t, vm.Push, ops[0].Op)
	assert.Equal(t, vm.Add2, ops[1].Op)
}

func TestParseEmptyProgram(t *testing.T) {
	_, err := Parse("   \n # only comments\n")
	require.Error(t, err)
	var progErr *vm.ProgramError
	require.ErrorAs(t, err, &progErr)
	assert.Equal(t, vm.EmptyProgram, progErr.Kind)
}

func TestParseInvalidOp(t *testing.T) {
	_, err := Parse("frobnicate")
	require.Error(t, err)
	var progErr *vm.ProgramError
	require.ErrorAs(t, err, &progErr)
	assert.Equal(t, vm.InvalidOp, progErr.Kind)
}

func TestParsePushMissingParam(t *testing.T) {
	_, err := Parse("push")
	require.Error(t, err)
	var progErr *vm.ProgramError
	require.ErrorAs(t, err, &progErr)
	assert.Equal(t, vm.MissingParam, progErr.Kind)
}

func TestParsePushInvalidParam(t *testing.T) {
	_, err := Parse("push.not-a-number")
	require.Error(t, err)
	var progErr *vm.ProgramError
	require.ErrorAs(t, err, &progErr)
	assert.Equal(t, vm.InvalidParam, progErr.Kind)
}

func TestParseExtraParam(t *testing.T) {
	for _, token := range []string{"add.1", "mul.1", "sadd.1", "smul.1", "read.1", "read2.1", "add2.1", "noop.1"} {
		_, err := Parse(token)
		require.Error(t, err, token)
		var progErr *vm.ProgramError
		require.ErrorAs(t, err, &progErr)
		assert.Equal(t, vm.ExtraParam, progErr.Kind, token)
	}
}

func TestParsePushTooManyParams(t *testing.T) {
	_, err := Parse("push.1.2")
	require.Error(t, err)
	var progErr *vm.ProgramError
	require.ErrorAs(t, err, &progErr)
	assert.Equal(t, vm.ExtraParam, progErr.Kind)
}
