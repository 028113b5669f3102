package integration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/prover"
	"github.com/vybium/hvm-stark/pkg/hvm"
)

// Test01_AddTwoNumbers: `push.1 push.2 add` — stack_outputs[0] = 3.
func Test01_AddTwoNumbers(t *testing.T) {
	program, err := hvm.Compile("push.1 push.2 add")
	require.NoError(t, err)

	params := hvm.DefaultParameters()
	claim, err := hvm.Run(program, nil, nil, params, nil)
	require.NoError(t, err)

	assert.Equal(t, core.FromUint64(3), claim.Public.StackOutputs[0])

	again, err := hvm.Run(program, nil, nil, params, nil)
	require.NoError(t, err)
	assert.Equal(t, claim.Public.ProgramDigest, again.Public.ProgramDigest)
}

// Test02_MultiplyTwoNumbers: `push.1 push.2 mul` — stack_outputs[0] = 2.
func Test02_MultiplyTwoNumbers(t *testing.T) {
	program, err := hvm.Compile("push.1 push.2 mul")
	require.NoError(t, err)

	params := hvm.DefaultParameters()
	claim, err := hvm.Run(program, nil, nil, params, nil)
	require.NoError(t, err)

	assert.Equal(t, core.FromUint64(2), claim.Public.StackOutputs[0])
}

// Test03_ProveAndVerify exercises the full pipeline with the reference
// engine end to end.
func Test03_ProveAndVerify(t *testing.T) {
	program, err := hvm.Compile("push.1 push.2 add")
	require.NoError(t, err)

	params := hvm.DefaultParameters()
	claim, err := hvm.Run(program, nil, nil, params, nil)
	require.NoError(t, err)

	opts := hvm.DefaultProofOptions()
	engine := prover.ReferenceEngine{}

	proof, err := hvm.Prove(claim, opts, engine)
	require.NoError(t, err)
	require.NotEmpty(t, proof)

	err = hvm.Verify(proof, claim.PublicInputs(), claim.Trace.Length, opts, engine)
	require.NoError(t, err)
}
