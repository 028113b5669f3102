package integration_test

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/hvm-stark/internal/hvm/lwe"
	"github.com/vybium/hvm-stark/pkg/hvm"
)

// Test04_ScalarAddOnCiphertext: client-side plaintext x=33, server program
// `read2 read sadd`, public input a=3u8: decrypt(stack_outputs[0..5]) = 36.
func Test04_ScalarAddOnCiphertext(t *testing.T) {
	params := hvm.DefaultParameters()
	key, err := hvm.NewServerKey(params)
	require.NoError(t, err)

	ct, err := key.Encrypt(33, rand.Reader)
	require.NoError(t, err)

	program, err := hvm.Compile("read2 read sadd")
	require.NoError(t, err)

	claim, err := hvm.Run(program, []uint8{3}, []hvm.Ciphertext{ct}, params, nil)
	require.NoError(t, err)

	lweSize := params.LweSize()
	result := lwe.NewCiphertext(claim.Public.StackOutputs[:lweSize])
	plaintext, err := key.Decrypt(result)
	require.NoError(t, err)
	require.Equal(t, uint8(36), plaintext)
}

// Test05_ScalarMulOnCiphertext: x=33, program `read2 read smul`, a=2:
// decrypt(stack_outputs[0..5]) = 66.
func Test05_ScalarMulOnCiphertext(t *testing.T) {
	params := hvm.DefaultParameters()
	key, err := hvm.NewServerKey(params)
	require.NoError(t, err)

	ct, err := key.Encrypt(33, rand.Reader)
	require.NoError(t, err)

	program, err := hvm.Compile("read2 read smul")
	require.NoError(t, err)

	claim, err := hvm.Run(program, []uint8{2}, []hvm.Ciphertext{ct}, params, nil)
	require.NoError(t, err)

	lweSize := params.LweSize()
	result := lwe.NewCiphertext(claim.Public.StackOutputs[:lweSize])
	plaintext, err := key.Decrypt(result)
	require.NoError(t, err)
	require.Equal(t, uint8(66), plaintext)
}

// Test06_LinearForm: a*x + b with a=2, b=12, x=33, program
// `read2 read smul read sadd`: decrypt(output) = 78.
func Test06_LinearForm(t *testing.T) {
	params := hvm.DefaultParameters()
	key, err := hvm.NewServerKey(params)
	require.NoError(t, err)

	ct, err := key.Encrypt(33, rand.Reader)
	require.NoError(t, err)

	program, err := hvm.Compile("read2 read smul read sadd")
	require.NoError(t, err)

	tapeA := []uint8{2, 12}
	claim, err := hvm.Run(program, tapeA, []hvm.Ciphertext{ct}, params, nil)
	require.NoError(t, err)

	lweSize := params.LweSize()
	result := lwe.NewCiphertext(claim.Public.StackOutputs[:lweSize])
	plaintext, err := key.Decrypt(result)
	require.NoError(t, err)
	require.Equal(t, uint8(78), plaintext)
}
