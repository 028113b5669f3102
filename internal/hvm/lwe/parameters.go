// Package lwe implements the Learning-With-Errors ciphertext algebra that
// the stack chiplet's SAdd/SMul/Add2 opcodes operate on (spec §3, §4.1).
package lwe

import "fmt"

// Parameters is the immutable record of scheme parameters shared by the
// client and the server (spec §3 "LweParameters").
type Parameters struct {
	// P is the plaintext modulus (e.g. 8).
	P uint32
	// Q is the ciphertext modulus (e.g. 128).
	Q uint32
	// Delta is floor(Q/P), the scaling factor that embeds a plaintext into
	// the ciphertext body.
	Delta uint32
	// K is the LWE dimension: the secret key and mask have K components.
	K uint64
	// Sigma is the noise standard deviation.
	Sigma float64
}

// NewParameters builds a Parameters record, computing Delta from P and Q.
func NewParameters(p, q uint32, k uint64, sigma float64) (Parameters, error) {
	if p == 0 || q == 0 {
		return Parameters{}, fmt.Errorf("lwe: plaintext and ciphertext modulus must be non-zero")
	}
	if q < p {
		return Parameters{}, fmt.Errorf("lwe: ciphertext modulus %d must be >= plaintext modulus %d", q, p)
	}
	return Parameters{P: p, Q: q, Delta: q / p, K: k, Sigma: sigma}, nil
}

// LweSize is the length of a ciphertext vector: k mask components plus one
// body component.
func (p Parameters) LweSize() int {
	return int(p.K) + 1
}

// DefaultParameters is sized for the worked examples in spec §8: p=256 so
// every u8 plaintext (and results such as 78) is representable, q=4096
// (Delta=16), k=4, with a conservative noise stdev that keeps decryption
// correct with overwhelming probability for a single
// scalar_add/scalar_mul/add chain.
func DefaultParameters() Parameters {
	params, err := NewParameters(256, 4096, 4, 1.0)
	if err != nil {
		panic(err)
	}
	return params
}
