package lwe

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"math/bits"

	"github.com/vybium/hvm-stark/internal/hvm/core"
)

// ServerKey holds the scheme parameters and the secret key vector, and is
// the only type that can encrypt or decrypt (spec §3 "ServerKey"). It is
// read-only after construction and safe to share by reference across
// goroutines (spec §5).
type ServerKey struct {
	Params Parameters
	key    []core.Element // length k, each component in {0, 1}
}

// NewServerKey samples a fresh secret key of k bits using rnd (pass
// crypto/rand.Reader in production; tests may inject a deterministic
// reader).
func NewServerKey(params Parameters, rnd io.Reader) (*ServerKey, error) {
	key := make([]core.Element, params.K)
	for i := range key {
		bit, err := randomBit(rnd)
		if err != nil {
			return nil, fmt.Errorf("lwe: failed to sample secret key: %w", err)
		}
		key[i] = core.FromUint64(bit)
	}
	return &ServerKey{Params: params, key: key}, nil
}

// RestoreServerKey reconstructs a ServerKey from its wire-decoded
// parameters and key bits (spec §6's input-blob layout), without
// resampling. Callers are responsible for key's length matching
// params.K.
func RestoreServerKey(params Parameters, key []core.Element) *ServerKey {
	bits := make([]core.Element, len(key))
	copy(bits, key)
	return &ServerKey{Params: params, key: bits}
}

func randomBit(rnd io.Reader) (uint64, error) {
	var b [1]byte
	if _, err := io.ReadFull(rnd, b[:]); err != nil {
		return 0, err
	}
	return uint64(b[0] & 1), nil
}

// LweSize is k+1, the length of every ciphertext this key produces.
func (sk *ServerKey) LweSize() int {
	return sk.Params.LweSize()
}

// Key returns the raw secret-key bits (0/1 field elements), for tests and
// for the client-side wire encoding of §6's input blob.
func (sk *ServerKey) Key() []core.Element {
	out := make([]core.Element, len(sk.key))
	copy(out, sk.key)
	return out
}

// Encrypt produces a fresh LWE encryption of an 8-bit plaintext, sampling
// the mask uniformly and the noise from a Gaussian with stdev Params.Sigma
// (spec §4.1).
func (sk *ServerKey) Encrypt(m uint8, rnd io.Reader) (Ciphertext, error) {
	mask := make([]core.Element, sk.Params.K)
	for i := range mask {
		var buf [16]byte
		if _, err := io.ReadFull(rnd, buf[:]); err != nil {
			return Ciphertext{}, fmt.Errorf("lwe: failed to sample mask: %w", err)
		}
		mask[i] = core.ElementFromBytesLE(buf)
	}

	noise, err := sampleGaussian(rnd, sk.Params.Sigma)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("lwe: failed to sample noise: %w", err)
	}
	// The sign of the rounded noise is applied directly; this is
	// equivalent to the reference scheme's |e| + sign-branch formulation
	// (spec §9 flags this as a detail to confirm against the RNG's
	// convention, not a design choice to vary here).
	signedNoise := int64(math.Round(noise))

	body := core.Zero
	for i := 0; i < int(sk.Params.K); i++ {
		body = body.Add(mask[i].Mul(sk.key[i]))
	}
	body = body.Add(core.FromUint64(uint64(sk.Params.Delta)).Mul(core.FromUint64(uint64(m))))
	body = body.Add(core.FromInt64(signedNoise))

	elements := append(mask, body)
	return Ciphertext{Elements: elements}, nil
}

// Decrypt recovers the 8-bit plaintext from a ciphertext, rounding the
// noise away (spec §4.1).
func (sk *ServerKey) Decrypt(ct Ciphertext) (uint8, error) {
	if ct.Len() != sk.LweSize() {
		return 0, fmt.Errorf("lwe: ciphertext has length %d, expected %d", ct.Len(), sk.LweSize())
	}
	mask := ct.Mask()
	appliedMask := core.Zero
	for i := 0; i < int(sk.Params.K); i++ {
		appliedMask = appliedMask.Add(mask[i].Mul(sk.key[i]))
	}
	decrypted := ct.Body().Sub(appliedMask)

	log2Delta := bits.Len32(sk.Params.Delta) - 1
	v := decrypted.Big()
	roundBit := new(big.Int).Rsh(v, uint(log2Delta-1))
	roundBit.And(roundBit, big.NewInt(1))

	q := new(big.Int).Rsh(v, uint(log2Delta))
	q.Add(q, roundBit)
	q.Mod(q, big.NewInt(int64(sk.Params.P)))

	return uint8(q.Uint64()), nil
}

// EncryptTrivial embeds a public scalar into ciphertext space with a
// zero mask; it decrypts correctly without the secret key (spec §3
// "trivial ciphertext"). Generic over the ring T so the AIR can lift the
// same closed form into the degree-2 extension during symbolic evaluation
// (spec §9).
func EncryptTrivial[T any](ring core.Ring[T], params Parameters, scalar T) []T {
	out := make([]T, params.LweSize())
	for i := 0; i < int(params.K); i++ {
		out[i] = ring.Zero()
	}
	delta := ring.FromUint64(uint64(params.Delta))
	out[params.LweSize()-1] = ring.Mul(delta, scalar)
	return out
}

// Add returns the component-wise sum of two ciphertexts; noise grows
// additively (spec §4.1).
func Add[T any](ring core.Ring[T], a, b []T) ([]T, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("lwe: ciphertext length mismatch: %d vs %d", len(a), len(b))
	}
	out := make([]T, len(a))
	for i := range a {
		out[i] = ring.Add(a[i], b[i])
	}
	return out, nil
}

// ScalarAdd returns add(encrypt_trivial(scalar), ct): adds Delta*scalar to
// the body component, leaving the mask untouched (spec §4.1).
func ScalarAdd[T any](ring core.Ring[T], params Parameters, scalar T, ct []T) ([]T, error) {
	trivial := EncryptTrivial(ring, params, scalar)
	return Add(ring, trivial, ct)
}

// ScalarMul multiplies every component of ct by scalar (spec §4.1).
func ScalarMul[T any](ring core.Ring[T], scalar T, ct []T) []T {
	out := make([]T, len(ct))
	for i, c := range ct {
		out[i] = ring.Mul(scalar, c)
	}
	return out
}

// CiphertextAdd is the concrete-field convenience wrapper around Add.
func (sk *ServerKey) CiphertextAdd(a, b Ciphertext) (Ciphertext, error) {
	sum, err := Add[core.Element](core.BaseRing{}, a.Elements, b.Elements)
	if err != nil {
		return Ciphertext{}, err
	}
	return Ciphertext{Elements: sum}, nil
}

// CiphertextScalarAdd is the concrete-field convenience wrapper around
// ScalarAdd.
func (sk *ServerKey) CiphertextScalarAdd(scalar core.Element, ct Ciphertext) (Ciphertext, error) {
	out, err := ScalarAdd[core.Element](core.BaseRing{}, sk.Params, scalar, ct.Elements)
	if err != nil {
		return Ciphertext{}, err
	}
	return Ciphertext{Elements: out}, nil
}

// CiphertextScalarMul is the concrete-field convenience wrapper around
// ScalarMul.
func (sk *ServerKey) CiphertextScalarMul(scalar core.Element, ct Ciphertext) Ciphertext {
	return Ciphertext{Elements: ScalarMul[core.Element](core.BaseRing{}, scalar, ct.Elements)}
}

// EncryptTrivialField is the concrete-field convenience wrapper around
// EncryptTrivial, lifting a public scalar into ciphertext space.
func (sk *ServerKey) EncryptTrivialField(scalar core.Element) Ciphertext {
	return Ciphertext{Elements: EncryptTrivial[core.Element](core.BaseRing{}, sk.Params, scalar)}
}
