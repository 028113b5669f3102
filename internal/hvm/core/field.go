// Package core provides the field arithmetic and algebraic sponge shared by
// every chiplet and by the AIR: a 128-bit prime field and the Rescue-Prime
// permutation built on top of it.
package core

import (
	"fmt"
	"math/big"
)

// Modulus is the 128-bit prime p = 2^128 - 45*2^40 + 1 that every trace
// column, ciphertext component and sponge lane is an element of.
var Modulus = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 128)
	c := new(big.Int).Lsh(big.NewInt(45), 40)
	p.Sub(p, c)
	p.Add(p, big.NewInt(1))
	return p
}()

// Element is an element of the base field. The zero value is the field's
// additive identity.
type Element struct {
	v big.Int
}

// Zero is the additive identity.
var Zero = Element{}

// One is the multiplicative identity.
var One = FromUint64(1)

func reduce(v *big.Int) Element {
	var e Element
	e.v.Mod(v, Modulus)
	return e
}

// FromUint64 embeds a uint64 integer into the field.
func FromUint64(v uint64) Element {
	return reduce(new(big.Int).SetUint64(v))
}

// FromInt64 embeds a signed integer into the field; negative values wrap
// around modulo p (big.Int.Mod uses Euclidean division, so this always
// yields a value in [0, p)).
func FromInt64(v int64) Element {
	return reduce(new(big.Int).SetInt64(v))
}

// FromBigInt reduces an arbitrary big.Int into the field.
func FromBigInt(v *big.Int) Element {
	return reduce(v)
}

// Big returns the canonical representative of e as a big.Int in [0, p).
func (e Element) Big() *big.Int {
	return new(big.Int).Set(&e.v)
}

// Add returns e + other mod p.
func (e Element) Add(other Element) Element {
	return reduce(new(big.Int).Add(&e.v, &other.v))
}

// Sub returns e - other mod p.
func (e Element) Sub(other Element) Element {
	return reduce(new(big.Int).Sub(&e.v, &other.v))
}

// Mul returns e * other mod p.
func (e Element) Mul(other Element) Element {
	return reduce(new(big.Int).Mul(&e.v, &other.v))
}

// Neg returns -e mod p.
func (e Element) Neg() Element {
	return reduce(new(big.Int).Neg(&e.v))
}

// Square returns e^2.
func (e Element) Square() Element {
	return e.Mul(e)
}

// Cube returns e^3 — the Rescue-Prime forward S-box, alpha = 3.
func (e Element) Cube() Element {
	return e.Mul(e).Mul(e)
}

// Exp returns e^n mod p for a non-negative exponent.
func (e Element) Exp(n *big.Int) Element {
	return reduce(new(big.Int).Exp(&e.v, n, Modulus))
}

// InvCubeExponent is (2p-1)/3, the exponent of the inverse cube map: since
// p mod 3 == 2, x -> x^3 is a bijection on F and this is its inverse.
var InvCubeExponent = func() *big.Int {
	two := new(big.Int).Lsh(Modulus, 1)
	two.Sub(two, big.NewInt(1))
	return two.Div(two, big.NewInt(3))
}()

// InvCube returns the inverse S-box x^((2p-1)/3), undoing Cube.
func (e Element) InvCube() Element {
	return e.Exp(InvCubeExponent)
}

// Inv returns the multiplicative inverse of e. Panics if e is zero.
func (e Element) Inv() Element {
	if e.IsZero() {
		panic("core: inverse of zero field element")
	}
	exp := new(big.Int).Sub(Modulus, big.NewInt(2))
	return e.Exp(exp)
}

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool {
	return e.v.Sign() == 0
}

// Equal reports whether e and other represent the same field element.
func (e Element) Equal(other Element) bool {
	return e.v.Cmp(&other.v) == 0
}

// String renders the canonical decimal representative.
func (e Element) String() string {
	return e.v.String()
}

// BytesLE returns the 16-byte little-endian encoding used by the wire
// protocol in spec §6 (ServerKey / ciphertext blob layout).
func (e Element) BytesLE() [16]byte {
	var out [16]byte
	be := e.v.Bytes() // big-endian, minimal length
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// ElementFromBytesLE decodes a 16-byte little-endian encoding back into a
// field element, reducing modulo p as a defensive measure.
func ElementFromBytesLE(b [16]byte) Element {
	be := make([]byte, 16)
	for i := 0; i < 16; i++ {
		be[15-i] = b[i]
	}
	return reduce(new(big.Int).SetBytes(be))
}

// Validate checks that the modulus has the shape the rest of the package
// assumes (p = 2^128 - 45*2^40 + 1, p ≡ 2 mod 3 so the cube map is a
// bijection). Exercised by tests; not on any hot path.
func Validate() error {
	threeModPMinus1 := new(big.Int).Mod(new(big.Int).Sub(Modulus, big.NewInt(1)), big.NewInt(3))
	if threeModPMinus1.Sign() == 0 {
		return fmt.Errorf("core: p-1 divisible by 3, cube map is not a bijection")
	}
	return nil
}
