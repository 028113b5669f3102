package core

// nonResidue is a fixed quadratic non-residue of the base field, used to
// build the degree-2 extension F[w]/(w^2 - nonResidue). As with the cube
// exponent in field.go, implementers should confirm this value is actually
// a non-residue (Euler's criterion: nonResidue^((p-1)/2) != 1) before
// relying on Element2 for anything security-critical; it is fixed at
// module-init time and never varies at runtime.
var nonResidue = FromUint64(7)

// Element2 is an element of the degree-2 extension field used by the AIR
// when it evaluates transition constraints symbolically at an
// out-of-domain point (spec §9, "Scalar vs. ciphertext unification").
// A0 + A1*w, with w^2 = nonResidue.
type Element2 struct {
	A0 Element
	A1 Element
}

// Zero2 is the additive identity of the extension field.
var Zero2 = Element2{}

// One2 is the multiplicative identity of the extension field.
var One2 = Element2{A0: One}

// FromBase lifts a base-field element into the extension as a0 + 0*w.
func FromBase(a Element) Element2 {
	return Element2{A0: a}
}

// Add returns e + other.
func (e Element2) Add(other Element2) Element2 {
	return Element2{A0: e.A0.Add(other.A0), A1: e.A1.Add(other.A1)}
}

// Sub returns e - other.
func (e Element2) Sub(other Element2) Element2 {
	return Element2{A0: e.A0.Sub(other.A0), A1: e.A1.Sub(other.A1)}
}

// Mul returns e * other, reducing via w^2 = nonResidue.
func (e Element2) Mul(other Element2) Element2 {
	// (a0 + a1 w)(b0 + b1 w) = a0 b0 + nonResidue a1 b1 + (a0 b1 + a1 b0) w
	a0b0 := e.A0.Mul(other.A0)
	a1b1 := e.A1.Mul(other.A1)
	cross := e.A0.Mul(other.A1).Add(e.A1.Mul(other.A0))
	return Element2{
		A0: a0b0.Add(a1b1.Mul(nonResidue)),
		A1: cross,
	}
}

// MulBase scales e by a base-field element.
func (e Element2) MulBase(s Element) Element2 {
	return Element2{A0: e.A0.Mul(s), A1: e.A1.Mul(s)}
}

// Neg returns -e.
func (e Element2) Neg() Element2 {
	return Element2{A0: e.A0.Neg(), A1: e.A1.Neg()}
}

// IsZero reports whether e is the additive identity.
func (e Element2) IsZero() bool {
	return e.A0.IsZero() && e.A1.IsZero()
}

// Equal reports whether e and other are the same extension element.
func (e Element2) Equal(other Element2) bool {
	return e.A0.Equal(other.A0) && e.A1.Equal(other.A1)
}

// String renders "a0 + a1*w".
func (e Element2) String() string {
	return e.A0.String() + " + " + e.A1.String() + "*w"
}

// Ring is the minimal algebraic interface the LWE scalar_add/scalar_mul
// closed forms need in order to be evaluated generically over either the
// base field (concrete execution) or its degree-2 extension (the AIR's
// out-of-domain symbolic evaluation), per spec §9.
type Ring[T any] interface {
	Zero() T
	FromUint64(uint64) T
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
}

// BaseRing implements Ring[Element].
type BaseRing struct{}

func (BaseRing) Zero() Element                { return Zero }
func (BaseRing) FromUint64(v uint64) Element  { return FromUint64(v) }
func (BaseRing) Add(a, b Element) Element     { return a.Add(b) }
func (BaseRing) Sub(a, b Element) Element     { return a.Sub(b) }
func (BaseRing) Mul(a, b Element) Element     { return a.Mul(b) }

// ExtRing implements Ring[Element2].
type ExtRing struct{}

func (ExtRing) Zero() Element2               { return Zero2 }
func (ExtRing) FromUint64(v uint64) Element2 { return FromBase(FromUint64(v)) }
func (ExtRing) Add(a, b Element2) Element2   { return a.Add(b) }
func (ExtRing) Sub(a, b Element2) Element2   { return a.Sub(b) }
func (ExtRing) Mul(a, b Element2) Element2   { return a.Mul(b) }
