package lwe

import (
	"fmt"

	"github.com/vybium/hvm-stark/internal/hvm/core"
)

// Ciphertext is an LWE encryption of one plaintext: a vector of length
// k+1 in F, (a_1, ..., a_k, b) (spec §3).
type Ciphertext struct {
	Elements []core.Element
}

// NewCiphertext wraps a slice of field elements as a ciphertext without
// copying defensively; callers that need to retain ownership should clone.
func NewCiphertext(elements []core.Element) Ciphertext {
	return Ciphertext{Elements: elements}
}

// Len returns the ciphertext's vector length (lwe_size).
func (c Ciphertext) Len() int {
	return len(c.Elements)
}

// Clone returns an independent copy of the ciphertext.
func (c Ciphertext) Clone() Ciphertext {
	out := make([]core.Element, len(c.Elements))
	copy(out, c.Elements)
	return Ciphertext{Elements: out}
}

// Mask returns the mask components a_1..a_k (everything but the body).
func (c Ciphertext) Mask() []core.Element {
	if len(c.Elements) == 0 {
		return nil
	}
	return c.Elements[:len(c.Elements)-1]
}

// Body returns the body component b.
func (c Ciphertext) Body() core.Element {
	return c.Elements[len(c.Elements)-1]
}

// requireSameLen validates that two ciphertexts share a length before a
// component-wise operation.
func requireSameLen(a, b Ciphertext) error {
	if len(a.Elements) != len(b.Elements) {
		return fmt.Errorf("lwe: ciphertext length mismatch: %d vs %d", len(a.Elements), len(b.Elements))
	}
	return nil
}
