// Package prover wires a compiled Program's execution trace and AIR into
// the public-input package and proof parameters an external STARK prover
// consumes, and implements the Fiat-Shamir transcript the prover and
// verifier share (spec §4.10, §6, §7).
package prover

import "fmt"

// ExtensionField selects the field the STARK's random-point evaluations are
// drawn from (spec §4.10).
type ExtensionField int

const (
	NoExtension ExtensionField = iota
	QuadraticExtension
)

func (e ExtensionField) String() string {
	switch e {
	case NoExtension:
		return "none"
	case QuadraticExtension:
		return "degree-2"
	default:
		return "unknown"
	}
}

// ProofOptions are the public constants of a deployment (spec §4.10): the
// minima below are the protocol floor, DefaultProofOptions gives a concrete
// deployment choice.
type ProofOptions struct {
	Blowup            int
	Queries           int
	GrindingBits      int
	Extension         ExtensionField
	FRIFoldingFactor  int
	ConjecturedBits   int
}

// DefaultProofOptions returns 32 queries, blowup 8, 0 grinding bits, no
// extension field, FRI folding factor 8 and 127 conjectured security bits,
// which passes Validate.
func DefaultProofOptions() *ProofOptions {
	return &ProofOptions{
		Blowup:           8,
		Queries:          32,
		GrindingBits:     0,
		Extension:        NoExtension,
		FRIFoldingFactor: 8,
		ConjecturedBits:  127,
	}
}

// Validate enforces the protocol floor of spec §4.10: blowup >= 8,
// queries >= 32, FRI folding factor 8, conjectured security >= 95 bits.
func (o *ProofOptions) Validate() error {
	if o.Blowup < 8 {
		return fmt.Errorf("blowup factor must be at least 8, got %d", o.Blowup)
	}
	if o.Queries < 32 {
		return fmt.Errorf("query count must be at least 32, got %d", o.Queries)
	}
	if o.GrindingBits < 0 {
		return fmt.Errorf("grinding bits must be non-negative, got %d", o.GrindingBits)
	}
	if o.FRIFoldingFactor != 8 {
		return fmt.Errorf("FRI folding factor must be 8, got %d", o.FRIFoldingFactor)
	}
	if o.ConjecturedBits < 95 {
		return fmt.Errorf("conjectured security must be at least 95 bits, got %d", o.ConjecturedBits)
	}
	return nil
}

// WithBlowup sets the blowup factor.
func (o *ProofOptions) WithBlowup(blowup int) *ProofOptions {
	o.Blowup = blowup
	return o
}

// WithQueries sets the number of FRI query positions.
func (o *ProofOptions) WithQueries(queries int) *ProofOptions {
	o.Queries = queries
	return o
}

// WithGrindingBits sets the proof-of-work grinding difficulty.
func (o *ProofOptions) WithGrindingBits(bits int) *ProofOptions {
	o.GrindingBits = bits
	return o
}

// WithExtension sets the extension field used for out-of-domain evaluation.
func (o *ProofOptions) WithExtension(ext ExtensionField) *ProofOptions {
	o.Extension = ext
	return o
}

// WithFRIFoldingFactor sets the FRI folding factor.
func (o *ProofOptions) WithFRIFoldingFactor(factor int) *ProofOptions {
	o.FRIFoldingFactor = factor
	return o
}

// WithConjecturedBits sets the minimum conjectured security level, in bits.
func (o *ProofOptions) WithConjecturedBits(bits int) *ProofOptions {
	o.ConjecturedBits = bits
	return o
}

// Clone returns an independent copy of o.
func (o *ProofOptions) Clone() *ProofOptions {
	clone := *o
	return &clone
}
