package prover

import (
	"github.com/vybium/hvm-stark/internal/hvm/air"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
)

// Verifier checks proofs produced by a Prover against the same ProofOptions
// and external engine, never touching the witness trace itself.
type Verifier struct {
	opts   *ProofOptions
	engine Engine
}

// NewVerifier creates a Verifier bound to opts and the external engine it
// delegates verification to.
func NewVerifier(opts *ProofOptions, engine Engine) (*Verifier, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Verifier{opts: opts, engine: engine}, nil
}

// Verify checks proof against the claimed public inputs and trace length,
// without ever seeing the witness trace.
func (v *Verifier) Verify(proof []byte, traceLength int, params lwe.Parameters, pub air.PublicInputs) error {
	system := newConstraintSystem(params)
	system.Assertions = air.Assertions(traceLength, pub)
	system.TraceLength = traceLength

	if err := v.engine.Verify(proof, system, pub, v.opts); err != nil {
		return &ProverError{Err: err}
	}
	return nil
}
