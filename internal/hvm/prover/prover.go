package prover

import (
	"fmt"

	"github.com/vybium/hvm-stark/internal/hvm/air"
	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

// ProverError wraps a failure reported by the external STARK engine this
// package delegates to; the engine's own error is opaque (spec §7).
type ProverError struct {
	Err error
}

func (e *ProverError) Error() string {
	return fmt.Sprintf("prover: %v", e.Err)
}

func (e *ProverError) Unwrap() error {
	return e.Err
}

// Engine is the external STARK prover/verifier this package hands a trace
// and AIR to; its implementation (trace commitment, FRI, Merkle hashing
// over the field) is a black box outside this module's scope (spec §1, §4.10).
type Engine interface {
	Prove(trace *vm.Trace, constraints ConstraintSystem, pub air.PublicInputs, opts *ProofOptions) ([]byte, error)
	Verify(proof []byte, constraints ConstraintSystem, pub air.PublicInputs, opts *ProofOptions) error
}

// ConstraintSystem bundles the AIR evaluator and degree table an Engine
// needs to build and check a quotient argument, independent of how the
// engine represents polynomials internally.
type ConstraintSystem struct {
	Params       lwe.Parameters
	Degrees      [air.NumTransitionConstraints]int
	Assertions   []air.BoundaryAssertion
	TraceLength  int
	EvaluateStep func(cur, next [vm.NumColumns]core.Element, rowIndex int) ([air.NumTransitionConstraints]core.Element, error)
}

// Claim is everything a prover needs to produce a proof for one program
// run: the compiled program, its padded trace, and the inputs the verifier
// is told about (spec §4.10's PublicInputs).
type Claim struct {
	Program *vm.Program
	Trace   *vm.Trace
	Params  lwe.Parameters
	Public  air.PublicInputs
}

// BuildClaim assembles a Claim from a compiled program and the tapes it was
// run against, deriving PublicInputs from the resulting trace (spec §4.10).
func BuildClaim(program *vm.Program, tapeA []uint8, tapeB []lwe.Ciphertext, params lwe.Parameters, rnd randReader) (*Claim, error) {
	rows, err := vm.Run(program, tapeA, tapeB, params)
	if err != nil {
		return nil, err
	}
	trace, err := vm.Assemble(rows, rnd)
	if err != nil {
		return nil, err
	}

	outputs := vm.StackOutputs(trace)
	var stackOutputs [8]core.Element
	copy(stackOutputs[:], outputs[:8])

	pub := air.PublicInputs{
		ProgramDigest: program.Digest,
		StackOutputs:  stackOutputs,
	}

	return &Claim{Program: program, Trace: trace, Params: params, Public: pub}, nil
}

type randReader interface {
	Read(p []byte) (n int, err error)
}

// Prover packages a Claim into the constraint system an Engine consumes and
// drives proof generation (spec §4.10).
type Prover struct {
	opts   *ProofOptions
	engine Engine
}

// NewProver creates a Prover bound to opts and the external engine it
// delegates proof generation to.
func NewProver(opts *ProofOptions, engine Engine) (*Prover, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Prover{opts: opts, engine: engine}, nil
}

// Prove builds the constraint system for claim and hands it, together with
// the witness trace, to the external engine.
func (p *Prover) Prove(claim *Claim) ([]byte, error) {
	system := newConstraintSystem(claim.Params)
	system.Assertions = air.Assertions(claim.Trace.Length, claim.Public)
	system.TraceLength = claim.Trace.Length

	proof, err := p.engine.Prove(claim.Trace, system, claim.Public, p.opts)
	if err != nil {
		return nil, &ProverError{Err: err}
	}
	return proof, nil
}

func newConstraintSystem(params lwe.Parameters) ConstraintSystem {
	return ConstraintSystem{
		Params:  params,
		Degrees: air.TransitionDegrees,
		EvaluateStep: func(cur, next [vm.NumColumns]core.Element, rowIndex int) ([air.NumTransitionConstraints]core.Element, error) {
			return air.EvaluateTransitionConcrete(cur, next, rowIndex, params)
		},
	}
}
