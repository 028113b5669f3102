package hvm

import (
	"crypto/rand"
	"io"

	"github.com/vybium/hvm-stark/internal/hvm/asm"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
	"github.com/vybium/hvm-stark/internal/hvm/prover"
	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

func wrap(code ErrorCode, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Cause: err}
}

// Compile parses textual source (spec §6's grammar) into a padded,
// digested Program.
func Compile(source string) (*Program, error) {
	ops, err := asm.Parse(source)
	if err != nil {
		return nil, wrap(ErrProgram, err)
	}
	program, err := vm.Compile(ops)
	if err != nil {
		return nil, wrap(ErrProgram, err)
	}
	return program, nil
}

// Run executes program against the given input tapes and assembles the
// resulting trace into a Claim ready for Prove. rnd seeds the trace's
// randomised last row (spec §4.8); pass nil to use crypto/rand.
func Run(program *Program, tapeA []uint8, tapeB []Ciphertext, params Parameters, rnd io.Reader) (*Claim, error) {
	if rnd == nil {
		rnd = rand.Reader
	}

	rows, err := vm.Run(program, tapeA, tapeB, params)
	if err != nil {
		return nil, wrap(ErrStack, err)
	}

	trace, err := vm.Assemble(rows, rnd)
	if err != nil {
		return nil, wrap(ErrChiplets, err)
	}

	outputs := vm.StackOutputs(trace)
	var stackOutputs [16]FieldElement
	copy(stackOutputs[:], outputs[:])

	claim := &Claim{
		Program: program,
		Trace:   trace,
		Public: PublicInputs{
			ProgramDigest: program.Digest,
			StackOutputs:  stackOutputs,
			Params:        params,
		},
	}
	return claim, nil
}

// Prove hands claim's trace to engine under opts, returning an opaque
// proof blob (spec §4.10).
func Prove(claim *Claim, opts *ProofOptions, engine Engine) ([]byte, error) {
	p, err := prover.NewProver(opts, engine)
	if err != nil {
		return nil, wrap(ErrProver, err)
	}

	internalClaim := &prover.Claim{
		Program: claim.Program,
		Trace:   claim.Trace,
		Params:  claim.Public.Params,
		Public:  claim.Public.toAIR(),
	}

	proof, err := p.Prove(internalClaim)
	if err != nil {
		return nil, wrap(ErrProver, err)
	}
	return proof, nil
}

// Verify checks proof against pub under opts, delegating to engine. It
// returns nil if and only if the proof is accepted.
func Verify(proof []byte, pub PublicInputs, traceLength int, opts *ProofOptions, engine Engine) error {
	v, err := prover.NewVerifier(opts, engine)
	if err != nil {
		return wrap(ErrProver, err)
	}
	if err := v.Verify(proof, traceLength, pub.Params, pub.toAIR()); err != nil {
		return wrap(ErrProver, err)
	}
	return nil
}

// NewServerKey samples a fresh ServerKey for params using crypto/rand.
func NewServerKey(params Parameters) (*ServerKey, error) {
	return lwe.NewServerKey(params, rand.Reader)
}
