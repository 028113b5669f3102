package hvm

import (
	"github.com/vybium/hvm-stark/internal/hvm/air"
	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
	"github.com/vybium/hvm-stark/internal/hvm/prover"
	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

// FieldElement is the public alias for an element of the VM's prime field.
type FieldElement = core.Element

// Ciphertext is the public alias for an LWE ciphertext vector.
type Ciphertext = lwe.Ciphertext

// Parameters is the public alias for the LWE scheme's parameters.
type Parameters = lwe.Parameters

// ServerKey is the public alias for the LWE secret key holder.
type ServerKey = lwe.ServerKey

// Program is the public alias for a compiled, padded, digested program.
type Program = vm.Program

// ProofOptions is the public alias for the STARK deployment's proof
// parameters (spec §4.10).
type ProofOptions = prover.ProofOptions

// Engine is the public alias for the external STARK prover/verifier
// black box this module hands a trace and AIR to (spec §1, §4.10).
type Engine = prover.Engine

// DefaultProofOptions returns the spec's named default deployment choice.
func DefaultProofOptions() *ProofOptions {
	return prover.DefaultProofOptions()
}

// DefaultParameters returns the worked-example LWE parameters of spec §8.
func DefaultParameters() Parameters {
	return lwe.DefaultParameters()
}

// PublicInputs is the full public record a verifier needs: the program's
// commitment, all 16 final stack slots, and the deployment's LWE
// parameters (so the AIR can evaluate ServerKey-dependent constraints
// symbolically). Only the first 8 stack slots are boundary-asserted (spec
// §4.9); the rest are carried for wire fidelity with spec §6's layout.
type PublicInputs struct {
	ProgramDigest [2]FieldElement
	StackOutputs  [16]FieldElement
	Params        Parameters
}

func (p PublicInputs) toAIR() air.PublicInputs {
	var asserted [8]FieldElement
	copy(asserted[:], p.StackOutputs[:8])
	return air.PublicInputs{ProgramDigest: p.ProgramDigest, StackOutputs: asserted}
}

// Claim bundles a compiled program's assembled trace with the public
// record a verifier checks it against (spec §4.10).
type Claim struct {
	Program *Program
	Trace   *vm.Trace
	Public  PublicInputs
}

// PublicInputs returns the claim's public record, suitable for handing to
// Verify alongside a proof.
func (c *Claim) PublicInputs() PublicInputs {
	return c.Public
}
