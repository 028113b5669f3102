// Package hvm provides a verifiable homomorphic virtual machine: a
// stack-oriented bytecode VM whose execution trace doubles as the witness
// for a STARK proof, over ciphertexts of an LWE encryption scheme.
//
// # Features
//
// - Stack machine over LWE ciphertexts (scalar and ciphertext-ciphertext ops)
// - Algebraic execution trace suitable for STARK proving
// - Rescue-Prime sponge program commitment woven into every instruction row
// - AIR transition constraints and boundary assertions over the trace
//
// # Quick Start
//
// Compiling and running a program, then building a provable claim:
//
//	program, err := hvm.Compile("push.1 push.2 add")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	claim, err := hvm.Run(program, nil, nil, params, nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := hvm.Prove(claim, hvm.DefaultProofOptions(), engine)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = hvm.Verify(proof, claim.PublicInputs(), claim.Trace.Length, hvm.DefaultProofOptions(), engine)
//
// # Architecture
//
// - pkg/hvm/: public API (this package)
// - internal/hvm/: private implementation (core field/hash, lwe, vm, air, prover)
//
// Implementation details in internal/ can change without breaking the
// public API.
package hvm
