// Command hvm-server runs a compiled program against a client-supplied
// input blob and emits an output blob carrying the program's commitment,
// its proof, and the raw output tape (spec §6).
package main

import (
	"fmt"
	"os"

	"github.com/vybium/hvm-stark/internal/hvm/prover"
	"github.com/vybium/hvm-stark/pkg/hvm"
)

func main() {
	if len(os.Args) != 4 {
		fatal("usage: hvm-server <program.asm> <input-blob> <output-blob>")
	}

	programPath, inputPath, outputPath := os.Args[1], os.Args[2], os.Args[3]

	source, err := os.ReadFile(programPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to read program: %v", err))
	}

	logStderr("compiling program...")
	program, err := hvm.Compile(string(source))
	if err != nil {
		fatal(fmt.Sprintf("failed to compile program: %v", err))
	}

	inputData, err := os.ReadFile(inputPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to read input blob: %v", err))
	}

	blob, err := hvm.DecodeInputBlob(inputData)
	if err != nil {
		fatal(fmt.Sprintf("failed to decode input blob: %v", err))
	}

	logStderr("executing program...")
	claim, err := hvm.Run(program, blob.PublicInput, blob.SecretInputs, blob.Key.Params, nil)
	if err != nil {
		fatal(fmt.Sprintf("execution failed: %v", err))
	}

	logStderr("generating proof...")
	opts := hvm.DefaultProofOptions()
	proof, err := hvm.Prove(claim, opts, prover.ReferenceEngine{})
	if err != nil {
		fatal(fmt.Sprintf("proof generation failed: %v", err))
	}

	output := &hvm.OutputBlob{
		Digest: claim.Public.ProgramDigest,
		Proof:  proof,
		Output: claim.Public.StackOutputs[:],
	}
	encoded := hvm.EncodeOutputBlob(output)

	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		fatal(fmt.Sprintf("failed to write output blob: %v", err))
	}

	logStderr("proof emitted")
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "hvm-server:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
