// Command hvm-client prepares encrypted input blobs for hvm-server and
// verifies the output blobs it returns, decrypting the result with the
// secret key it never shares with the server (spec §6).
package main

import (
	"crypto/rand"
	"fmt"
	"os"
	"strconv"

	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
	"github.com/vybium/hvm-stark/internal/hvm/prover"
	"github.com/vybium/hvm-stark/pkg/hvm"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "prepare":
		runPrepare(os.Args[2:])
	case "verify":
		runVerify(os.Args[2:])
	default:
		usage()
	}
}

func usage() {
	fatal("usage: hvm-client prepare <key-out> <input-blob-out> <public-bytes> <secret-u8>...\n" +
		"       hvm-client verify <key-in> <output-blob> <proof-len> <program.asm>")
}

func runPrepare(args []string) {
	if len(args) < 3 {
		usage()
	}
	keyPath, blobPath, publicArg := args[0], args[1], args[2]
	secretArgs := args[3:]

	params := hvm.DefaultParameters()
	key, err := hvm.NewServerKey(params)
	if err != nil {
		fatal(fmt.Sprintf("failed to generate key: %v", err))
	}

	secrets := make([]hvm.Ciphertext, len(secretArgs))
	for i, arg := range secretArgs {
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			fatal(fmt.Sprintf("invalid secret plaintext %q: %v", arg, err))
		}
		ct, err := key.Encrypt(uint8(v), rand.Reader)
		if err != nil {
			fatal(fmt.Sprintf("failed to encrypt: %v", err))
		}
		secrets[i] = ct
	}

	blob := &hvm.InputBlob{
		Key:          key,
		SecretInputs: secrets,
		PublicInput:  []byte(publicArg),
	}
	encoded, err := hvm.EncodeInputBlob(blob)
	if err != nil {
		fatal(fmt.Sprintf("failed to encode input blob: %v", err))
	}
	if err := os.WriteFile(blobPath, encoded, 0o644); err != nil {
		fatal(fmt.Sprintf("failed to write input blob: %v", err))
	}

	keyBytes, err := hvm.EncodeInputBlob(&hvm.InputBlob{Key: key})
	if err != nil {
		fatal(fmt.Sprintf("failed to encode key: %v", err))
	}
	if err := os.WriteFile(keyPath, keyBytes, 0o644); err != nil {
		fatal(fmt.Sprintf("failed to write key: %v", err))
	}

	logStderr("input blob prepared")
}

func runVerify(args []string) {
	if len(args) != 4 {
		usage()
	}
	keyPath, outputPath, proofLenArg, programPath := args[0], args[1], args[2], args[3]

	proofLen, err := strconv.Atoi(proofLenArg)
	if err != nil {
		fatal(fmt.Sprintf("invalid proof length: %v", err))
	}

	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to read key: %v", err))
	}
	keyBlob, err := hvm.DecodeInputBlob(keyData)
	if err != nil {
		fatal(fmt.Sprintf("failed to decode key: %v", err))
	}

	source, err := os.ReadFile(programPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to read program: %v", err))
	}
	program, err := hvm.Compile(string(source))
	if err != nil {
		fatal(fmt.Sprintf("failed to compile program: %v", err))
	}

	outputData, err := os.ReadFile(outputPath)
	if err != nil {
		fatal(fmt.Sprintf("failed to read output blob: %v", err))
	}
	output, err := hvm.DecodeOutputBlob(outputData, proofLen)
	if err != nil {
		fatal(fmt.Sprintf("failed to decode output blob: %v", err))
	}

	if !output.Digest[0].Equal(program.Digest[0]) || !output.Digest[1].Equal(program.Digest[1]) {
		fatal("program digest mismatch")
	}

	var stackOutputs [16]core.Element
	copy(stackOutputs[:], output.Output)
	pub := hvm.PublicInputs{
		ProgramDigest: output.Digest,
		StackOutputs:  stackOutputs,
		Params:        keyBlob.Key.Params,
	}

	logStderr("verifying proof...")
	traceLength := estimateTraceLength(program)
	opts := hvm.DefaultProofOptions()
	if err := hvm.Verify(output.Proof, pub, traceLength, opts, prover.ReferenceEngine{}); err != nil {
		fatal(fmt.Sprintf("proof verification failed: %v", err))
	}

	lweSize := keyBlob.Key.Params.LweSize()
	plaintext, err := keyBlob.Key.Decrypt(lwe.NewCiphertext(output.Output[:lweSize]))
	if err != nil {
		fatal(fmt.Sprintf("failed to decrypt output: %v", err))
	}

	fmt.Printf("%d\n", plaintext)
	logStderr("proof verified and output decrypted")
}

func estimateTraceLength(program *hvm.Program) int {
	n := len(program.Ops) + 1
	length := 1
	for length < n {
		length *= 2
	}
	return length
}

func logStderr(msg string) {
	fmt.Fprintln(os.Stderr, "hvm-client:", msg)
}

func fatal(msg string) {
	logStderr("ERROR: " + msg)
	os.Exit(1)
}
