package prover

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vybium/hvm-stark/internal/hvm/air"
	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/vm"
)

// ReferenceEngine is a self-contained Engine: it commits every trace
// column with a Merkle tree, derives query positions from a Fiat-Shamir
// transcript seeded by the commitments and the program digest, and opens the
// queried rows so the verifier can recompute every transition constraint
// and boundary assertion without ever seeing the rest of the trace.
//
// It does not run a low-degree (FRI) test over the committed columns, so
// its soundness is weaker than a full STARK; callers needing the
// production DEEP-FRI argument supply their own Engine.
type ReferenceEngine struct{}

func (ReferenceEngine) Prove(trace *vm.Trace, system ConstraintSystem, pub air.PublicInputs, opts *ProofOptions) ([]byte, error) {
	trees := make([]*core.MerkleTree, vm.NumColumns)
	roots := make([][]byte, vm.NumColumns)
	for c := 0; c < vm.NumColumns; c++ {
		trees[c] = core.NewMerkleTree(trace.Columns[c])
		roots[c] = trees[c].Root()
	}

	channel := NewChannel()
	for _, root := range roots {
		channel.Send(root)
	}
	digest0, digest1 := pub.ProgramDigest[0].BytesLE(), pub.ProgramDigest[1].BytesLE()
	channel.Send(digest0[:])
	channel.Send(digest1[:])

	queryable := trace.Length - vm.NumTransitionExemptions
	if queryable < 1 {
		return nil, fmt.Errorf("prover: trace too short to query")
	}
	positions := channel.ReceiveRandomQueryPositions(opts.Queries, queryable)

	var buf bytes.Buffer
	for _, root := range roots {
		buf.Write(root)
	}
	writeUint(&buf, uint64(len(positions)))

	for _, row := range positions {
		writeUint(&buf, uint64(row))
		for c := 0; c < vm.NumColumns; c++ {
			writeElement(&buf, trace.Columns[c][row])
			writeElement(&buf, trace.Columns[c][row+1])
			writeProof(&buf, trees[c].Open(row))
			writeProof(&buf, trees[c].Open(row+1))
		}
	}

	// Boundary assertions are anchored at fixed rows (0 and L-NumTransitionExemptions)
	// that the random query positions above have no obligation to land on;
	// open them explicitly so the verifier can always check them.
	writeUint(&buf, uint64(len(system.Assertions)))
	for _, a := range system.Assertions {
		writeElement(&buf, trace.Columns[a.Column][a.Row])
		writeProof(&buf, trees[a.Column].Open(a.Row))
	}

	return buf.Bytes(), nil
}

func (ReferenceEngine) Verify(proof []byte, system ConstraintSystem, pub air.PublicInputs, opts *ProofOptions) error {
	r := bytes.NewReader(proof)

	roots := make([][]byte, vm.NumColumns)
	for c := 0; c < vm.NumColumns; c++ {
		root := make([]byte, 32)
		if _, err := io.ReadFull(r, root); err != nil {
			return fmt.Errorf("verifier: truncated proof reading root %d: %w", c, err)
		}
		roots[c] = root
	}

	channel := NewChannel()
	for _, root := range roots {
		channel.Send(root)
	}
	digest0, digest1 := pub.ProgramDigest[0].BytesLE(), pub.ProgramDigest[1].BytesLE()
	channel.Send(digest0[:])
	channel.Send(digest1[:])

	queryable := system.TraceLength - vm.NumTransitionExemptions
	if queryable < 1 {
		return fmt.Errorf("verifier: trace too short to query")
	}
	expected := channel.ReceiveRandomQueryPositions(opts.Queries, queryable)

	numQueries, err := readUint(r)
	if err != nil {
		return err
	}
	if int(numQueries) != len(expected) {
		return fmt.Errorf("verifier: expected %d query positions, proof has %d", len(expected), numQueries)
	}

	for i := uint64(0); i < numQueries; i++ {
		row, err := readUint(r)
		if err != nil {
			return err
		}
		if int(row) != expected[i] {
			return fmt.Errorf("verifier: query position %d does not match Fiat-Shamir transcript (got %d, want %d)", i, row, expected[i])
		}
		var cur, next [vm.NumColumns]core.Element
		for c := 0; c < vm.NumColumns; c++ {
			curVal, err := readElement(r)
			if err != nil {
				return err
			}
			nextVal, err := readElement(r)
			if err != nil {
				return err
			}
			curProof, err := readProof(r, int(row))
			if err != nil {
				return err
			}
			nextProof, err := readProof(r, int(row)+1)
			if err != nil {
				return err
			}
			if !core.VerifyMerkleProof(roots[c], curVal, curProof) {
				return fmt.Errorf("verifier: merkle proof failed for column %d row %d", c, row)
			}
			if !core.VerifyMerkleProof(roots[c], nextVal, nextProof) {
				return fmt.Errorf("verifier: merkle proof failed for column %d row %d", c, row+1)
			}
			cur[c], next[c] = curVal, nextVal
		}

		values, err := system.EvaluateStep(cur, next, int(row))
		if err != nil {
			return err
		}
		for idx, v := range values {
			if !v.IsZero() {
				return fmt.Errorf("verifier: transition constraint %d violated at row %d", idx, row)
			}
		}
	}

	// Boundary assertions are anchored at fixed rows the random queries above
	// have no obligation to cover; the prover opens them separately and they
	// are always checked here, independent of which rows were queried.
	numAssertions, err := readUint(r)
	if err != nil {
		return err
	}
	if int(numAssertions) != len(system.Assertions) {
		return fmt.Errorf("verifier: expected %d boundary assertions, proof has %d", len(system.Assertions), numAssertions)
	}
	for _, a := range system.Assertions {
		val, err := readElement(r)
		if err != nil {
			return err
		}
		proof, err := readProof(r, a.Row)
		if err != nil {
			return err
		}
		if !core.VerifyMerkleProof(roots[a.Column], val, proof) {
			return fmt.Errorf("verifier: merkle proof failed for boundary assertion at column %d row %d", a.Column, a.Row)
		}
		if !val.Equal(a.Value) {
			return fmt.Errorf("verifier: boundary assertion at column %d row %d violated", a.Column, a.Row)
		}
	}

	return nil
}

func writeUint(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func readUint(r *bytes.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, fmt.Errorf("verifier: truncated proof: %w", err)
	}
	return binary.LittleEndian.Uint64(tmp[:]), nil
}

func writeElement(buf *bytes.Buffer, e core.Element) {
	b := e.BytesLE()
	buf.Write(b[:])
}

func readElement(r *bytes.Reader) (core.Element, error) {
	var tmp [16]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return core.Element{}, fmt.Errorf("verifier: truncated proof: %w", err)
	}
	return core.ElementFromBytesLE(tmp), nil
}

func writeProof(buf *bytes.Buffer, proof core.MerkleProof) {
	writeUint(buf, uint64(len(proof.Siblings)))
	for _, s := range proof.Siblings {
		buf.Write(s)
	}
}

func readProof(r *bytes.Reader, index int) (core.MerkleProof, error) {
	n, err := readUint(r)
	if err != nil {
		return core.MerkleProof{}, err
	}
	siblings := make([][]byte, n)
	for i := range siblings {
		s := make([]byte, 32)
		if _, err := io.ReadFull(r, s); err != nil {
			return core.MerkleProof{}, fmt.Errorf("verifier: truncated proof: %w", err)
		}
		siblings[i] = s
	}
	return core.MerkleProof{Index: index, Siblings: siblings}, nil
}
