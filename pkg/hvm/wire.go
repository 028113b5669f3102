package hvm

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
)

// Wire layouts follow spec §6 exactly: every multi-byte scalar is
// little-endian, every usize is serialized as a u64, and every field
// element is its 16-byte little-endian canonical encoding.

// InputBlob is the client-to-server transport: the ServerKey, the tape of
// secret (ciphertext) inputs, and the raw bytes of the public tape.
type InputBlob struct {
	Key          *ServerKey
	SecretInputs []Ciphertext
	PublicInput  []byte
}

// EncodeInputBlob serializes b per spec §6's input-blob layout.
func EncodeInputBlob(b *InputBlob) ([]byte, error) {
	var buf bytes.Buffer

	writeU32(&buf, b.Key.Params.P)
	writeU32(&buf, b.Key.Params.Q)
	writeU32(&buf, b.Key.Params.Delta)
	writeU64(&buf, b.Key.Params.K)
	writeF64(&buf, b.Key.Params.Sigma)

	keyBits := b.Key.Key()
	writeU64(&buf, uint64(len(keyBits)))
	for _, e := range keyBits {
		writeElement(&buf, e)
	}

	writeU64(&buf, uint64(len(b.SecretInputs)))
	for _, ct := range b.SecretInputs {
		writeU64(&buf, uint64(ct.Len()))
		for _, e := range ct.Elements {
			writeElement(&buf, e)
		}
	}

	writeU64(&buf, uint64(len(b.PublicInput)))
	buf.Write(b.PublicInput)

	return buf.Bytes(), nil
}

// DecodeInputBlob parses data per spec §6's input-blob layout.
func DecodeInputBlob(data []byte) (*InputBlob, error) {
	r := bytes.NewReader(data)

	p, err := readU32(r)
	if err != nil {
		return nil, err
	}
	q, err := readU32(r)
	if err != nil {
		return nil, err
	}
	// Delta is carried on the wire but recomputed from p and q by
	// NewParameters below.
	if _, err := readU32(r); err != nil {
		return nil, err
	}
	k, err := readU64(r)
	if err != nil {
		return nil, err
	}
	sigma, err := readF64(r)
	if err != nil {
		return nil, err
	}
	params, err := lwe.NewParameters(p, q, k, sigma)
	if err != nil {
		return nil, err
	}

	keyLen, err := readU64(r)
	if err != nil {
		return nil, err
	}
	keyBits := make([]core.Element, keyLen)
	for i := range keyBits {
		keyBits[i], err = readElement(r)
		if err != nil {
			return nil, err
		}
	}
	key := lwe.RestoreServerKey(params, keyBits)

	secretCount, err := readU64(r)
	if err != nil {
		return nil, err
	}
	secrets := make([]Ciphertext, secretCount)
	for i := range secrets {
		ctLen, err := readU64(r)
		if err != nil {
			return nil, err
		}
		elements := make([]core.Element, ctLen)
		for j := range elements {
			elements[j], err = readElement(r)
			if err != nil {
				return nil, err
			}
		}
		secrets[i] = lwe.NewCiphertext(elements)
	}

	publicLen, err := readU64(r)
	if err != nil {
		return nil, err
	}
	public := make([]byte, publicLen)
	if _, err := io.ReadFull(r, public); err != nil {
		return nil, err
	}

	return &InputBlob{Key: key, SecretInputs: secrets, PublicInput: public}, nil
}

// OutputBlob is the server-to-client transport: the program digest, the
// opaque proof, and the output tape (as field elements, to be decrypted
// client-side).
type OutputBlob struct {
	Digest [2]FieldElement
	Proof  []byte
	Output []FieldElement
}

// EncodeOutputBlob serializes b per spec §6's output-blob layout.
func EncodeOutputBlob(b *OutputBlob) []byte {
	var buf bytes.Buffer
	writeElement(&buf, b.Digest[0])
	writeElement(&buf, b.Digest[1])
	buf.Write(b.Proof)
	writeU64(&buf, uint64(len(b.Output)))
	for _, e := range b.Output {
		writeElement(&buf, e)
	}
	return buf.Bytes()
}

// DecodeOutputBlob parses data per spec §6's output-blob layout. proofLen
// must be supplied by the transport (the blob itself carries no explicit
// proof length, matching the opaque-bytes convention of spec §6).
func DecodeOutputBlob(data []byte, proofLen int) (*OutputBlob, error) {
	r := bytes.NewReader(data)

	lane0, err := readElement(r)
	if err != nil {
		return nil, err
	}
	lane1, err := readElement(r)
	if err != nil {
		return nil, err
	}

	proof := make([]byte, proofLen)
	if _, err := io.ReadFull(r, proof); err != nil {
		return nil, err
	}

	outLen, err := readU64(r)
	if err != nil {
		return nil, err
	}
	output := make([]FieldElement, outLen)
	for i := range output {
		output[i], err = readElement(r)
		if err != nil {
			return nil, err
		}
	}

	return &OutputBlob{Digest: [2]FieldElement{lane0, lane1}, Proof: proof, Output: output}, nil
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeU64(buf *bytes.Buffer, v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	buf.Write(tmp[:])
}

func writeF64(buf *bytes.Buffer, v float64) {
	writeU64(buf, math.Float64bits(v))
}

func writeElement(buf *bytes.Buffer, e core.Element) {
	b := e.BytesLE()
	buf.Write(b[:])
}

func readU32(r io.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, fmt.Errorf("hvm: wire: %w", err)
	}
	return binary.LittleEndian.Uint32(tmp[:]), nil
}

func readU64(r io.Reader) (uint64, error) {
	var tmp [8]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return 0, fmt.Errorf("hvm: wire: %w", err)
	}
	return binary.LittleEndian.Uint64(tmp[:]), nil
}

func readF64(r io.Reader) (float64, error) {
	bits, err := readU64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func readElement(r io.Reader) (core.Element, error) {
	var tmp [16]byte
	if _, err := io.ReadFull(r, tmp[:]); err != nil {
		return core.Element{}, fmt.Errorf("hvm: wire: %w", err)
	}
	return core.ElementFromBytesLE(tmp), nil
}
