package vm

import "github.com/vybium/hvm-stark/internal/hvm/core"

// DecodeBits splits an opcode into its five trace bit-columns, in the
// column order the trace layout uses: b4, b3, b2, b1, b0 (spec §3, §4.5).
func DecodeBits(op Opcode) (b4, b3, b2, b1, b0 core.Element) {
	v0, v1, v2, v3, v4 := op.Bits()
	return core.FromUint64(uint64(v4)), core.FromUint64(uint64(v3)), core.FromUint64(uint64(v2)), core.FromUint64(uint64(v1)), core.FromUint64(uint64(v0))
}
