package vm

import "github.com/vybium/hvm-stark/internal/hvm/core"

// ClockColumn returns the clk value for the step-th executed row
// (0, 1, 2, ... — spec §4.7).
func ClockColumn(step int) core.Element {
	return core.FromUint64(uint64(step))
}
