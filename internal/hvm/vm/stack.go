package vm

import (
	"github.com/vybium/hvm-stark/internal/hvm/core"
	"github.com/vybium/hvm-stark/internal/hvm/lwe"
)

// StackCapacity is the fixed number of on-row stack slots (spec §3).
const StackCapacity = 16

// Stack is the capacity-16 algebraic stack every chiplet row is a snapshot
// of. Slots at index >= depth are always zero (spec §3 invariant).
type Stack struct {
	depth int
	slots [StackCapacity]core.Element
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Depth returns the current stack depth.
func (s *Stack) Depth() int {
	return s.depth
}

// Slots returns a snapshot of all 16 slots, zero past depth.
func (s *Stack) Slots() [StackCapacity]core.Element {
	return s.slots
}

func (s *Stack) shiftRight(n int) error {
	if s.depth+n > StackCapacity {
		return &StackError{Kind: StackOverflow}
	}
	for i := s.depth - 1; i >= 0; i-- {
		s.slots[i+n] = s.slots[i]
	}
	s.depth += n
	return nil
}

func (s *Stack) shiftLeft(n, start int) {
	for i := start; i < s.depth; i++ {
		s.slots[i-n] = s.slots[i]
	}
	for i := s.depth - n; i < s.depth; i++ {
		s.slots[i] = core.Zero
	}
	s.depth -= n
}

// Noop leaves the stack unchanged.
func (s *Stack) Noop() {}

// Push writes v into a freshly opened slot 0 (spec §4.4).
func (s *Stack) Push(v uint8) error {
	if err := s.shiftRight(1); err != nil {
		return err
	}
	s.slots[0] = core.FromUint64(uint64(v))
	return nil
}

// Read pops the next public input byte into slot 0.
func (s *Stack) Read(tapeA *[]uint8) error {
	if len(*tapeA) == 0 {
		return &StackError{Kind: EmptyInput, Op: Read}
	}
	v := (*tapeA)[0]
	*tapeA = (*tapeA)[1:]
	if err := s.shiftRight(1); err != nil {
		return err
	}
	s.slots[0] = core.FromUint64(uint64(v))
	return nil
}

// Read2 pops the next secret ciphertext into slots 0..lweSize-1.
func (s *Stack) Read2(tapeB *[]lwe.Ciphertext, lweSize int) error {
	if len(*tapeB) == 0 {
		return &StackError{Kind: EmptyInput, Op: Read2}
	}
	ct := (*tapeB)[0]
	*tapeB = (*tapeB)[1:]
	if err := s.shiftRight(lweSize); err != nil {
		return err
	}
	copy(s.slots[0:lweSize], ct.Elements)
	return nil
}

// Add requires depth >= 2; s0 <- s0+s1, then closes the gap at slot 1.
func (s *Stack) Add() error {
	if s.depth < 2 {
		return &StackError{Kind: StackUnderflow, Op: Add}
	}
	s.slots[0] = s.slots[0].Add(s.slots[1])
	s.shiftLeft(1, 2)
	return nil
}

// Mul requires depth >= 2; s0 <- s0*s1.
func (s *Stack) Mul() error {
	if s.depth < 2 {
		return &StackError{Kind: StackUnderflow, Op: Mul}
	}
	s.slots[0] = s.slots[0].Mul(s.slots[1])
	s.shiftLeft(1, 2)
	return nil
}

// SAdd requires depth >= lweSize+1; writes scalar_add(s0, s1..s_lweSize)
// into s0..s_{lweSize-1}, then closes the gap above slot lweSize.
func (s *Stack) SAdd(params lwe.Parameters) error {
	lweSize := params.LweSize()
	if s.depth < lweSize+1 {
		return &StackError{Kind: StackUnderflow, Op: SAdd}
	}
	scalar := s.slots[0]
	ct := append([]core.Element{}, s.slots[1:1+lweSize]...)
	result, err := lwe.ScalarAdd[core.Element](core.BaseRing{}, params, scalar, ct)
	if err != nil {
		return err
	}
	copy(s.slots[0:lweSize], result)
	s.shiftLeft(1, lweSize+1)
	return nil
}

// SMul requires depth >= lweSize+1; writes scalar_mul(s0, s1..s_lweSize)
// into s0..s_{lweSize-1}.
func (s *Stack) SMul(params lwe.Parameters) error {
	lweSize := params.LweSize()
	if s.depth < lweSize+1 {
		return &StackError{Kind: StackUnderflow, Op: SMul}
	}
	scalar := s.slots[0]
	ct := append([]core.Element{}, s.slots[1:1+lweSize]...)
	result := lwe.ScalarMul[core.Element](core.BaseRing{}, scalar, ct)
	copy(s.slots[0:lweSize], result)
	s.shiftLeft(1, lweSize+1)
	return nil
}

// Add2 requires depth >= 2*lweSize; writes add(ct0, ct1) into
// s0..s_{lweSize-1}, then closes the gap above slot 2*lweSize.
func (s *Stack) Add2(params lwe.Parameters) error {
	lweSize := params.LweSize()
	if s.depth < 2*lweSize {
		return &StackError{Kind: StackUnderflow, Op: Add2}
	}
	ct0 := append([]core.Element{}, s.slots[0:lweSize]...)
	ct1 := append([]core.Element{}, s.slots[lweSize:2*lweSize]...)
	result, err := lwe.Add[core.Element](core.BaseRing{}, ct0, ct1)
	if err != nil {
		return err
	}
	copy(s.slots[0:lweSize], result)
	s.shiftLeft(lweSize, 2*lweSize)
	return nil
}
