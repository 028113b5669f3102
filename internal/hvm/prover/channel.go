package prover

import (
	"encoding/hex"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/hvm-stark/internal/hvm/core"
)

// Channel is a Fiat-Shamir transcript: the prover Sends committed data into
// it, and both prover and verifier derive the same sequence of verifier
// challenges from ReceiveRandom*, so neither side needs real interaction.
type Channel struct {
	state []byte
	proof []string
}

// NewChannel creates an empty transcript.
func NewChannel() *Channel {
	return &Channel{
		state: []byte{0},
		proof: make([]string, 0, 64),
	}
}

// Send absorbs data into the transcript state and records it in the proof
// log.
func (c *Channel) Send(data []byte) {
	c.proof = append(c.proof, fmt.Sprintf("send:%s", hex.EncodeToString(data)))
	c.state = c.hash(append(c.state, data...))
}

// ReceiveRandomInt draws a pseudorandom integer in [min, max] from the
// current transcript state, then advances the state so the next draw
// differs.
func (c *Channel) ReceiveRandomInt(min, max *big.Int) *big.Int {
	if min.Cmp(max) > 0 {
		return nil
	}

	stateAsInt := new(big.Int).SetBytes(c.state)

	rangeSize := new(big.Int).Sub(max, min)
	rangeSize.Add(rangeSize, big.NewInt(1))

	random := new(big.Int).Mod(stateAsInt, rangeSize)
	random.Add(random, min)

	c.proof = append(c.proof, fmt.Sprintf("receiveRandInt:%s", random.String()))
	c.state = c.hash(c.state)

	return random
}

// ReceiveRandomElement draws a pseudorandom base-field element, for use as
// an AIR constraint-composition coefficient.
func (c *Channel) ReceiveRandomElement() core.Element {
	max := new(big.Int).Sub(core.Modulus, big.NewInt(1))
	random := c.ReceiveRandomInt(big.NewInt(0), max)
	return core.FromBigInt(random)
}

// ReceiveRandomQueryPositions draws count distinct pseudorandom indices in
// [0, domainSize), the row positions FRI queries open. When count exceeds
// domainSize, every index of the domain is drawn once.
func (c *Channel) ReceiveRandomQueryPositions(count, domainSize int) []int {
	if count > domainSize {
		count = domainSize
	}
	seen := make(map[int]bool, count)
	positions := make([]int, 0, count)
	domain := big.NewInt(int64(domainSize))
	for len(positions) < count {
		idx := c.ReceiveRandomInt(big.NewInt(0), new(big.Int).Sub(domain, big.NewInt(1)))
		i := int(idx.Int64())
		if !seen[i] {
			seen[i] = true
			positions = append(positions, i)
		}
	}
	return positions
}

// State returns a copy of the current transcript state.
func (c *Channel) State() []byte {
	return append([]byte(nil), c.state...)
}

// Proof returns a copy of the recorded proof log.
func (c *Channel) Proof() []string {
	return append([]string(nil), c.proof...)
}

func (c *Channel) hash(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}
