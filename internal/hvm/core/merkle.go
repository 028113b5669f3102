package core

import "golang.org/x/crypto/sha3"

// MerkleTree commits to a column of field elements, letting a verifier
// check a single opened leaf against the root without seeing the rest of
// the column.
type MerkleTree struct {
	leaves [][]byte
	layers [][][]byte
}

// NewMerkleTree builds a tree over leaves' 16-byte canonical encodings.
// len(leaves) must be a power of two.
func NewMerkleTree(leaves []Element) *MerkleTree {
	hashed := make([][]byte, len(leaves))
	for i, e := range leaves {
		b := e.BytesLE()
		h := sha3.Sum256(b[:])
		hashed[i] = h[:]
	}

	layers := [][][]byte{hashed}
	current := hashed
	for len(current) > 1 {
		next := make([][]byte, len(current)/2)
		for i := range next {
			h := sha3.New256()
			h.Write(current[2*i])
			h.Write(current[2*i+1])
			next[i] = h.Sum(nil)
		}
		layers = append(layers, next)
		current = next
	}

	return &MerkleTree{leaves: hashed, layers: layers}
}

// Root returns the tree's commitment.
func (t *MerkleTree) Root() []byte {
	top := t.layers[len(t.layers)-1]
	return append([]byte(nil), top[0]...)
}

// MerkleProof is an authentication path from a leaf to the root.
type MerkleProof struct {
	Index   int
	Siblings [][]byte
}

// Open returns the authentication path for the leaf at index.
func (t *MerkleTree) Open(index int) MerkleProof {
	siblings := make([][]byte, 0, len(t.layers)-1)
	idx := index
	for layer := 0; layer < len(t.layers)-1; layer++ {
		sibling := idx ^ 1
		siblings = append(siblings, t.layers[layer][sibling])
		idx /= 2
	}
	return MerkleProof{Index: index, Siblings: siblings}
}

// VerifyMerkleProof checks that leaf, opened via proof, hashes up to root.
func VerifyMerkleProof(root []byte, leaf Element, proof MerkleProof) bool {
	b := leaf.BytesLE()
	current := sha3.Sum256(b[:])
	node := current[:]

	idx := proof.Index
	for _, sibling := range proof.Siblings {
		h := sha3.New256()
		if idx%2 == 0 {
			h.Write(node)
			h.Write(sibling)
		} else {
			h.Write(sibling)
			h.Write(node)
		}
		node = h.Sum(nil)
		idx /= 2
	}

	if len(node) != len(root) {
		return false
	}
	for i := range node {
		if node[i] != root[i] {
			return false
		}
	}
	return true
}
