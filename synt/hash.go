package synt

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Hash returns a subtree hash, memoized on the node. For leaves the hash is
// a pure function of (type, source text); for internal nodes it is a pure
// function of (type, ordered child hashes) so two isomorphic subtrees
// always hash equal regardless of their position in the tree.
func (n *Node) Hash(source []byte) []byte {
	if n.hash != nil {
		return n.hash
	}

	h := blake3.New(32, nil)
	h.Write([]byte(n.Type))
	h.Write([]byte{0})

	children := n.EffectiveChildren()
	if len(children) == 0 {
		h.Write(n.Text(source))
	} else {
		var lenBuf [8]byte
		for _, c := range children {
			childHash := c.Hash(source)
			binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(childHash)))
			h.Write(lenBuf[:])
			h.Write(childHash)
		}
	}

	sum := h.Sum(nil)
	n.hash = sum
	return sum
}

// HashKey returns a fixed-size array suitable for use as a map key.
func HashKey(hash []byte) [32]byte {
	var k [32]byte
	copy(k[:], hash)
	return k
}
