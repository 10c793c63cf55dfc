// Package trie computes Merkle Patricia trie roots over ordered sequences of
// encoded items, as required for the transaction and withdrawal commitments
// in block headers. It builds tries from key-value pairs inserted in sorted
// key order, using O(depth) working state rather than a full node database.
package trie

import (
	"errors"

	"github.com/ethforge/ethforge/core/types"
	"github.com/ethforge/ethforge/crypto"
)

var (
	// ErrOutOfOrder is returned when keys are inserted out of sorted order.
	ErrOutOfOrder = errors.New("trie: keys must be inserted in sorted order")

	// ErrFinalized is returned when Update is called after Hash.
	ErrFinalized = errors.New("trie: already finalized")
)

// emptyRoot is the root hash of an empty trie.
var emptyRoot = types.EmptyRootHash

type nodeType byte

const (
	nodeEmpty  nodeType = iota
	nodeLeaf            // key suffix + value
	nodeExt             // shared prefix + single child
	nodeBranch          // 16 children + optional value
)

// stackNode is a node in the working tree. Nodes transition from empty to
// leaf, and split into branches (optionally under an extension) as keys with
// diverging suffixes arrive.
type stackNode struct {
	typ      nodeType
	key      []byte // nibbles: leaf suffix or extension prefix
	val      []byte
	children [16]*stackNode
}

// StackTrie builds a Merkle Patricia Trie from key-value pairs inserted in
// strictly ascending key order.
type StackTrie struct {
	root      *stackNode
	lastKey   []byte
	finalized bool
	kvCount   int
}

// NewStackTrie creates an empty StackTrie.
func NewStackTrie() *StackTrie {
	return &StackTrie{root: &stackNode{typ: nodeEmpty}}
}

// Update inserts a key-value pair. Keys must arrive in strictly ascending
// order on the raw bytes; empty values are skipped.
func (st *StackTrie) Update(key, value []byte) error {
	if st.finalized {
		return ErrFinalized
	}
	if len(value) == 0 {
		return nil
	}
	if st.lastKey != nil && !compareBytesLess(st.lastKey, key) {
		return ErrOutOfOrder
	}
	st.lastKey = append([]byte(nil), key...)

	// Work on nibbles without the terminator; leaf-ness is tracked by the
	// node type and restored during encoding.
	nibbles := keybytesToHex(key)
	nibbles = nibbles[:len(nibbles)-1]
	st.kvCount++
	st.insert(st.root, nibbles, value)
	return nil
}

func (st *StackTrie) insert(n *stackNode, key, value []byte) {
	switch n.typ {
	case nodeEmpty:
		n.typ = nodeLeaf
		n.key = append([]byte(nil), key...)
		n.val = append([]byte(nil), value...)

	case nodeLeaf:
		match := prefixLen(n.key, key)
		if match == len(n.key) && match == len(key) {
			n.val = append([]byte(nil), value...)
			return
		}

		existingKey, existingVal := n.key, n.val
		branch := &stackNode{typ: nodeBranch}

		if match == len(existingKey) {
			// Existing key terminates at the branch point; its value
			// occupies the branch value slot.
			branch.val = existingVal
		} else {
			branch.children[existingKey[match]] = &stackNode{
				typ: nodeLeaf,
				key: append([]byte(nil), existingKey[match+1:]...),
				val: existingVal,
			}
		}

		if match == len(key) {
			branch.val = append([]byte(nil), value...)
		} else {
			branch.children[key[match]] = &stackNode{
				typ: nodeLeaf,
				key: append([]byte(nil), key[match+1:]...),
				val: append([]byte(nil), value...),
			}
		}

		if match > 0 {
			n.typ = nodeExt
			n.key = append([]byte(nil), existingKey[:match]...)
			n.val = nil
			n.children = [16]*stackNode{}
			n.children[0] = branch
		} else {
			*n = *branch
		}

	case nodeExt:
		match := prefixLen(n.key, key)
		if match == len(n.key) {
			st.insert(n.children[0], key[match:], value)
			return
		}

		oldExt, child := n.key, n.children[0]
		branch := &stackNode{typ: nodeBranch}

		if len(oldExt)-match-1 > 0 {
			branch.children[oldExt[match]] = &stackNode{
				typ:      nodeExt,
				key:      append([]byte(nil), oldExt[match+1:]...),
				children: [16]*stackNode{child},
			}
		} else {
			branch.children[oldExt[match]] = child
		}

		if match == len(key) {
			branch.val = append([]byte(nil), value...)
		} else {
			branch.children[key[match]] = &stackNode{
				typ: nodeLeaf,
				key: append([]byte(nil), key[match+1:]...),
				val: append([]byte(nil), value...),
			}
		}

		if match > 0 {
			n.key = append([]byte(nil), oldExt[:match]...)
			n.children = [16]*stackNode{}
			n.children[0] = branch
		} else {
			*n = *branch
		}

	case nodeBranch:
		if len(key) == 0 {
			n.val = append([]byte(nil), value...)
			return
		}
		idx := key[0]
		if n.children[idx] == nil {
			n.children[idx] = &stackNode{typ: nodeEmpty}
		}
		st.insert(n.children[idx], key[1:], value)
	}
}

// Hash finalizes the trie and returns its root hash. No updates are accepted
// afterwards.
func (st *StackTrie) Hash() types.Hash {
	st.finalized = true
	if st.kvCount == 0 {
		return emptyRoot
	}
	return crypto.Keccak256Hash(st.encodeNode(st.root))
}

// Count returns the number of key-value pairs inserted.
func (st *StackTrie) Count() int { return st.kvCount }

// Reset clears the trie for reuse.
func (st *StackTrie) Reset() {
	st.root = &stackNode{typ: nodeEmpty}
	st.lastKey = nil
	st.finalized = false
	st.kvCount = 0
}

// encodeNode RLP-encodes a node. Sub-nodes whose encoding reaches 32 bytes
// are referenced by hash; shorter ones are inlined.
func (st *StackTrie) encodeNode(n *stackNode) []byte {
	switch n.typ {
	case nodeLeaf:
		leafKey := make([]byte, len(n.key)+1)
		copy(leafKey, n.key)
		leafKey[len(leafKey)-1] = terminatorByte
		return encodeShortNode(hexToCompact(leafKey), n.val)

	case nodeExt:
		childEnc := st.encodeNode(n.children[0])
		payload := encodeTrieBytes(hexToCompact(n.key))
		payload = append(payload, refOrInline(childEnc)...)
		return wrapListPayload(payload)

	case nodeBranch:
		var payload []byte
		for i := 0; i < 16; i++ {
			if n.children[i] == nil {
				payload = append(payload, 0x80)
				continue
			}
			payload = append(payload, refOrInline(st.encodeNode(n.children[i]))...)
		}
		if n.val != nil {
			payload = append(payload, encodeTrieBytes(n.val)...)
		} else {
			payload = append(payload, 0x80)
		}
		return wrapListPayload(payload)

	default:
		return []byte{0x80}
	}
}

// refOrInline returns the hash reference for node encodings of 32 bytes or
// more, and the raw encoding otherwise.
func refOrInline(enc []byte) []byte {
	if len(enc) >= 32 {
		return encodeTrieBytes(crypto.Keccak256(enc))
	}
	return enc
}

// encodeShortNode encodes the 2-element list [key, val].
func encodeShortNode(key, val []byte) []byte {
	payload := encodeTrieBytes(key)
	payload = append(payload, encodeTrieBytes(val)...)
	return wrapListPayload(payload)
}

// encodeTrieBytes encodes a byte string in RLP string form.
func encodeTrieBytes(b []byte) []byte {
	if len(b) == 0 {
		return []byte{0x80}
	}
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	if len(b) <= 55 {
		out := make([]byte, 1+len(b))
		out[0] = 0x80 + byte(len(b))
		copy(out[1:], b)
		return out
	}
	lenBytes := putUintBigEndian(uint64(len(b)))
	out := make([]byte, 1+len(lenBytes)+len(b))
	out[0] = 0xb7 + byte(len(lenBytes))
	copy(out[1:], lenBytes)
	copy(out[1+len(lenBytes):], b)
	return out
}

// wrapListPayload wraps payload bytes in an RLP list header.
func wrapListPayload(payload []byte) []byte {
	n := len(payload)
	if n <= 55 {
		out := make([]byte, 1+n)
		out[0] = 0xc0 + byte(n)
		copy(out[1:], payload)
		return out
	}
	lenBytes := putUintBigEndian(uint64(n))
	out := make([]byte, 1+len(lenBytes)+n)
	out[0] = 0xf7 + byte(len(lenBytes))
	copy(out[1:], lenBytes)
	copy(out[1+len(lenBytes):], payload)
	return out
}

func putUintBigEndian(u uint64) []byte {
	b := make([]byte, 0, 8)
	for shift := 56; shift >= 0; shift -= 8 {
		byt := byte(u >> shift)
		if byt == 0 && len(b) == 0 {
			continue
		}
		b = append(b, byt)
	}
	return b
}
