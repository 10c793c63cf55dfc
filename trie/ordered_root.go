package trie

import (
	"github.com/ethforge/ethforge/core/types"
	"github.com/ethforge/ethforge/rlp"
)

// OrderedRoot computes the trie root committing to an ordered sequence of
// encoded items, keyed by the RLP encoding of each item's position. This is
// the commitment used for the transactions and withdrawals fields of a block
// header. The empty sequence yields the empty-trie root.
//
// StackTrie requires keys in ascending byte order, and rlp(index) does not
// sort that way for index 0 (0x80) versus 1..0x7f (the byte itself). Items
// are therefore inserted as 1..0x7f first, then 0, then 0x80 onward, which
// is ascending on the encoded keys.
func OrderedRoot(items [][]byte) types.Hash {
	st := NewStackTrie()
	var keyBuf []byte
	for i := 1; i < len(items) && i <= 0x7f; i++ {
		keyBuf = rlp.AppendUint(keyBuf[:0], uint64(i))
		_ = st.Update(keyBuf, items[i])
	}
	if len(items) > 0 {
		keyBuf = rlp.AppendUint(keyBuf[:0], 0)
		_ = st.Update(keyBuf, items[0])
	}
	for i := 0x80; i < len(items); i++ {
		keyBuf = rlp.AppendUint(keyBuf[:0], uint64(i))
		_ = st.Update(keyBuf, items[i])
	}
	return st.Hash()
}
