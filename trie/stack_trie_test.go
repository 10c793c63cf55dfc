package trie

import (
	"errors"
	"testing"

	"github.com/ethforge/ethforge/core/types"
	"github.com/ethforge/ethforge/crypto"
)

func TestStackTrieEmpty(t *testing.T) {
	st := NewStackTrie()
	if got := st.Hash(); got != types.EmptyRootHash {
		t.Errorf("empty trie root = %s, want %s", got, types.EmptyRootHash)
	}
}

func TestStackTrieSingleLeaf(t *testing.T) {
	// Key 0x80 (nibbles [8,0]), small value. The root node is the leaf
	// [compact(key, leaf), value] with compact encoding 0x20 0x80.
	value := []byte{0xca, 0xfe}
	st := NewStackTrie()
	if err := st.Update([]byte{0x80}, value); err != nil {
		t.Fatal(err)
	}

	var payload []byte
	payload = append(payload, encodeTrieBytes([]byte{0x20, 0x80})...)
	payload = append(payload, encodeTrieBytes(value)...)
	want := crypto.Keccak256Hash(wrapListPayload(payload))

	if got := st.Hash(); got != want {
		t.Errorf("single leaf root = %s, want %s", got, want)
	}
}

func TestStackTrieBranchSplit(t *testing.T) {
	// Keys 0x01 (nibbles [0,1]) and 0x80 (nibbles [8,0]) share no prefix,
	// so the root is a branch with inline leaves at positions 0 and 8.
	valA := []byte{0x0a}
	valB := []byte{0x0b}

	st := NewStackTrie()
	if err := st.Update([]byte{0x01}, valA); err != nil {
		t.Fatal(err)
	}
	if err := st.Update([]byte{0x80}, valB); err != nil {
		t.Fatal(err)
	}

	leafA := encodeShortNode([]byte{0x31}, valA) // remaining nibble 1, leaf flag, odd
	leafB := encodeShortNode([]byte{0x30}, valB) // remaining nibble 0, leaf flag, odd

	var payload []byte
	for i := 0; i < 16; i++ {
		switch i {
		case 0:
			payload = append(payload, leafA...)
		case 8:
			payload = append(payload, leafB...)
		default:
			payload = append(payload, 0x80)
		}
	}
	payload = append(payload, 0x80) // no branch value
	want := crypto.Keccak256Hash(wrapListPayload(payload))

	if got := st.Hash(); got != want {
		t.Errorf("branch root = %s, want %s", got, want)
	}
}

func TestStackTrieOrderEnforcement(t *testing.T) {
	st := NewStackTrie()
	if err := st.Update([]byte{0x02}, []byte{0x01}); err != nil {
		t.Fatal(err)
	}
	if err := st.Update([]byte{0x01}, []byte{0x01}); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("out-of-order insert: err = %v, want ErrOutOfOrder", err)
	}
	if err := st.Update([]byte{0x02}, []byte{0x01}); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("duplicate insert: err = %v, want ErrOutOfOrder", err)
	}
}

func TestStackTrieFinalized(t *testing.T) {
	st := NewStackTrie()
	st.Hash()
	if err := st.Update([]byte{0x01}, []byte{0x01}); !errors.Is(err, ErrFinalized) {
		t.Errorf("update after Hash: err = %v, want ErrFinalized", err)
	}
}

func TestStackTrieReset(t *testing.T) {
	st := NewStackTrie()
	if err := st.Update([]byte{0x01}, []byte{0xff}); err != nil {
		t.Fatal(err)
	}
	first := st.Hash()

	st.Reset()
	if st.Count() != 0 {
		t.Errorf("Count after Reset = %d", st.Count())
	}
	if err := st.Update([]byte{0x01}, []byte{0xff}); err != nil {
		t.Fatal(err)
	}
	if got := st.Hash(); got != first {
		t.Errorf("root after Reset differs: %s != %s", got, first)
	}
}

func TestStackTrieSkipsEmptyValues(t *testing.T) {
	st := NewStackTrie()
	if err := st.Update([]byte{0x01}, nil); err != nil {
		t.Fatal(err)
	}
	if st.Count() != 0 {
		t.Errorf("empty value counted: %d", st.Count())
	}
	if got := st.Hash(); got != types.EmptyRootHash {
		t.Errorf("root = %s, want empty root", got)
	}
}
