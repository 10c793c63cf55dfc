package rlp

import (
	"bytes"
	"errors"
	"math/big"
	"testing"
)

func TestStreamBytes(t *testing.T) {
	s := NewStreamFromBytes([]byte{0x83, 'd', 'o', 'g'})
	got, err := s.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte("dog")) {
		t.Errorf("Bytes = %q, want dog", got)
	}
}

func TestStreamList(t *testing.T) {
	// ["cat", "dog"]
	enc := []byte{0xc8, 0x83, 'c', 'a', 't', 0x83, 'd', 'o', 'g'}
	s := NewStreamFromBytes(enc)

	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	var items [][]byte
	for !s.AtListEnd() {
		b, err := s.Bytes()
		if err != nil {
			t.Fatal(err)
		}
		items = append(items, b)
	}
	if err := s.ListEnd(); err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || string(items[0]) != "cat" || string(items[1]) != "dog" {
		t.Errorf("items = %q", items)
	}
}

func TestStreamRawItem(t *testing.T) {
	inner := []byte{0xc2, 0x01, 0x02}
	enc := append([]byte{0xc3}, inner...)
	s := NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	raw, err := s.RawItem()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, inner) {
		t.Errorf("RawItem = %x, want %x", raw, inner)
	}
	if err := s.ListEnd(); err != nil {
		t.Fatal(err)
	}
}

func TestStreamUint64(t *testing.T) {
	s := NewStreamFromBytes([]byte{0x82, 0x04, 0x00})
	u, err := s.Uint64()
	if err != nil {
		t.Fatal(err)
	}
	if u != 1024 {
		t.Errorf("Uint64 = %d, want 1024", u)
	}

	// Leading zero byte is non-canonical.
	s = NewStreamFromBytes([]byte{0x82, 0x00, 0x01})
	if _, err := s.Uint64(); !errors.Is(err, ErrCanonInt) {
		t.Errorf("leading zero: err = %v, want ErrCanonInt", err)
	}
}

func TestStreamErrors(t *testing.T) {
	// String where list expected.
	s := NewStreamFromBytes([]byte{0x83, 'c', 'a', 't'})
	if _, err := s.List(); !errors.Is(err, ErrExpectedList) {
		t.Errorf("List on string: %v", err)
	}

	// List where string expected.
	s = NewStreamFromBytes([]byte{0xc0})
	if _, err := s.Bytes(); !errors.Is(err, ErrExpectedString) {
		t.Errorf("Bytes on list: %v", err)
	}

	// Truncated payload.
	s = NewStreamFromBytes([]byte{0x83, 'c'})
	if _, err := s.Bytes(); !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated: %v", err)
	}

	// Single byte below 0x80 must not use string form.
	s = NewStreamFromBytes([]byte{0x81, 0x05})
	if _, err := s.Bytes(); !errors.Is(err, ErrCanonSize) {
		t.Errorf("non-canonical single byte: %v", err)
	}
}

func TestDecodeBytesRoundTrip(t *testing.T) {
	type record struct {
		N uint64
		B *big.Int
		D []byte
	}
	in := record{N: 42, B: big.NewInt(1 << 40), D: []byte{0xde, 0xad}}
	enc, err := EncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	var out record
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if out.N != in.N || out.B.Cmp(in.B) != 0 || !bytes.Equal(out.D, in.D) {
		t.Errorf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestDecodeNestedSlices(t *testing.T) {
	in := [][]byte{[]byte("a"), []byte("bc"), nil}
	enc, err := EncodeToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	var out [][]byte
	if err := DecodeBytes(enc, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 3 || string(out[0]) != "a" || string(out[1]) != "bc" || len(out[2]) != 0 {
		t.Errorf("decoded = %q", out)
	}
}
