package core

import (
	"bytes"
	"testing"

	"github.com/ethforge/ethforge/core/types"
)

func TestBlockRLPRoundTrip(t *testing.T) {
	ommer := samplePartialHeader(2).Finalize(types.EmptyUncleHash, types.EmptyRootHash)
	txs := []*types.Transaction{sampleLegacyTx(0), sampleDynamicFeeTx(1)}
	receipts := []*types.TransactionReceipt{
		sampleReceipt(types.LegacyTxType, 21_000, nil),
		sampleReceipt(types.DynamicFeeTxType, 71_000, nil),
	}
	withdrawals := []*types.Withdrawal{
		{Index: 3, ValidatorIndex: 9, Address: types.BytesToAddress([]byte{0xee}), Amount: 12},
	}

	block := NewLocalBlock(samplePartialHeader(10), txs, make([]types.Address, 2),
		receipts, []*types.Header{ommer}, withdrawals)

	enc, err := block.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	decoded, err := DecodeBlockRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if decoded.Header.Hash() != block.Hash() {
		t.Errorf("header hash: got %s, want %s", decoded.Header.Hash(), block.Hash())
	}
	if len(decoded.Transactions) != len(txs) {
		t.Fatalf("transactions: got %d, want %d", len(decoded.Transactions), len(txs))
	}
	for i, tx := range decoded.Transactions {
		if tx.Hash() != txs[i].Hash() {
			t.Errorf("transaction %d: hash mismatch after round trip", i)
		}
		if tx.Type() != txs[i].Type() {
			t.Errorf("transaction %d: type %d, want %d", i, tx.Type(), txs[i].Type())
		}
	}
	if len(decoded.Ommers) != 1 || decoded.Ommers[0].Hash() != ommer.Hash() {
		t.Error("ommer did not survive the round trip")
	}
	if len(decoded.Withdrawals) != 1 || *decoded.Withdrawals[0] != *withdrawals[0] {
		t.Error("withdrawal did not survive the round trip")
	}
}

func TestBlockRLPWithoutWithdrawals(t *testing.T) {
	block := EmptyLocalBlock(samplePartialHeader(1))

	enc, err := block.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeBlockRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Withdrawals != nil {
		t.Error("withdrawals should be absent from a pre-withdrawals encoding")
	}

	// A block with an empty withdrawals list encodes a fourth element.
	withList := NewLocalBlock(samplePartialHeader(1), nil, nil, nil, nil, []*types.Withdrawal{})
	encWith, err := withList.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if bytes.Equal(enc, encWith) {
		t.Error("empty withdrawals list should change the wire encoding")
	}
	decodedWith, err := DecodeBlockRLP(encWith)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decodedWith.Withdrawals == nil || len(decodedWith.Withdrawals) != 0 {
		t.Error("empty withdrawals list should decode as present and empty")
	}
}

func TestBlockRLPEncodingIsDeterministic(t *testing.T) {
	block := NewLocalBlock(samplePartialHeader(4),
		[]*types.Transaction{sampleLegacyTx(0)},
		[]types.Address{{}},
		[]*types.TransactionReceipt{sampleReceipt(types.LegacyTxType, 21_000, nil)},
		nil, nil)

	first, err := block.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	second, err := block.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("encoding is not deterministic")
	}
}

func TestDecodeBlockRLPRejectsGarbage(t *testing.T) {
	cases := [][]byte{
		nil,
		{0x80},             // string, not a list
		{0xc1, 0x80},       // list whose first element is not a header
		{0xc2, 0xc0, 0xc0}, // missing transaction and ommer lists
	}
	for i, input := range cases {
		if _, err := DecodeBlockRLP(input); err == nil {
			t.Errorf("case %d: expected decode error", i)
		}
	}
}
