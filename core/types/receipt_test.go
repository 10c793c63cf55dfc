package types

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethforge/ethforge/rlp"
)

func testReceipt(status uint64, logs []*Log) *TransactionReceipt {
	return &TransactionReceipt{
		Status:            status,
		CumulativeGasUsed: 21_000,
		Bloom:             LogsBloom(logs),
		Logs:              logs,
		GasUsed:           21_000,
		EffectiveGasPrice: big.NewInt(10),
	}
}

func TestReceiptSucceeded(t *testing.T) {
	if !testReceipt(ReceiptStatusSuccessful, nil).Succeeded() {
		t.Error("status 1 should report success")
	}
	if testReceipt(ReceiptStatusFailed, nil).Succeeded() {
		t.Error("status 0 should report failure")
	}
}

func TestReceiptEncodeRLPLegacy(t *testing.T) {
	r := testReceipt(ReceiptStatusSuccessful, nil)
	enc, err := r.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// An untyped receipt is a bare RLP list.
	if enc[0] < 0xc0 {
		t.Fatalf("legacy receipt must encode as a list, got tag %#x", enc[0])
	}

	s := rlp.NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatalf("outer list: %v", err)
	}
	status, err := s.Uint64()
	if err != nil || status != 1 {
		t.Errorf("status field: %d (%v)", status, err)
	}
	gas, err := s.Uint64()
	if err != nil || gas != 21_000 {
		t.Errorf("cumulative gas field: %d (%v)", gas, err)
	}
}

func TestReceiptEncodeRLPTyped(t *testing.T) {
	r := testReceipt(ReceiptStatusSuccessful, nil)
	r.Type = DynamicFeeTxType
	enc, err := r.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if enc[0] != 0x02 {
		t.Fatalf("typed receipt must carry its envelope tag, got %#x", enc[0])
	}

	r.Type = LegacyTxType
	legacy, err := r.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(enc[1:], legacy) {
		t.Error("typed payload should match the untyped encoding")
	}
}

func TestReceiptEncodeRLPPostState(t *testing.T) {
	r := testReceipt(0, nil)
	r.PostState = EmptyRootHash.Bytes()

	enc, err := r.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	s := rlp.NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatalf("outer list: %v", err)
	}
	root, err := s.Bytes()
	if err != nil {
		t.Fatalf("post state: %v", err)
	}
	if !bytes.Equal(root, EmptyRootHash.Bytes()) {
		t.Errorf("post state = %x", root)
	}
}

func TestReceiptEncodeRLPWithLogs(t *testing.T) {
	logs := []*Log{{
		Address: BytesToAddress([]byte{0x01}),
		Topics:  []Hash{BytesToHash([]byte{0x02})},
		Data:    []byte{0x03},
	}}
	r := testReceipt(ReceiptStatusSuccessful, logs)

	enc, err := r.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	empty, err := testReceipt(ReceiptStatusSuccessful, nil).EncodeRLP()
	if err != nil {
		t.Fatalf("encode empty: %v", err)
	}
	if bytes.Equal(enc, empty) {
		t.Error("logs must contribute to the receipt encoding")
	}
}
