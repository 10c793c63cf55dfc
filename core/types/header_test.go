package types

import (
	"math/big"
	"testing"
)

func testPartialHeader() *PartialHeader {
	return &PartialHeader{
		ParentHash:  HexToHash("0x01"),
		Coinbase:    HexToAddress("0x02"),
		Root:        HexToHash("0x03"),
		ReceiptHash: EmptyRootHash,
		Difficulty:  big.NewInt(0),
		Number:      big.NewInt(10),
		GasLimit:    30_000_000,
		GasUsed:     21_000,
		Time:        1_700_000_000,
		Extra:       []byte{0x01},
		BaseFee:     big.NewInt(7),
	}
}

func TestFinalizeDoesNotShareMemory(t *testing.T) {
	p := testPartialHeader()
	h := p.Finalize(EmptyUncleHash, EmptyRootHash)

	p.Number.SetUint64(99)
	p.Extra[0] = 0xff
	if h.NumberU64() != 10 {
		t.Errorf("header number changed with the partial header: %d", h.NumberU64())
	}
	if h.Extra[0] != 0x01 {
		t.Error("header extra shares memory with the partial header")
	}
}

func TestFinalizeSetsRoots(t *testing.T) {
	uncle := HexToHash("0xaa")
	txRoot := HexToHash("0xbb")
	h := testPartialHeader().Finalize(uncle, txRoot)

	if h.UncleHash != uncle || h.TxHash != txRoot {
		t.Errorf("roots not placed: uncle=%s tx=%s", h.UncleHash, h.TxHash)
	}
}

func TestFinalizeOptionalFields(t *testing.T) {
	p := testPartialHeader()
	wr := HexToHash("0xcc")
	bgu := uint64(131072)
	p.WithdrawalsRoot = &wr
	p.BlobGasUsed = &bgu

	h := p.Finalize(EmptyUncleHash, EmptyRootHash)
	if h.WithdrawalsHash == nil || *h.WithdrawalsHash != wr {
		t.Error("withdrawals root not carried over")
	}
	if h.BlobGasUsed == nil || *h.BlobGasUsed != bgu {
		t.Error("blob gas used not carried over")
	}
	if h.WithdrawalsHash == p.WithdrawalsRoot {
		t.Error("withdrawals root pointer is shared")
	}
	if h.ExcessBlobGas != nil || h.ParentBeaconRoot != nil || h.RequestsHash != nil {
		t.Error("unset optional fields should stay nil")
	}
}

func TestHeaderHashIsStable(t *testing.T) {
	h := testPartialHeader().Finalize(EmptyUncleHash, EmptyRootHash)
	first := h.Hash()
	second := h.Hash()
	if first != second {
		t.Errorf("hash not stable: %s vs %s", first, second)
	}
	if first.IsZero() {
		t.Error("hash should not be zero")
	}
}

func TestHeaderHashCoversOptionalFields(t *testing.T) {
	base := testPartialHeader().Finalize(EmptyUncleHash, EmptyRootHash)

	p := testPartialHeader()
	wr := EmptyRootHash
	p.WithdrawalsRoot = &wr
	withRoot := p.Finalize(EmptyUncleHash, EmptyRootHash)

	if base.Hash() == withRoot.Hash() {
		t.Error("withdrawals root must contribute to the header hash")
	}
}

func TestHeaderRLPRoundTrip(t *testing.T) {
	p := testPartialHeader()
	wr := HexToHash("0xdd")
	bgu, ebg := uint64(1), uint64(2)
	beacon := HexToHash("0xee")
	p.WithdrawalsRoot = &wr
	p.BlobGasUsed = &bgu
	p.ExcessBlobGas = &ebg
	p.ParentBeaconRoot = &beacon
	h := p.Finalize(EmptyUncleHash, EmptyRootHash)

	enc, err := h.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeHeaderRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Hash() != h.Hash() {
		t.Errorf("hash after round trip: got %s, want %s", decoded.Hash(), h.Hash())
	}
	if decoded.WithdrawalsHash == nil || *decoded.WithdrawalsHash != wr {
		t.Error("withdrawals root lost in round trip")
	}
	if decoded.ParentBeaconRoot == nil || *decoded.ParentBeaconRoot != beacon {
		t.Error("parent beacon root lost in round trip")
	}
}

func TestHeaderRLPRoundTripLegacy(t *testing.T) {
	// Pre-London header: no base fee, no optional trailing fields.
	p := testPartialHeader()
	p.BaseFee = nil
	h := p.Finalize(EmptyUncleHash, EmptyRootHash)

	enc, err := h.EncodeRLP()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeHeaderRLP(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.BaseFee != nil {
		t.Error("base fee should stay nil")
	}
	if decoded.Hash() != h.Hash() {
		t.Error("hash mismatch after legacy round trip")
	}
}

func TestCopyHeader(t *testing.T) {
	h := testPartialHeader().Finalize(EmptyUncleHash, EmptyRootHash)
	cpy := CopyHeader(h)

	if cpy.Hash() != h.Hash() {
		t.Error("copy hashes differently")
	}
	cpy.GasUsed = 1
	cpy.Number.SetUint64(77)
	if h.GasUsed == 1 || h.NumberU64() == 77 {
		t.Error("copy shares memory with the original")
	}
}
