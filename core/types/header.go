package types

import (
	"math/big"
	"sync/atomic"
)

// Header is a finalized block header. The UncleHash and TxHash fields are
// derived during block assembly and are never set directly by callers; use
// PartialHeader.Finalize to obtain a Header.
type Header struct {
	ParentHash  Hash
	UncleHash   Hash
	Coinbase    Address
	Root        Hash
	TxHash      Hash
	ReceiptHash Hash
	Bloom       Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   Hash
	Nonce       BlockNonce

	// EIP-1559
	BaseFee *big.Int

	// EIP-4895: beacon chain push withdrawals
	WithdrawalsHash *Hash

	// EIP-4844: shard blob transactions
	BlobGasUsed   *uint64
	ExcessBlobGas *uint64

	// EIP-4788: beacon block root in the EVM
	ParentBeaconRoot *Hash

	// EIP-7685: general purpose execution layer requests
	RequestsHash *Hash

	// Cache field, not serialized.
	hash atomic.Pointer[Hash]
}

// Hash returns the keccak256 hash of the RLP-encoded header. The hash is
// computed once and cached.
func (h *Header) Hash() Hash {
	if cached := h.hash.Load(); cached != nil {
		return *cached
	}
	hash := computeHeaderHash(h)
	h.hash.Store(&hash)
	return hash
}

// PartialHeader carries the header fields known before the block body roots
// are computed. It is the input to block assembly: the assembler fills in the
// withdrawals root when the block has withdrawals, then finalizes together
// with the ommers hash and transactions root.
type PartialHeader struct {
	ParentHash Hash
	Coinbase   Address
	Root       Hash // state root after executing the block

	ReceiptHash Hash
	Bloom       Bloom
	Difficulty  *big.Int
	Number      *big.Int
	GasLimit    uint64
	GasUsed     uint64
	Time        uint64
	Extra       []byte
	MixDigest   Hash
	Nonce       BlockNonce

	BaseFee          *big.Int
	WithdrawalsRoot  *Hash
	BlobGasUsed      *uint64
	ExcessBlobGas    *uint64
	ParentBeaconRoot *Hash
	RequestsHash     *Hash
}

// Finalize combines the partial header with the body-derived roots into a
// finalized Header. The receiver is not modified.
func (p *PartialHeader) Finalize(uncleHash, txHash Hash) *Header {
	h := &Header{
		ParentHash:  p.ParentHash,
		UncleHash:   uncleHash,
		Coinbase:    p.Coinbase,
		Root:        p.Root,
		TxHash:      txHash,
		ReceiptHash: p.ReceiptHash,
		Bloom:       p.Bloom,
		GasLimit:    p.GasLimit,
		GasUsed:     p.GasUsed,
		Time:        p.Time,
		Extra:       copyBytes(p.Extra),
		MixDigest:   p.MixDigest,
		Nonce:       p.Nonce,
	}
	if p.Difficulty != nil {
		h.Difficulty = new(big.Int).Set(p.Difficulty)
	}
	if p.Number != nil {
		h.Number = new(big.Int).Set(p.Number)
	}
	if p.BaseFee != nil {
		h.BaseFee = new(big.Int).Set(p.BaseFee)
	}
	if p.WithdrawalsRoot != nil {
		wr := *p.WithdrawalsRoot
		h.WithdrawalsHash = &wr
	}
	if p.BlobGasUsed != nil {
		bgu := *p.BlobGasUsed
		h.BlobGasUsed = &bgu
	}
	if p.ExcessBlobGas != nil {
		ebg := *p.ExcessBlobGas
		h.ExcessBlobGas = &ebg
	}
	if p.ParentBeaconRoot != nil {
		pbr := *p.ParentBeaconRoot
		h.ParentBeaconRoot = &pbr
	}
	if p.RequestsHash != nil {
		rh := *p.RequestsHash
		h.RequestsHash = &rh
	}
	return h
}

// NumberU64 returns the header's block number as uint64, or 0 when unset.
func (h *Header) NumberU64() uint64 {
	if h.Number == nil {
		return 0
	}
	return h.Number.Uint64()
}

// CopyHeader creates a deep copy of a header. The hash cache is not carried
// over.
func CopyHeader(h *Header) *Header {
	cpy := Header{
		ParentHash:  h.ParentHash,
		UncleHash:   h.UncleHash,
		Coinbase:    h.Coinbase,
		Root:        h.Root,
		TxHash:      h.TxHash,
		ReceiptHash: h.ReceiptHash,
		Bloom:       h.Bloom,
		GasLimit:    h.GasLimit,
		GasUsed:     h.GasUsed,
		Time:        h.Time,
		MixDigest:   h.MixDigest,
		Nonce:       h.Nonce,
	}
	if h.Difficulty != nil {
		cpy.Difficulty = new(big.Int).Set(h.Difficulty)
	}
	if h.Number != nil {
		cpy.Number = new(big.Int).Set(h.Number)
	}
	if h.BaseFee != nil {
		cpy.BaseFee = new(big.Int).Set(h.BaseFee)
	}
	cpy.Extra = copyBytes(h.Extra)
	if h.WithdrawalsHash != nil {
		wh := *h.WithdrawalsHash
		cpy.WithdrawalsHash = &wh
	}
	if h.BlobGasUsed != nil {
		bgu := *h.BlobGasUsed
		cpy.BlobGasUsed = &bgu
	}
	if h.ExcessBlobGas != nil {
		ebg := *h.ExcessBlobGas
		cpy.ExcessBlobGas = &ebg
	}
	if h.ParentBeaconRoot != nil {
		pbr := *h.ParentBeaconRoot
		cpy.ParentBeaconRoot = &pbr
	}
	if h.RequestsHash != nil {
		rh := *h.RequestsHash
		cpy.RequestsHash = &rh
	}
	return &cpy
}
