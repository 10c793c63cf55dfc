package types

import (
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/ethforge/ethforge/rlp"
)

// EncodeRLP returns the RLP encoding of the header in Yellow Paper field
// order. Optional fork fields are appended only when non-nil; a later
// optional field must not be present without the earlier ones, which holds
// by construction for headers finalized from a PartialHeader.
func (h *Header) EncodeRLP() ([]byte, error) {
	items := []interface{}{
		h.ParentHash,
		h.UncleHash,
		h.Coinbase,
		h.Root,
		h.TxHash,
		h.ReceiptHash,
		h.Bloom,
		bigIntOrZero(h.Difficulty),
		bigIntOrZero(h.Number),
		h.GasLimit,
		h.GasUsed,
		h.Time,
		h.Extra,
		h.MixDigest,
		h.Nonce,
	}
	if h.BaseFee != nil {
		items = append(items, h.BaseFee)
	}
	if h.WithdrawalsHash != nil {
		items = append(items, *h.WithdrawalsHash)
	}
	if h.BlobGasUsed != nil {
		items = append(items, *h.BlobGasUsed)
	}
	if h.ExcessBlobGas != nil {
		items = append(items, *h.ExcessBlobGas)
	}
	if h.ParentBeaconRoot != nil {
		items = append(items, *h.ParentBeaconRoot)
	}
	if h.RequestsHash != nil {
		items = append(items, *h.RequestsHash)
	}
	return encodeItemList(items)
}

// DecodeHeaderRLP decodes an RLP-encoded header, accepting any prefix of the
// optional fork fields.
func DecodeHeaderRLP(data []byte) (*Header, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}

	h := &Header{}
	if err := decodeHash(s, &h.ParentHash); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.UncleHash); err != nil {
		return nil, err
	}
	if err := decodeAddress(s, &h.Coinbase); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.Root); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.TxHash); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.ReceiptHash); err != nil {
		return nil, err
	}
	if err := decodeBloom(s, &h.Bloom); err != nil {
		return nil, err
	}

	var err error
	if h.Difficulty, err = s.BigInt(); err != nil {
		return nil, err
	}
	if h.Number, err = s.BigInt(); err != nil {
		return nil, err
	}
	if h.GasLimit, err = s.Uint64(); err != nil {
		return nil, err
	}
	if h.GasUsed, err = s.Uint64(); err != nil {
		return nil, err
	}
	if h.Time, err = s.Uint64(); err != nil {
		return nil, err
	}
	if h.Extra, err = s.Bytes(); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.MixDigest); err != nil {
		return nil, err
	}
	nonceBytes, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	copy(h.Nonce[NonceLength-len(nonceBytes):], nonceBytes)

	// Optional fork fields, in activation order.
	if !s.AtListEnd() {
		if h.BaseFee, err = s.BigInt(); err != nil {
			return nil, err
		}
	}
	if !s.AtListEnd() {
		var wh Hash
		if err := decodeHash(s, &wh); err != nil {
			return nil, err
		}
		h.WithdrawalsHash = &wh
	}
	if !s.AtListEnd() {
		bgu, err := s.Uint64()
		if err != nil {
			return nil, err
		}
		h.BlobGasUsed = &bgu
	}
	if !s.AtListEnd() {
		ebg, err := s.Uint64()
		if err != nil {
			return nil, err
		}
		h.ExcessBlobGas = &ebg
	}
	if !s.AtListEnd() {
		var pbr Hash
		if err := decodeHash(s, &pbr); err != nil {
			return nil, err
		}
		h.ParentBeaconRoot = &pbr
	}
	if !s.AtListEnd() {
		var rh Hash
		if err := decodeHash(s, &rh); err != nil {
			return nil, err
		}
		h.RequestsHash = &rh
	}

	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return h, nil
}

// encodeItemList encodes items individually and wraps the concatenation in an
// RLP list header.
func encodeItemList(items []interface{}) ([]byte, error) {
	var payload []byte
	for _, item := range items {
		enc, err := rlp.EncodeToBytes(item)
		if err != nil {
			return nil, err
		}
		payload = append(payload, enc...)
	}
	return rlp.WrapList(payload), nil
}

func bigIntOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func decodeHash(s *rlp.Stream, out *Hash) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	out.SetBytes(b)
	return nil
}

func decodeAddress(s *rlp.Stream, out *Address) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	out.SetBytes(b)
	return nil
}

func decodeBloom(s *rlp.Stream, out *Bloom) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(b) > BloomLength {
		b = b[len(b)-BloomLength:]
	}
	copy(out[BloomLength-len(b):], b)
	return nil
}

// keccak256Hash computes keccak256 inline. The types package cannot import
// the crypto package without a cycle.
func keccak256Hash(data []byte) Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	var h Hash
	copy(h[:], d.Sum(nil))
	return h
}

// computeHeaderHash derives the block hash identifying a header.
func computeHeaderHash(h *Header) Hash {
	enc, err := h.EncodeRLP()
	if err != nil {
		return Hash{}
	}
	return keccak256Hash(enc)
}
