package types

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethforge/ethforge/rlp"
)

var (
	errUnknownTxType = errors.New("types: unknown transaction type")
	errShortTypedTx  = errors.New("types: typed transaction too short")
)

// RLP layout structs. Field order matches the consensus encoding of each
// transaction type.

// [nonce, gasPrice, gasLimit, to, value, data, v, r, s]
type legacyTxRLP struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       []byte // empty for contract creation, 20 bytes otherwise
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

type accessTupleRLP struct {
	Address     Address
	StorageKeys []Hash
}

// [chainID, nonce, gasPrice, gasLimit, to, value, data, accessList, v, r, s]
type accessListTxRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *big.Int
	Gas        uint64
	To         []byte
	Value      *big.Int
	Data       []byte
	AccessList []accessTupleRLP
	V          *big.Int
	R          *big.Int
	S          *big.Int
}

// [chainID, nonce, maxPriorityFeePerGas, maxFeePerGas, gasLimit, to, value,
// data, accessList, v, r, s]
type dynamicFeeTxRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         []byte
	Value      *big.Int
	Data       []byte
	AccessList []accessTupleRLP
	V          *big.Int
	R          *big.Int
	S          *big.Int
}

// [chainID, nonce, maxPriorityFeePerGas, maxFeePerGas, gasLimit, to, value,
// data, accessList, maxFeePerBlobGas, blobVersionedHashes, v, r, s]
type blobTxRLP struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         Address
	Value      *big.Int
	Data       []byte
	AccessList []accessTupleRLP
	BlobFeeCap *big.Int
	BlobHashes []Hash
	V          *big.Int
	R          *big.Int
	S          *big.Int
}

func toAccessTupleRLP(al AccessList) []accessTupleRLP {
	out := make([]accessTupleRLP, len(al))
	for i, tuple := range al {
		out[i] = accessTupleRLP{Address: tuple.Address, StorageKeys: tuple.StorageKeys}
	}
	return out
}

func fromAccessTupleRLP(al []accessTupleRLP) AccessList {
	if len(al) == 0 {
		return nil
	}
	out := make(AccessList, len(al))
	for i, tuple := range al {
		out[i] = AccessTuple{Address: tuple.Address, StorageKeys: tuple.StorageKeys}
	}
	return out
}

func addressPtrBytes(a *Address) []byte {
	if a == nil {
		return nil
	}
	return a.Bytes()
}

func addressPtrFromBytes(b []byte) (*Address, error) {
	if len(b) == 0 {
		return nil, nil
	}
	if len(b) != AddressLength {
		return nil, fmt.Errorf("types: invalid to-address length %d", len(b))
	}
	a := BytesToAddress(b)
	return &a, nil
}

// EncodeRLP returns the canonical encoding of the transaction: the plain RLP
// list for legacy transactions, and the EIP-2718 envelope (type byte followed
// by the type-specific RLP payload) for typed transactions. These bytes are
// what enters the transactions trie and the block wire form.
func (tx *Transaction) EncodeRLP() ([]byte, error) {
	switch inner := tx.inner.(type) {
	case *LegacyTx:
		return rlp.EncodeToBytes(legacyTxRLP{
			Nonce:    inner.Nonce,
			GasPrice: inner.GasPrice,
			Gas:      inner.Gas,
			To:       addressPtrBytes(inner.To),
			Value:    inner.Value,
			Data:     inner.Data,
			V:        inner.V,
			R:        inner.R,
			S:        inner.S,
		})

	case *AccessListTx:
		payload, err := rlp.EncodeToBytes(accessListTxRLP{
			ChainID:    inner.ChainID,
			Nonce:      inner.Nonce,
			GasPrice:   inner.GasPrice,
			Gas:        inner.Gas,
			To:         addressPtrBytes(inner.To),
			Value:      inner.Value,
			Data:       inner.Data,
			AccessList: toAccessTupleRLP(inner.AccessList),
			V:          inner.V,
			R:          inner.R,
			S:          inner.S,
		})
		if err != nil {
			return nil, err
		}
		return prependTypeByte(AccessListTxType, payload), nil

	case *DynamicFeeTx:
		payload, err := rlp.EncodeToBytes(dynamicFeeTxRLP{
			ChainID:    inner.ChainID,
			Nonce:      inner.Nonce,
			GasTipCap:  inner.GasTipCap,
			GasFeeCap:  inner.GasFeeCap,
			Gas:        inner.Gas,
			To:         addressPtrBytes(inner.To),
			Value:      inner.Value,
			Data:       inner.Data,
			AccessList: toAccessTupleRLP(inner.AccessList),
			V:          inner.V,
			R:          inner.R,
			S:          inner.S,
		})
		if err != nil {
			return nil, err
		}
		return prependTypeByte(DynamicFeeTxType, payload), nil

	case *BlobTx:
		payload, err := rlp.EncodeToBytes(blobTxRLP{
			ChainID:    inner.ChainID,
			Nonce:      inner.Nonce,
			GasTipCap:  inner.GasTipCap,
			GasFeeCap:  inner.GasFeeCap,
			Gas:        inner.Gas,
			To:         inner.To,
			Value:      inner.Value,
			Data:       inner.Data,
			AccessList: toAccessTupleRLP(inner.AccessList),
			BlobFeeCap: inner.BlobFeeCap,
			BlobHashes: inner.BlobHashes,
			V:          inner.V,
			R:          inner.R,
			S:          inner.S,
		})
		if err != nil {
			return nil, err
		}
		return prependTypeByte(BlobTxType, payload), nil

	default:
		return nil, errUnknownTxType
	}
}

func prependTypeByte(txType byte, payload []byte) []byte {
	out := make([]byte, 1+len(payload))
	out[0] = txType
	copy(out[1:], payload)
	return out
}

// DecodeTxRLP decodes a canonical transaction encoding: either a plain RLP
// list (legacy) or a type-prefixed envelope.
func DecodeTxRLP(data []byte) (*Transaction, error) {
	if len(data) == 0 {
		return nil, errShortTypedTx
	}

	// Legacy transactions start with an RLP list tag.
	if data[0] >= 0xc0 {
		var raw legacyTxRLP
		if err := rlp.DecodeBytes(data, &raw); err != nil {
			return nil, fmt.Errorf("types: decode legacy tx: %w", err)
		}
		to, err := addressPtrFromBytes(raw.To)
		if err != nil {
			return nil, err
		}
		return &Transaction{inner: &LegacyTx{
			Nonce:    raw.Nonce,
			GasPrice: raw.GasPrice,
			Gas:      raw.Gas,
			To:       to,
			Value:    raw.Value,
			Data:     raw.Data,
			V:        raw.V,
			R:        raw.R,
			S:        raw.S,
		}}, nil
	}

	if len(data) < 2 {
		return nil, errShortTypedTx
	}
	payload := data[1:]

	switch data[0] {
	case AccessListTxType:
		var raw accessListTxRLP
		if err := rlp.DecodeBytes(payload, &raw); err != nil {
			return nil, fmt.Errorf("types: decode access list tx: %w", err)
		}
		to, err := addressPtrFromBytes(raw.To)
		if err != nil {
			return nil, err
		}
		return &Transaction{inner: &AccessListTx{
			ChainID:    raw.ChainID,
			Nonce:      raw.Nonce,
			GasPrice:   raw.GasPrice,
			Gas:        raw.Gas,
			To:         to,
			Value:      raw.Value,
			Data:       raw.Data,
			AccessList: fromAccessTupleRLP(raw.AccessList),
			V:          raw.V,
			R:          raw.R,
			S:          raw.S,
		}}, nil

	case DynamicFeeTxType:
		var raw dynamicFeeTxRLP
		if err := rlp.DecodeBytes(payload, &raw); err != nil {
			return nil, fmt.Errorf("types: decode dynamic fee tx: %w", err)
		}
		to, err := addressPtrFromBytes(raw.To)
		if err != nil {
			return nil, err
		}
		return &Transaction{inner: &DynamicFeeTx{
			ChainID:    raw.ChainID,
			Nonce:      raw.Nonce,
			GasTipCap:  raw.GasTipCap,
			GasFeeCap:  raw.GasFeeCap,
			Gas:        raw.Gas,
			To:         to,
			Value:      raw.Value,
			Data:       raw.Data,
			AccessList: fromAccessTupleRLP(raw.AccessList),
			V:          raw.V,
			R:          raw.R,
			S:          raw.S,
		}}, nil

	case BlobTxType:
		var raw blobTxRLP
		if err := rlp.DecodeBytes(payload, &raw); err != nil {
			return nil, fmt.Errorf("types: decode blob tx: %w", err)
		}
		return &Transaction{inner: &BlobTx{
			ChainID:    raw.ChainID,
			Nonce:      raw.Nonce,
			GasTipCap:  raw.GasTipCap,
			GasFeeCap:  raw.GasFeeCap,
			Gas:        raw.Gas,
			To:         raw.To,
			Value:      raw.Value,
			Data:       raw.Data,
			AccessList: fromAccessTupleRLP(raw.AccessList),
			BlobFeeCap: raw.BlobFeeCap,
			BlobHashes: raw.BlobHashes,
			V:          raw.V,
			R:          raw.R,
			S:          raw.S,
		}}, nil

	default:
		return nil, errUnknownTxType
	}
}

// Hash returns the transaction hash: keccak256 of the canonical encoding.
// The hash is computed once and cached.
func (tx *Transaction) Hash() Hash {
	if cached := tx.hash.Load(); cached != nil {
		return *cached
	}
	enc, err := tx.EncodeRLP()
	if err != nil {
		return Hash{}
	}
	h := keccak256Hash(enc)
	tx.hash.Store(&h)
	return h
}

// Size returns the length in bytes of the canonical encoding, cached after
// the first call.
func (tx *Transaction) Size() uint64 {
	if cached := tx.size.Load(); cached != 0 {
		return cached
	}
	enc, err := tx.EncodeRLP()
	if err != nil {
		return 0
	}
	size := uint64(len(enc))
	tx.size.Store(size)
	return size
}
