// Package geth provides an adapter layer between ethforge's type system and
// go-ethereum. This is the only package that imports go-ethereum directly;
// all other ethforge packages use ethforge/core/types. Its conversions back
// the differential tests that check ethforge's roots, hashes and encodings
// against go-ethereum's.
package geth

import (
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/ethforge/ethforge/core/types"
)

// ToGethAddress converts an ethforge Address to a go-ethereum Address.
func ToGethAddress(a types.Address) gethcommon.Address {
	return gethcommon.Address(a)
}

// FromGethAddress converts a go-ethereum Address to an ethforge Address.
func FromGethAddress(a gethcommon.Address) types.Address {
	return types.Address(a)
}

// ToGethHash converts an ethforge Hash to a go-ethereum Hash.
func ToGethHash(h types.Hash) gethcommon.Hash {
	return gethcommon.Hash(h)
}

// FromGethHash converts a go-ethereum Hash to an ethforge Hash.
func FromGethHash(h gethcommon.Hash) types.Hash {
	return types.Hash(h)
}

// ToUint256 converts *big.Int to *uint256.Int for go-ethereum APIs that
// require fixed-width values (blob fee caps, balances).
func ToUint256(b *big.Int) *uint256.Int {
	if b == nil {
		return new(uint256.Int)
	}
	u, _ := uint256.FromBig(b)
	return u
}

// FromUint256 converts *uint256.Int to *big.Int.
func FromUint256(u *uint256.Int) *big.Int {
	if u == nil {
		return new(big.Int)
	}
	return u.ToBig()
}

// ToGethAccessList converts an ethforge AccessList to go-ethereum's.
func ToGethAccessList(al types.AccessList) gethtypes.AccessList {
	if al == nil {
		return nil
	}
	result := make(gethtypes.AccessList, len(al))
	for i, tuple := range al {
		keys := make([]gethcommon.Hash, len(tuple.StorageKeys))
		for j, k := range tuple.StorageKeys {
			keys[j] = ToGethHash(k)
		}
		result[i] = gethtypes.AccessTuple{
			Address:     ToGethAddress(tuple.Address),
			StorageKeys: keys,
		}
	}
	return result
}

// FromGethLog converts a go-ethereum Log to an ethforge Log.
func FromGethLog(l *gethtypes.Log) *types.Log {
	if l == nil {
		return nil
	}
	topics := make([]types.Hash, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = FromGethHash(t)
	}
	return &types.Log{
		Address:     FromGethAddress(l.Address),
		Topics:      topics,
		Data:        l.Data,
		BlockNumber: l.BlockNumber,
		TxHash:      FromGethHash(l.TxHash),
		TxIndex:     uint64(l.TxIndex),
		BlockHash:   FromGethHash(l.BlockHash),
		Index:       uint64(l.Index),
		Removed:     l.Removed,
	}
}

// ToGethLog converts an ethforge Log to a go-ethereum Log.
func ToGethLog(l *types.Log) *gethtypes.Log {
	if l == nil {
		return nil
	}
	topics := make([]gethcommon.Hash, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = ToGethHash(t)
	}
	return &gethtypes.Log{
		Address:     ToGethAddress(l.Address),
		Topics:      topics,
		Data:        l.Data,
		BlockNumber: l.BlockNumber,
		TxHash:      ToGethHash(l.TxHash),
		TxIndex:     uint(l.TxIndex),
		BlockHash:   ToGethHash(l.BlockHash),
		Index:       uint(l.Index),
		Removed:     l.Removed,
	}
}

// ToGethHeader converts an ethforge Header to a go-ethereum Header. Both
// sides must hash identically; the differential tests depend on it.
func ToGethHeader(h *types.Header) *gethtypes.Header {
	if h == nil {
		return nil
	}
	gh := &gethtypes.Header{
		ParentHash:  ToGethHash(h.ParentHash),
		UncleHash:   ToGethHash(h.UncleHash),
		Coinbase:    ToGethAddress(h.Coinbase),
		Root:        ToGethHash(h.Root),
		TxHash:      ToGethHash(h.TxHash),
		ReceiptHash: ToGethHash(h.ReceiptHash),
		Bloom:       gethtypes.Bloom(h.Bloom),
		Difficulty:  copyBig(h.Difficulty),
		Number:      copyBig(h.Number),
		GasLimit:    h.GasLimit,
		GasUsed:     h.GasUsed,
		Time:        h.Time,
		Extra:       h.Extra,
		MixDigest:   ToGethHash(h.MixDigest),
		Nonce:       gethtypes.BlockNonce(h.Nonce),
		BaseFee:     copyBig(h.BaseFee),
	}
	if h.WithdrawalsHash != nil {
		wh := ToGethHash(*h.WithdrawalsHash)
		gh.WithdrawalsHash = &wh
	}
	if h.BlobGasUsed != nil {
		v := *h.BlobGasUsed
		gh.BlobGasUsed = &v
	}
	if h.ExcessBlobGas != nil {
		v := *h.ExcessBlobGas
		gh.ExcessBlobGas = &v
	}
	if h.ParentBeaconRoot != nil {
		r := ToGethHash(*h.ParentBeaconRoot)
		gh.ParentBeaconRoot = &r
	}
	if h.RequestsHash != nil {
		r := ToGethHash(*h.RequestsHash)
		gh.RequestsHash = &r
	}
	return gh
}

// ToGethWithdrawal converts an ethforge Withdrawal.
func ToGethWithdrawal(w *types.Withdrawal) *gethtypes.Withdrawal {
	if w == nil {
		return nil
	}
	return &gethtypes.Withdrawal{
		Index:     w.Index,
		Validator: w.ValidatorIndex,
		Address:   ToGethAddress(w.Address),
		Amount:    w.Amount,
	}
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
