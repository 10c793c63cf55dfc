package geth

import (
	"fmt"

	gethcommon "github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/ethforge/ethforge/core/types"
)

// ToGethTransaction converts an ethforge transaction to a go-ethereum one.
// The conversion preserves the canonical encoding: both sides must produce
// identical RLP bytes and therefore identical hashes.
func ToGethTransaction(tx *types.Transaction) (*gethtypes.Transaction, error) {
	v, r, s := tx.RawSignatureValues()

	switch tx.Type() {
	case types.LegacyTxType:
		return gethtypes.NewTx(&gethtypes.LegacyTx{
			Nonce:    tx.Nonce(),
			GasPrice: tx.GasPrice(),
			Gas:      tx.Gas(),
			To:       toGethAddressPtr(tx.To()),
			Value:    tx.Value(),
			Data:     tx.Data(),
			V:        v,
			R:        r,
			S:        s,
		}), nil

	case types.AccessListTxType:
		return gethtypes.NewTx(&gethtypes.AccessListTx{
			ChainID:    tx.ChainID(),
			Nonce:      tx.Nonce(),
			GasPrice:   tx.GasPrice(),
			Gas:        tx.Gas(),
			To:         toGethAddressPtr(tx.To()),
			Value:      tx.Value(),
			Data:       tx.Data(),
			AccessList: ToGethAccessList(tx.AccessList()),
			V:          v,
			R:          r,
			S:          s,
		}), nil

	case types.DynamicFeeTxType:
		return gethtypes.NewTx(&gethtypes.DynamicFeeTx{
			ChainID:    tx.ChainID(),
			Nonce:      tx.Nonce(),
			GasTipCap:  tx.GasTipCap(),
			GasFeeCap:  tx.GasFeeCap(),
			Gas:        tx.Gas(),
			To:         toGethAddressPtr(tx.To()),
			Value:      tx.Value(),
			Data:       tx.Data(),
			AccessList: ToGethAccessList(tx.AccessList()),
			V:          v,
			R:          r,
			S:          s,
		}), nil

	case types.BlobTxType:
		to := tx.To()
		if to == nil {
			return nil, fmt.Errorf("blob transaction without recipient")
		}
		hashes := make([]gethcommon.Hash, len(tx.BlobHashes()))
		for i, h := range tx.BlobHashes() {
			hashes[i] = ToGethHash(h)
		}
		return gethtypes.NewTx(&gethtypes.BlobTx{
			ChainID:    ToUint256(tx.ChainID()),
			Nonce:      tx.Nonce(),
			GasTipCap:  ToUint256(tx.GasTipCap()),
			GasFeeCap:  ToUint256(tx.GasFeeCap()),
			Gas:        tx.Gas(),
			To:         ToGethAddress(*to),
			Value:      ToUint256(tx.Value()),
			Data:       tx.Data(),
			AccessList: ToGethAccessList(tx.AccessList()),
			BlobFeeCap: ToUint256(tx.BlobGasFeeCap()),
			BlobHashes: hashes,
			V:          ToUint256(v),
			R:          ToUint256(r),
			S:          ToUint256(s),
		}), nil

	default:
		return nil, fmt.Errorf("unsupported transaction type %d", tx.Type())
	}
}

func toGethAddressPtr(a *types.Address) *gethcommon.Address {
	if a == nil {
		return nil
	}
	ga := ToGethAddress(*a)
	return &ga
}
