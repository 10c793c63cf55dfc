package core

import (
	"math/big"

	"github.com/ethforge/ethforge/core/types"
)

// BlockReceipts enriches execution receipts with their block context. Each
// receipt gains the block hash, the block number and its transaction index;
// each log additionally gains a block-wide log index that increases
// monotonically across all receipts and never resets between transactions.
//
// The input receipts are not modified. Log entries are deep-copied so that
// the enriched receipts are safe to share; Removed is always false since a
// locally assembled block has never been part of a reorged-out chain.
func BlockReceipts(
	blockHash types.Hash,
	blockNumber uint64,
	receipts []*types.TransactionReceipt,
) []*types.BlockReceipt {
	enriched := make([]*types.BlockReceipt, len(receipts))

	logIndex := uint64(0)
	for i, receipt := range receipts {
		logs := make([]*types.Log, len(receipt.Logs))
		for j, log := range receipt.Logs {
			l := types.CopyLog(log)
			l.BlockHash = blockHash
			l.BlockNumber = blockNumber
			l.TxIndex = uint64(i)
			l.Index = logIndex
			l.Removed = false
			l.TxHash = receipt.TxHash
			logs[j] = l
			logIndex++
		}

		inner := *receipt
		inner.Logs = logs
		inner.To = types.CopyAddressPtr(receipt.To)
		inner.ContractAddress = types.CopyAddressPtr(receipt.ContractAddress)
		if receipt.PostState != nil {
			inner.PostState = append([]byte(nil), receipt.PostState...)
		}
		if receipt.EffectiveGasPrice != nil {
			inner.EffectiveGasPrice = new(big.Int).Set(receipt.EffectiveGasPrice)
		}

		enriched[i] = &types.BlockReceipt{
			TransactionReceipt: inner,
			BlockHash:          blockHash,
			BlockNumber:        blockNumber,
			TransactionIndex:   uint64(i),
		}
	}
	return enriched
}
