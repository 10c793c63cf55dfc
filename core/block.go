// Package core implements assembly of locally mined blocks: root
// computation, header finalization, hash derivation and receipt enrichment.
// Blocks produced here are immutable and safe to share across goroutines.
package core

import (
	"iter"

	"github.com/ethforge/ethforge/core/types"
)

// Block is the read contract of an assembled block. Implementations are
// immutable: every accessor returns the same data for the lifetime of the
// block. TransactionReceipts returns an error only for implementations that
// load receipts from elsewhere; locally assembled blocks always succeed.
type Block interface {
	// Hash returns the block hash, derived from the finalized header.
	Hash() types.Hash

	// Header returns a copy of the block header.
	Header() *types.Header

	// Transactions returns the block's transactions in inclusion order.
	Transactions() []*types.Transaction

	// TransactionCallers returns the sender of each transaction, aligned
	// with Transactions by position.
	TransactionCallers() []types.Address

	// TransactionReceipts returns the block-scoped receipts, aligned with
	// Transactions by position. The returned slice is a fresh clone; the
	// receipts themselves are shared.
	TransactionReceipts() ([]*types.BlockReceipt, error)

	// OmmerHashes returns the hash of each ommer header.
	OmmerHashes() []types.Hash

	// Withdrawals returns the block's withdrawals, or nil for blocks
	// assembled before withdrawals were activated.
	Withdrawals() []*types.Withdrawal

	// RLPSize returns the length in bytes of the block's wire encoding.
	RLPSize() uint64
}

// DetailedTransaction combines a transaction with its sender and block
// receipt. It is a transient view over the block's parallel sequences, not a
// stored entity.
type DetailedTransaction struct {
	Transaction *types.Transaction
	Caller      types.Address
	Receipt     *types.BlockReceipt
}

// detailedTransactions zips three parallel sequences into a lazy, finite,
// restartable iterator. Each invocation of the returned sequence walks the
// underlying data afresh.
func detailedTransactions(
	txs []*types.Transaction,
	callers []types.Address,
	receipts []*types.BlockReceipt,
) iter.Seq[DetailedTransaction] {
	return func(yield func(DetailedTransaction) bool) {
		for i := range txs {
			dt := DetailedTransaction{
				Transaction: txs[i],
				Caller:      callers[i],
				Receipt:     receipts[i],
			}
			if !yield(dt) {
				return
			}
		}
	}
}
