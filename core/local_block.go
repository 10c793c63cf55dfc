package core

import (
	"fmt"
	"iter"

	"github.com/ethforge/ethforge/core/types"
	"github.com/ethforge/ethforge/crypto"
	"github.com/ethforge/ethforge/rlp"
	"github.com/ethforge/ethforge/trie"
)

// LocalBlock is a block assembled by the local node from executed
// transactions. All derived data (ommers hash, transactions root,
// withdrawals root, block hash, enriched receipts) is computed once at
// construction; the block is immutable afterwards.
type LocalBlock struct {
	header       *types.Header
	transactions []*types.Transaction
	callers      []types.Address
	receipts     []*types.BlockReceipt
	ommers       []*types.Header
	ommerHashes  []types.Hash
	withdrawals  []*types.Withdrawal
	hash         types.Hash
}

var _ Block = (*LocalBlock)(nil)

// NewLocalBlock assembles a block from a partial header and its executed
// body. transactions, callers and receipts must be aligned by position; the
// caller is responsible for passing sequences of equal length. A nil
// withdrawals slice marks a pre-withdrawals block and leaves the header's
// withdrawals root unset; a non-nil empty slice commits to the empty
// withdrawals trie.
//
// Assembly proceeds in a fixed order: the ommers hash and transactions root
// are derived from the body, the withdrawals root (when present) is placed
// on the partial header, the header is finalized, the block hash is derived
// from the finalized header, then the receipts are enriched with the block
// context. The partial header passed in is not modified.
func NewLocalBlock(
	partial *types.PartialHeader,
	transactions []*types.Transaction,
	callers []types.Address,
	receipts []*types.TransactionReceipt,
	ommers []*types.Header,
	withdrawals []*types.Withdrawal,
) *LocalBlock {
	ommerCopies := make([]*types.Header, len(ommers))
	ommerHashes := make([]types.Hash, len(ommers))
	for i, ommer := range ommers {
		ommerCopies[i] = types.CopyHeader(ommer)
		ommerHashes[i] = ommer.Hash()
	}
	ommersHash := crypto.Keccak256Hash(mustEncodeHeaderList(ommerCopies))

	encodedTxs := make([][]byte, len(transactions))
	for i, tx := range transactions {
		encodedTxs[i] = mustEncode(tx.EncodeRLP)
	}
	txRoot := trie.OrderedRoot(encodedTxs)

	p := *partial
	var withdrawalCopies []*types.Withdrawal
	if withdrawals != nil {
		withdrawalCopies = make([]*types.Withdrawal, len(withdrawals))
		encoded := make([][]byte, len(withdrawals))
		for i, w := range withdrawals {
			withdrawalCopies[i] = types.CopyWithdrawal(w)
			encoded[i] = mustEncode(w.EncodeRLP)
		}
		withdrawalsRoot := trie.OrderedRoot(encoded)
		p.WithdrawalsRoot = &withdrawalsRoot
	}

	header := p.Finalize(ommersHash, txRoot)
	hash := header.Hash()

	return &LocalBlock{
		header:       header,
		transactions: append([]*types.Transaction(nil), transactions...),
		callers:      append([]types.Address(nil), callers...),
		receipts:     BlockReceipts(hash, header.NumberU64(), receipts),
		ommers:       ommerCopies,
		ommerHashes:  ommerHashes,
		withdrawals:  withdrawalCopies,
		hash:         hash,
	}
}

// EmptyLocalBlock assembles a block with no transactions, no ommers and no
// withdrawals. The header still commits to the canonical empty roots.
func EmptyLocalBlock(partial *types.PartialHeader) *LocalBlock {
	return NewLocalBlock(partial, nil, nil, nil, nil, nil)
}

// Hash returns the block hash.
func (b *LocalBlock) Hash() types.Hash {
	return b.hash
}

// Header returns a copy of the block header.
func (b *LocalBlock) Header() *types.Header {
	return types.CopyHeader(b.header)
}

// Transactions returns the block's transactions in inclusion order.
func (b *LocalBlock) Transactions() []*types.Transaction {
	return b.transactions
}

// TransactionCallers returns the sender of each transaction.
func (b *LocalBlock) TransactionCallers() []types.Address {
	return b.callers
}

// TransactionReceipts returns a fresh clone of the block's receipt list.
// The error return satisfies the Block contract; it is always nil here.
func (b *LocalBlock) TransactionReceipts() ([]*types.BlockReceipt, error) {
	return append([]*types.BlockReceipt(nil), b.receipts...), nil
}

// OmmerHashes returns the hash of each ommer header.
func (b *LocalBlock) OmmerHashes() []types.Hash {
	return b.ommerHashes
}

// Ommers returns the block's ommer headers.
func (b *LocalBlock) Ommers() []*types.Header {
	return b.ommers
}

// Withdrawals returns the block's withdrawals, or nil for a block assembled
// before withdrawals were activated.
func (b *LocalBlock) Withdrawals() []*types.Withdrawal {
	return b.withdrawals
}

// DetailedTransactions returns a lazy iterator over the block's
// transactions paired with their callers and receipts. The iterator can be
// ranged over any number of times; every pass starts from the first
// transaction.
func (b *LocalBlock) DetailedTransactions() iter.Seq[DetailedTransaction] {
	return detailedTransactions(b.transactions, b.callers, b.receipts)
}

// RLPSize returns the length in bytes of the block's wire encoding. The
// encoding of an assembled block cannot fail; if it somehow does, the block
// was constructed from corrupt data and RLPSize panics.
func (b *LocalBlock) RLPSize() uint64 {
	enc, err := b.EncodeRLP()
	if err != nil {
		panic(fmt.Sprintf("core: block %s does not encode: %v", b.hash.Hex(), err))
	}
	return uint64(len(enc))
}

// mustEncode runs an encoder that can only fail on corrupt in-memory state.
func mustEncode(encode func() ([]byte, error)) []byte {
	enc, err := encode()
	if err != nil {
		panic(fmt.Sprintf("core: encoding failed on constructed value: %v", err))
	}
	return enc
}

// mustEncodeHeaderList encodes a slice of headers as an RLP list.
func mustEncodeHeaderList(headers []*types.Header) []byte {
	var payload []byte
	for _, h := range headers {
		payload = append(payload, mustEncode(h.EncodeRLP)...)
	}
	return rlp.WrapList(payload)
}
