package types

import "math/big"

// Receipt status values (post-Byzantium).
const (
	ReceiptStatusFailed     = uint64(0)
	ReceiptStatusSuccessful = uint64(1)
)

// TransactionReceipt is the execution outcome of a single transaction, scoped
// to that transaction only: it carries no information about the block the
// transaction was included in. Block assembly turns these into BlockReceipts.
type TransactionReceipt struct {
	// Consensus fields.
	Type              uint8
	PostState         []byte // pre-Byzantium state root, empty when Status is used
	Status            uint64
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log

	// Fields derived from execution.
	TxHash            Hash
	From              Address
	To                *Address // nil for contract creation
	ContractAddress   *Address // set when the transaction deployed a contract
	GasUsed           uint64
	EffectiveGasPrice *big.Int
}

// Succeeded reports whether the receipt's status field indicates success.
func (r *TransactionReceipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}

// BlockReceipt is a transaction receipt annotated with the identity of the
// block it was included in. Its logs carry block context and block-global log
// indices. BlockReceipts are immutable and shared by pointer between the
// block's receipt list and any per-transaction or log-filter view.
type BlockReceipt struct {
	TransactionReceipt

	BlockHash        Hash
	BlockNumber      uint64
	TransactionIndex uint64
}
