package types

import (
	"math/big"
	"sync/atomic"
)

// Transaction type identifiers (EIP-2718 envelope).
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
	BlobTxType       = 0x03
)

// Transaction is a signed transaction included in a locally assembled block.
// The hash and encoded size are derived lazily and cached; a Transaction is
// immutable once constructed.
type Transaction struct {
	inner TxData
	hash  atomic.Pointer[Hash]
	size  atomic.Uint64
}

// TxData is the type-specific payload of a transaction.
type TxData interface {
	txType() byte
	chainID() *big.Int
	accessList() AccessList
	data() []byte
	gas() uint64
	gasPrice() *big.Int
	gasTipCap() *big.Int
	gasFeeCap() *big.Int
	value() *big.Int
	nonce() uint64
	to() *Address
	rawSignatureValues() (v, r, s *big.Int)

	copy() TxData
}

// NewTransaction creates a transaction from type-specific payload data. The
// payload is deep-copied so later mutation of the argument cannot affect the
// transaction.
func NewTransaction(inner TxData) *Transaction {
	return &Transaction{inner: inner.copy()}
}

// Type returns the EIP-2718 transaction type.
func (tx *Transaction) Type() uint8 { return tx.inner.txType() }

// ChainID returns the chain ID the transaction is bound to.
func (tx *Transaction) ChainID() *big.Int { return tx.inner.chainID() }

// AccessList returns the transaction's access list, or nil.
func (tx *Transaction) AccessList() AccessList { return tx.inner.accessList() }

// Data returns the transaction input data.
func (tx *Transaction) Data() []byte { return tx.inner.data() }

// Gas returns the gas limit.
func (tx *Transaction) Gas() uint64 { return tx.inner.gas() }

// GasPrice returns the gas price (the fee cap for dynamic-fee transactions).
func (tx *Transaction) GasPrice() *big.Int { return tx.inner.gasPrice() }

// GasTipCap returns maxPriorityFeePerGas.
func (tx *Transaction) GasTipCap() *big.Int { return tx.inner.gasTipCap() }

// GasFeeCap returns maxFeePerGas.
func (tx *Transaction) GasFeeCap() *big.Int { return tx.inner.gasFeeCap() }

// Value returns the transferred amount.
func (tx *Transaction) Value() *big.Int { return tx.inner.value() }

// Nonce returns the sender nonce.
func (tx *Transaction) Nonce() uint64 { return tx.inner.nonce() }

// To returns the recipient address, or nil for contract creation.
func (tx *Transaction) To() *Address { return tx.inner.to() }

// AccessList is a list of address-slot pairs declared by a transaction.
type AccessList []AccessTuple

// AccessTuple is a single address and its accessed storage slots.
type AccessTuple struct {
	Address     Address
	StorageKeys []Hash
}

func copyAccessList(al AccessList) AccessList {
	if al == nil {
		return nil
	}
	cpy := make(AccessList, len(al))
	for i, tuple := range al {
		keys := make([]Hash, len(tuple.StorageKeys))
		copy(keys, tuple.StorageKeys)
		cpy[i] = AccessTuple{Address: tuple.Address, StorageKeys: keys}
	}
	return cpy
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

// LegacyTx is a pre-EIP-2718 (type 0x00) transaction.
type LegacyTx struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *Address
	Value    *big.Int
	Data     []byte
	V, R, S  *big.Int
}

func (tx *LegacyTx) txType() byte            { return LegacyTxType }
func (tx *LegacyTx) chainID() *big.Int       { return deriveChainID(tx.V) }
func (tx *LegacyTx) accessList() AccessList  { return nil }
func (tx *LegacyTx) data() []byte            { return tx.Data }
func (tx *LegacyTx) gas() uint64             { return tx.Gas }
func (tx *LegacyTx) gasPrice() *big.Int      { return tx.GasPrice }
func (tx *LegacyTx) gasTipCap() *big.Int     { return tx.GasPrice }
func (tx *LegacyTx) gasFeeCap() *big.Int     { return tx.GasPrice }
func (tx *LegacyTx) value() *big.Int         { return tx.Value }
func (tx *LegacyTx) nonce() uint64           { return tx.Nonce }
func (tx *LegacyTx) to() *Address            { return tx.To }
func (tx *LegacyTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *LegacyTx) copy() TxData {
	return &LegacyTx{
		Nonce:    tx.Nonce,
		GasPrice: copyBigInt(tx.GasPrice),
		Gas:      tx.Gas,
		To:       CopyAddressPtr(tx.To),
		Value:    copyBigInt(tx.Value),
		Data:     copyBytes(tx.Data),
		V:        copyBigInt(tx.V),
		R:        copyBigInt(tx.R),
		S:        copyBigInt(tx.S),
	}
}

// AccessListTx is an EIP-2930 (type 0x01) transaction.
type AccessListTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *big.Int
	Gas        uint64
	To         *Address
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

func (tx *AccessListTx) txType() byte           { return AccessListTxType }
func (tx *AccessListTx) chainID() *big.Int      { return tx.ChainID }
func (tx *AccessListTx) accessList() AccessList { return tx.AccessList }
func (tx *AccessListTx) data() []byte           { return tx.Data }
func (tx *AccessListTx) gas() uint64            { return tx.Gas }
func (tx *AccessListTx) gasPrice() *big.Int     { return tx.GasPrice }
func (tx *AccessListTx) gasTipCap() *big.Int    { return tx.GasPrice }
func (tx *AccessListTx) gasFeeCap() *big.Int    { return tx.GasPrice }
func (tx *AccessListTx) value() *big.Int        { return tx.Value }
func (tx *AccessListTx) nonce() uint64          { return tx.Nonce }
func (tx *AccessListTx) to() *Address           { return tx.To }
func (tx *AccessListTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *AccessListTx) copy() TxData {
	return &AccessListTx{
		ChainID:    copyBigInt(tx.ChainID),
		Nonce:      tx.Nonce,
		GasPrice:   copyBigInt(tx.GasPrice),
		Gas:        tx.Gas,
		To:         CopyAddressPtr(tx.To),
		Value:      copyBigInt(tx.Value),
		Data:       copyBytes(tx.Data),
		AccessList: copyAccessList(tx.AccessList),
		V:          copyBigInt(tx.V),
		R:          copyBigInt(tx.R),
		S:          copyBigInt(tx.S),
	}
}

// DynamicFeeTx is an EIP-1559 (type 0x02) transaction.
type DynamicFeeTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int // maxPriorityFeePerGas
	GasFeeCap  *big.Int // maxFeePerGas
	Gas        uint64
	To         *Address
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	V, R, S    *big.Int
}

func (tx *DynamicFeeTx) txType() byte           { return DynamicFeeTxType }
func (tx *DynamicFeeTx) chainID() *big.Int      { return tx.ChainID }
func (tx *DynamicFeeTx) accessList() AccessList { return tx.AccessList }
func (tx *DynamicFeeTx) data() []byte           { return tx.Data }
func (tx *DynamicFeeTx) gas() uint64            { return tx.Gas }
func (tx *DynamicFeeTx) gasPrice() *big.Int     { return tx.GasFeeCap }
func (tx *DynamicFeeTx) gasTipCap() *big.Int    { return tx.GasTipCap }
func (tx *DynamicFeeTx) gasFeeCap() *big.Int    { return tx.GasFeeCap }
func (tx *DynamicFeeTx) value() *big.Int        { return tx.Value }
func (tx *DynamicFeeTx) nonce() uint64          { return tx.Nonce }
func (tx *DynamicFeeTx) to() *Address           { return tx.To }
func (tx *DynamicFeeTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *DynamicFeeTx) copy() TxData {
	return &DynamicFeeTx{
		ChainID:    copyBigInt(tx.ChainID),
		Nonce:      tx.Nonce,
		GasTipCap:  copyBigInt(tx.GasTipCap),
		GasFeeCap:  copyBigInt(tx.GasFeeCap),
		Gas:        tx.Gas,
		To:         CopyAddressPtr(tx.To),
		Value:      copyBigInt(tx.Value),
		Data:       copyBytes(tx.Data),
		AccessList: copyAccessList(tx.AccessList),
		V:          copyBigInt(tx.V),
		R:          copyBigInt(tx.R),
		S:          copyBigInt(tx.S),
	}
}

// BlobTx is an EIP-4844 (type 0x03) blob-carrying transaction. Only the
// consensus fields are represented; sidecar blobs never enter a block body.
type BlobTx struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	Gas        uint64
	To         Address // blob transactions cannot create contracts
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	BlobFeeCap *big.Int
	BlobHashes []Hash
	V, R, S    *big.Int
}

func (tx *BlobTx) txType() byte           { return BlobTxType }
func (tx *BlobTx) chainID() *big.Int      { return tx.ChainID }
func (tx *BlobTx) accessList() AccessList { return tx.AccessList }
func (tx *BlobTx) data() []byte           { return tx.Data }
func (tx *BlobTx) gas() uint64            { return tx.Gas }
func (tx *BlobTx) gasPrice() *big.Int     { return tx.GasFeeCap }
func (tx *BlobTx) gasTipCap() *big.Int    { return tx.GasTipCap }
func (tx *BlobTx) gasFeeCap() *big.Int    { return tx.GasFeeCap }
func (tx *BlobTx) value() *big.Int        { return tx.Value }
func (tx *BlobTx) nonce() uint64          { return tx.Nonce }
func (tx *BlobTx) to() *Address           { addr := tx.To; return &addr }
func (tx *BlobTx) rawSignatureValues() (v, r, s *big.Int) { return tx.V, tx.R, tx.S }

func (tx *BlobTx) copy() TxData {
	hashes := make([]Hash, len(tx.BlobHashes))
	copy(hashes, tx.BlobHashes)
	return &BlobTx{
		ChainID:    copyBigInt(tx.ChainID),
		Nonce:      tx.Nonce,
		GasTipCap:  copyBigInt(tx.GasTipCap),
		GasFeeCap:  copyBigInt(tx.GasFeeCap),
		Gas:        tx.Gas,
		To:         tx.To,
		Value:      copyBigInt(tx.Value),
		Data:       copyBytes(tx.Data),
		AccessList: copyAccessList(tx.AccessList),
		BlobFeeCap: copyBigInt(tx.BlobFeeCap),
		BlobHashes: hashes,
		V:          copyBigInt(tx.V),
		R:          copyBigInt(tx.R),
		S:          copyBigInt(tx.S),
	}
}

// RawSignatureValues returns the transaction's V, R, S signature values.
// The values should not be modified.
func (tx *Transaction) RawSignatureValues() (v, r, s *big.Int) {
	return tx.inner.rawSignatureValues()
}

// BlobGasFeeCap returns maxFeePerBlobGas, or nil for non-blob transactions.
func (tx *Transaction) BlobGasFeeCap() *big.Int {
	if blob, ok := tx.inner.(*BlobTx); ok {
		return blob.BlobFeeCap
	}
	return nil
}

// BlobHashes returns the versioned blob commitments, or nil for non-blob
// transactions.
func (tx *Transaction) BlobHashes() []Hash {
	if blob, ok := tx.inner.(*BlobTx); ok {
		return blob.BlobHashes
	}
	return nil
}

// deriveChainID extracts the chain ID from a legacy V value per EIP-155.
// Pre-EIP-155 signatures (V of 27 or 28) carry no chain ID.
func deriveChainID(v *big.Int) *big.Int {
	if v == nil || v.Cmp(big.NewInt(35)) < 0 {
		return nil
	}
	chainID := new(big.Int).Sub(v, big.NewInt(35))
	return chainID.Rsh(chainID, 1)
}
