package core

import (
	"fmt"

	"github.com/ethforge/ethforge/core/types"
	"github.com/ethforge/ethforge/rlp"
)

// EncodeRLP produces the block's wire encoding: an RLP list of the header,
// the transaction list and the ommer list, with the withdrawal list appended
// when the block has one. Transactions appear as byte strings wrapping the
// same canonical per-transaction encoding used for the transactions root, so
// the wire form and the trie commit to identical bytes.
func (b *LocalBlock) EncodeRLP() ([]byte, error) {
	headerEnc, err := b.header.EncodeRLP()
	if err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	var txPayload []byte
	for i, tx := range b.transactions {
		enc, err := tx.EncodeRLP()
		if err != nil {
			return nil, fmt.Errorf("encode transaction %d: %w", i, err)
		}
		wrapped, err := rlp.EncodeToBytes(enc)
		if err != nil {
			return nil, fmt.Errorf("wrap transaction %d: %w", i, err)
		}
		txPayload = append(txPayload, wrapped...)
	}

	var ommerPayload []byte
	for i, ommer := range b.ommers {
		enc, err := ommer.EncodeRLP()
		if err != nil {
			return nil, fmt.Errorf("encode ommer %d: %w", i, err)
		}
		ommerPayload = append(ommerPayload, enc...)
	}

	payload := headerEnc
	payload = append(payload, rlp.WrapList(txPayload)...)
	payload = append(payload, rlp.WrapList(ommerPayload)...)

	if b.withdrawals != nil {
		var wPayload []byte
		for i, w := range b.withdrawals {
			enc, err := w.EncodeRLP()
			if err != nil {
				return nil, fmt.Errorf("encode withdrawal %d: %w", i, err)
			}
			wPayload = append(wPayload, enc...)
		}
		payload = append(payload, rlp.WrapList(wPayload)...)
	}

	return rlp.WrapList(payload), nil
}

// DecodedBlock holds the parts recovered from a block's wire encoding.
// Callers and receipts are local execution artifacts and are not carried on
// the wire, so a decoded block cannot be turned back into a LocalBlock.
type DecodedBlock struct {
	Header       *types.Header
	Transactions []*types.Transaction
	Ommers       []*types.Header
	Withdrawals  []*types.Withdrawal
}

// DecodeBlockRLP parses a block wire encoding produced by EncodeRLP.
func DecodeBlockRLP(data []byte) (*DecodedBlock, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, fmt.Errorf("block envelope: %w", err)
	}

	headerRaw, err := s.RawItem()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	header, err := types.DecodeHeaderRLP(headerRaw)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	decoded := &DecodedBlock{Header: header}

	if _, err := s.List(); err != nil {
		return nil, fmt.Errorf("transaction list: %w", err)
	}
	for !s.AtListEnd() {
		enc, err := s.Bytes()
		if err != nil {
			return nil, fmt.Errorf("read transaction %d: %w", len(decoded.Transactions), err)
		}
		tx, err := types.DecodeTxRLP(enc)
		if err != nil {
			return nil, fmt.Errorf("decode transaction %d: %w", len(decoded.Transactions), err)
		}
		decoded.Transactions = append(decoded.Transactions, tx)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	if _, err := s.List(); err != nil {
		return nil, fmt.Errorf("ommer list: %w", err)
	}
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, fmt.Errorf("read ommer %d: %w", len(decoded.Ommers), err)
		}
		ommer, err := types.DecodeHeaderRLP(raw)
		if err != nil {
			return nil, fmt.Errorf("decode ommer %d: %w", len(decoded.Ommers), err)
		}
		decoded.Ommers = append(decoded.Ommers, ommer)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	if !s.AtListEnd() {
		if _, err := s.List(); err != nil {
			return nil, fmt.Errorf("withdrawal list: %w", err)
		}
		decoded.Withdrawals = []*types.Withdrawal{}
		for !s.AtListEnd() {
			raw, err := s.RawItem()
			if err != nil {
				return nil, fmt.Errorf("read withdrawal %d: %w", len(decoded.Withdrawals), err)
			}
			w, err := types.DecodeWithdrawalRLP(raw)
			if err != nil {
				return nil, fmt.Errorf("decode withdrawal %d: %w", len(decoded.Withdrawals), err)
			}
			decoded.Withdrawals = append(decoded.Withdrawals, w)
		}
		if err := s.ListEnd(); err != nil {
			return nil, err
		}
	}

	return decoded, s.ListEnd()
}
