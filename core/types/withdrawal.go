package types

import "github.com/ethforge/ethforge/rlp"

// Withdrawal is an EIP-4895 beacon chain withdrawal pushed into the
// execution layer.
type Withdrawal struct {
	Index          uint64
	ValidatorIndex uint64
	Address        Address
	Amount         uint64 // in Gwei
}

// withdrawalRLP is the consensus encoding layout:
// [index, validatorIndex, address, amount].
type withdrawalRLP struct {
	Index          uint64
	ValidatorIndex uint64
	Address        Address
	Amount         uint64
}

// EncodeRLP returns the consensus encoding of the withdrawal.
func (w *Withdrawal) EncodeRLP() ([]byte, error) {
	return rlp.EncodeToBytes(withdrawalRLP{
		Index:          w.Index,
		ValidatorIndex: w.ValidatorIndex,
		Address:        w.Address,
		Amount:         w.Amount,
	})
}

// DecodeWithdrawalRLP decodes a consensus-encoded withdrawal.
func DecodeWithdrawalRLP(data []byte) (*Withdrawal, error) {
	var raw withdrawalRLP
	if err := rlp.DecodeBytes(data, &raw); err != nil {
		return nil, err
	}
	return &Withdrawal{
		Index:          raw.Index,
		ValidatorIndex: raw.ValidatorIndex,
		Address:        raw.Address,
		Amount:         raw.Amount,
	}, nil
}

// CopyWithdrawal returns a copy of a withdrawal.
func CopyWithdrawal(w *Withdrawal) *Withdrawal {
	cpy := *w
	return &cpy
}
