package types

import "github.com/ethforge/ethforge/rlp"

// EncodeRLP returns the consensus encoding of the receipt:
// [statusOrPostState, cumulativeGasUsed, bloom, logs], prefixed with the
// transaction type byte for typed receipts.
func (r *TransactionReceipt) EncodeRLP() ([]byte, error) {
	var statusEnc []byte
	var err error
	if len(r.PostState) > 0 {
		statusEnc, err = rlp.EncodeToBytes(r.PostState)
	} else {
		statusEnc, err = rlp.EncodeToBytes(r.Status)
	}
	if err != nil {
		return nil, err
	}

	gasEnc, err := rlp.EncodeToBytes(r.CumulativeGasUsed)
	if err != nil {
		return nil, err
	}
	bloomEnc, err := rlp.EncodeToBytes(r.Bloom)
	if err != nil {
		return nil, err
	}

	var logsPayload []byte
	for _, l := range r.Logs {
		enc, err := encodeLogRLP(l)
		if err != nil {
			return nil, err
		}
		logsPayload = append(logsPayload, enc...)
	}

	var payload []byte
	payload = append(payload, statusEnc...)
	payload = append(payload, gasEnc...)
	payload = append(payload, bloomEnc...)
	payload = append(payload, rlp.WrapList(logsPayload)...)
	encoded := rlp.WrapList(payload)

	if r.Type != LegacyTxType {
		return prependTypeByte(r.Type, encoded), nil
	}
	return encoded, nil
}

// encodeLogRLP encodes the consensus fields of a log: [address, topics, data].
func encodeLogRLP(l *Log) ([]byte, error) {
	addrEnc, err := rlp.EncodeToBytes(l.Address)
	if err != nil {
		return nil, err
	}
	var topicsPayload []byte
	for _, t := range l.Topics {
		enc, err := rlp.EncodeToBytes(t)
		if err != nil {
			return nil, err
		}
		topicsPayload = append(topicsPayload, enc...)
	}
	dataEnc, err := rlp.EncodeToBytes(l.Data)
	if err != nil {
		return nil, err
	}

	var payload []byte
	payload = append(payload, addrEnc...)
	payload = append(payload, rlp.WrapList(topicsPayload)...)
	payload = append(payload, dataEnc...)
	return rlp.WrapList(payload), nil
}
