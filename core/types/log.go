package types

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxTopicsPerLog is the maximum number of indexed topics in a single log
// event (EVM LOG0..LOG4).
const MaxTopicsPerLog = 4

// Log is an event emitted during transaction execution. The consensus fields
// (Address, Topics, Data) come from the EVM; the remaining fields are block
// context filled in during block assembly. Index is the block-global log
// index: a single counter across all of a block's transactions.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte

	BlockNumber uint64
	TxHash      Hash
	TxIndex     uint64
	BlockHash   Hash
	Index       uint64

	// Removed marks logs reverted by a chain reorganization. Locally
	// assembled blocks are never reorged out at assembly time, so logs
	// produced here always carry false.
	Removed bool
}

// CopyLog returns a deep copy of a log.
func CopyLog(l *Log) *Log {
	cpy := *l
	cpy.Topics = make([]Hash, len(l.Topics))
	copy(cpy.Topics, l.Topics)
	cpy.Data = copyBytes(l.Data)
	return &cpy
}

// LogFilter defines criteria for matching logs. A log matches if Addresses
// is empty or contains the log address, and for each topic position the
// filter's inner slice is empty (wildcard) or contains the log's topic.
type LogFilter struct {
	Addresses []Address
	Topics    [][]Hash
	FromBlock uint64
	ToBlock   uint64 // 0 means no upper bound
}

// Matches reports whether the log satisfies the filter.
func (f *LogFilter) Matches(l *Log) bool {
	if l.BlockNumber < f.FromBlock {
		return false
	}
	if f.ToBlock != 0 && l.BlockNumber > f.ToBlock {
		return false
	}
	if len(f.Addresses) > 0 {
		found := false
		for _, a := range f.Addresses {
			if a == l.Address {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for i, want := range f.Topics {
		if len(want) == 0 {
			continue
		}
		if i >= len(l.Topics) {
			return false
		}
		found := false
		for _, t := range want {
			if t == l.Topics[i] {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// jsonLog is the JSON wire representation of a log, using the hex encoding
// conventions of the Ethereum JSON-RPC interface.
type jsonLog struct {
	Address     string   `json:"address"`
	Topics      []string `json:"topics"`
	Data        string   `json:"data"`
	BlockNumber string   `json:"blockNumber"`
	TxHash      string   `json:"transactionHash"`
	TxIndex     string   `json:"transactionIndex"`
	BlockHash   string   `json:"blockHash"`
	LogIndex    string   `json:"logIndex"`
	Removed     bool     `json:"removed"`
}

// MarshalJSON serializes the log for RPC consumers.
func (l *Log) MarshalJSON() ([]byte, error) {
	topics := make([]string, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = t.Hex()
	}
	return json.Marshal(jsonLog{
		Address:     l.Address.Hex(),
		Topics:      topics,
		Data:        fmt.Sprintf("0x%s", hex.EncodeToString(l.Data)),
		BlockNumber: fmt.Sprintf("0x%x", l.BlockNumber),
		TxHash:      l.TxHash.Hex(),
		TxIndex:     fmt.Sprintf("0x%x", l.TxIndex),
		BlockHash:   l.BlockHash.Hex(),
		LogIndex:    fmt.Sprintf("0x%x", l.Index),
		Removed:     l.Removed,
	})
}

// UnmarshalJSON deserializes a log from its RPC representation.
func (l *Log) UnmarshalJSON(data []byte) error {
	var jl jsonLog
	if err := json.Unmarshal(data, &jl); err != nil {
		return fmt.Errorf("types: log json: %w", err)
	}

	l.Address = HexToAddress(jl.Address)
	l.Topics = make([]Hash, len(jl.Topics))
	for i, t := range jl.Topics {
		l.Topics[i] = HexToHash(t)
	}

	var err error
	if l.Data, err = decodeHexData(jl.Data); err != nil {
		return fmt.Errorf("types: log data: %w", err)
	}
	if l.BlockNumber, err = decodeHexUint64(jl.BlockNumber); err != nil {
		return fmt.Errorf("types: log blockNumber: %w", err)
	}
	l.TxHash = HexToHash(jl.TxHash)
	if l.TxIndex, err = decodeHexUint64(jl.TxIndex); err != nil {
		return fmt.Errorf("types: log transactionIndex: %w", err)
	}
	l.BlockHash = HexToHash(jl.BlockHash)
	if l.Index, err = decodeHexUint64(jl.LogIndex); err != nil {
		return fmt.Errorf("types: log logIndex: %w", err)
	}
	l.Removed = jl.Removed
	return nil
}

func decodeHexData(s string) ([]byte, error) {
	if !has0xPrefix(s) {
		return nil, errors.New("missing 0x prefix")
	}
	return hex.DecodeString(s[2:])
}

func decodeHexUint64(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0, errors.New("empty hex quantity")
	}
	return strconv.ParseUint(s, 16, 64)
}
