// Command ethforge assembles a demonstration block from deterministic sample
// transactions and prints the derived commitments.
//
// Usage:
//
//	ethforge [flags]
//
// Flags:
//
//	--number       Block number (default: 1)
//	--txs          Number of sample transactions (default: 3)
//	--withdrawals  Number of withdrawals; -1 disables the withdrawals list (default: -1)
//	--rlp          Print the block's wire encoding as hex
//	--log.level    Log level: debug, info, warn, error (default: info)
//	--log.json     Emit JSON logs instead of terminal output
//	--version      Print version and exit
package main

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"

	"github.com/ethforge/ethforge/core"
	"github.com/ethforge/ethforge/core/types"
	"github.com/ethforge/ethforge/log"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run is the actual entry point, returning an exit code. It takes the CLI
// arguments (without the program name) and an output writer so it can be
// tested in isolation.
func run(args []string, out *os.File) int {
	cfg, exit, code := parseFlags(args)
	if exit {
		return code
	}

	level := log.LevelFromString(cfg.LogLevel)
	var logger *log.Logger
	if cfg.LogJSON {
		logger = log.New(level)
	} else {
		logger = log.NewWithHandler(log.NewTerminalHandler(os.Stderr, level, true))
	}
	log.SetDefault(logger)
	logger = logger.Module("assembly")

	logger.Info("ethforge starting", "version", version)

	block := buildSampleBlock(cfg)
	header := block.Header()

	logger.Info("block assembled",
		"number", header.NumberU64(),
		"hash", block.Hash(),
		"txs", len(block.Transactions()),
		"gasUsed", header.GasUsed,
		"size", block.RLPSize())
	logger.Debug("roots derived",
		"txRoot", header.TxHash,
		"ommersHash", header.UncleHash)

	fmt.Fprintf(out, "block      %s\n", block.Hash())
	fmt.Fprintf(out, "number     %d\n", header.NumberU64())
	fmt.Fprintf(out, "txRoot     %s\n", header.TxHash)
	fmt.Fprintf(out, "ommersHash %s\n", header.UncleHash)
	if header.WithdrawalsHash != nil {
		fmt.Fprintf(out, "wdRoot     %s\n", *header.WithdrawalsHash)
	}
	fmt.Fprintf(out, "size       %d bytes\n", block.RLPSize())

	for dt := range block.DetailedTransactions() {
		fmt.Fprintf(out, "tx %d       %s caller=%s gasUsed=%d logs=%d\n",
			dt.Receipt.TransactionIndex, dt.Transaction.Hash(), dt.Caller,
			dt.Receipt.GasUsed, len(dt.Receipt.Logs))
	}

	if cfg.PrintRLP {
		enc, err := block.EncodeRLP()
		if err != nil {
			logger.Error("encode block", "err", err)
			return 1
		}
		fmt.Fprintf(out, "rlp        0x%s\n", hex.EncodeToString(enc))
	}
	return 0
}

// buildSampleBlock assembles a deterministic block from the CLI config.
func buildSampleBlock(cfg config) *core.LocalBlock {
	txs := make([]*types.Transaction, cfg.TxCount)
	callers := make([]types.Address, cfg.TxCount)
	receipts := make([]*types.TransactionReceipt, cfg.TxCount)

	cumulative := uint64(0)
	for i := range txs {
		to := types.BytesToAddress([]byte{0xbe, byte(i + 1)})
		txs[i] = types.NewTransaction(&types.LegacyTx{
			Nonce:    uint64(i),
			GasPrice: big.NewInt(1_000_000_000),
			Gas:      21_000,
			To:       &to,
			Value:    big.NewInt(int64(i+1) * 1_000),
			V:        big.NewInt(38),
			R:        big.NewInt(int64(i) + 0x100),
			S:        big.NewInt(int64(i) + 0x200),
		})
		callers[i] = types.BytesToAddress([]byte{0xca, byte(i + 1)})
		cumulative += 21_000
		logs := []*types.Log{{
			Address: to,
			Topics:  []types.Hash{types.BytesToHash([]byte{byte(i + 1)})},
			Data:    []byte{byte(i)},
		}}
		receipts[i] = &types.TransactionReceipt{
			Status:            types.ReceiptStatusSuccessful,
			CumulativeGasUsed: cumulative,
			Bloom:             types.LogsBloom(logs),
			Logs:              logs,
			TxHash:            txs[i].Hash(),
			From:              callers[i],
			To:                &to,
			GasUsed:           21_000,
			EffectiveGasPrice: big.NewInt(1_000_000_000),
		}
	}

	var withdrawals []*types.Withdrawal
	if cfg.WithdrawalCount >= 0 {
		withdrawals = make([]*types.Withdrawal, cfg.WithdrawalCount)
		for i := range withdrawals {
			withdrawals[i] = &types.Withdrawal{
				Index:          uint64(i),
				ValidatorIndex: uint64(i * 7),
				Address:        types.BytesToAddress([]byte{0xdd, byte(i + 1)}),
				Amount:         uint64(i+1) * 1_000_000,
			}
		}
	}

	partial := &types.PartialHeader{
		ParentHash:  types.BytesToHash([]byte{0x0a}),
		Coinbase:    types.BytesToAddress([]byte{0xc0, 0xff, 0xee}),
		Root:        types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(0),
		Number:      new(big.Int).SetUint64(cfg.BlockNumber),
		GasLimit:    30_000_000,
		GasUsed:     cumulative,
		Time:        1_700_000_000,
		BaseFee:     big.NewInt(1_000_000_000),
	}

	return core.NewLocalBlock(partial, txs, callers, receipts, nil, withdrawals)
}
