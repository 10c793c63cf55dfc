package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// config carries the resolved CLI options.
type config struct {
	BlockNumber     uint64
	TxCount         int
	WithdrawalCount int // negative disables the withdrawals list
	PrintRLP        bool
	LogLevel        string
	LogJSON         bool
}

func defaultConfig() config {
	return config{
		BlockNumber:     1,
		TxCount:         3,
		WithdrawalCount: -1,
		LogLevel:        "info",
	}
}

// parseFlags parses CLI arguments into a config. Returns the config, whether
// the caller should exit immediately, and the exit code.
func parseFlags(args []string) (config, bool, int) {
	cfg := defaultConfig()
	fs := newFlagSet(&cfg)

	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cfg, true, 2
	}

	if *showVersion {
		fmt.Printf("ethforge %s (commit %s)\n", version, commit)
		return cfg, true, 0
	}

	if cfg.TxCount < 0 {
		fmt.Fprintln(os.Stderr, "Error: --txs must not be negative")
		return cfg, true, 2
	}

	return cfg, false, 0
}

// newFlagSet creates a flagSet that binds all CLI flags to the given config.
// ContinueOnError lets the caller control error handling.
func newFlagSet(cfg *config) *flagSet {
	fs := newCustomFlagSet("ethforge")
	fs.Uint64Var(&cfg.BlockNumber, "number", cfg.BlockNumber, "block number")
	fs.IntVar(&cfg.TxCount, "txs", cfg.TxCount, "number of sample transactions")
	fs.IntVar(&cfg.WithdrawalCount, "withdrawals", cfg.WithdrawalCount, "number of withdrawals (-1 disables the list)")
	fs.BoolVar(&cfg.PrintRLP, "rlp", cfg.PrintRLP, "print the block's wire encoding as hex")
	fs.StringVar(&cfg.LogLevel, "log.level", cfg.LogLevel, "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.LogJSON, "log.json", cfg.LogJSON, "emit JSON logs")
	return fs
}

// flagSet wraps flag.FlagSet to add support for uint64 flags.
type flagSet struct {
	*flag.FlagSet
}

// newCustomFlagSet creates a flagSet with ContinueOnError behavior.
func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}

// Uint64Var defines a uint64 flag. Go's standard flag package lacks uint64
// support, so we use a custom Value implementation.
func (fs *flagSet) Uint64Var(p *uint64, name string, value uint64, usage string) {
	fs.FlagSet.Var(&uint64Value{p: p}, name, usage)
	*p = value
}

// uint64Value implements flag.Value for uint64 flags.
type uint64Value struct {
	p *uint64
}

func (v *uint64Value) String() string {
	if v.p == nil {
		return "0"
	}
	return strconv.FormatUint(*v.p, 10)
}

func (v *uint64Value) Set(s string) error {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid uint64 value %q", s)
	}
	*v.p = n
	return nil
}
