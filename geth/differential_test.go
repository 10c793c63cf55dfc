package geth

import (
	"math/big"
	"testing"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	gethtrie "github.com/ethereum/go-ethereum/trie"
	"github.com/stretchr/testify/require"

	"github.com/ethforge/ethforge/core"
	"github.com/ethforge/ethforge/core/types"
	"github.com/ethforge/ethforge/trie"
)

func diffLegacyTx(nonce uint64) *types.Transaction {
	to := types.HexToAddress("0x1000000000000000000000000000000000000001")
	return types.NewTransaction(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: big.NewInt(2_000_000_000),
		Gas:      21_000,
		To:       &to,
		Value:    big.NewInt(12_345),
		Data:     []byte{0x01, 0x02, 0x03},
		V:        big.NewInt(37),
		R:        big.NewInt(0x1111),
		S:        big.NewInt(0x2222),
	})
}

func diffAccessListTx(nonce uint64) *types.Transaction {
	to := types.HexToAddress("0x2000000000000000000000000000000000000002")
	return types.NewTransaction(&types.AccessListTx{
		ChainID:  big.NewInt(1),
		Nonce:    nonce,
		GasPrice: big.NewInt(1_500_000_000),
		Gas:      35_000,
		To:       &to,
		Value:    big.NewInt(0),
		AccessList: types.AccessList{{
			Address:     types.HexToAddress("0x3000000000000000000000000000000000000003"),
			StorageKeys: []types.Hash{types.HexToHash("0x01"), types.HexToHash("0x02")},
		}},
		V: big.NewInt(1),
		R: big.NewInt(0x3333),
		S: big.NewInt(0x4444),
	})
}

func diffDynamicFeeTx(nonce uint64) *types.Transaction {
	return types.NewTransaction(&types.DynamicFeeTx{
		ChainID:   big.NewInt(1),
		Nonce:     nonce,
		GasTipCap: big.NewInt(1_000_000_000),
		GasFeeCap: big.NewInt(4_000_000_000),
		Gas:       1_000_000,
		To:        nil, // contract creation
		Value:     big.NewInt(0),
		Data:      []byte{0x60, 0x00, 0x60, 0x00},
		V:         big.NewInt(0),
		R:         big.NewInt(0x5555),
		S:         big.NewInt(0x6666),
	})
}

func diffBlobTx(nonce uint64) *types.Transaction {
	return types.NewTransaction(&types.BlobTx{
		ChainID:    big.NewInt(1),
		Nonce:      nonce,
		GasTipCap:  big.NewInt(1_000_000_000),
		GasFeeCap:  big.NewInt(4_000_000_000),
		Gas:        100_000,
		To:         types.HexToAddress("0x4000000000000000000000000000000000000004"),
		Value:      big.NewInt(7),
		BlobFeeCap: big.NewInt(10),
		BlobHashes: []types.Hash{types.HexToHash("0x0100000000000000000000000000000000000000000000000000000000000001")},
		V:          big.NewInt(1),
		R:          big.NewInt(0x7777),
		S:          big.NewInt(0x8888),
	})
}

func TestTransactionEncodingMatchesGeth(t *testing.T) {
	txs := map[string]*types.Transaction{
		"legacy":     diffLegacyTx(0),
		"accessList": diffAccessListTx(1),
		"dynamicFee": diffDynamicFeeTx(2),
		"blob":       diffBlobTx(3),
	}
	for name, tx := range txs {
		t.Run(name, func(t *testing.T) {
			gtx, err := ToGethTransaction(tx)
			require.NoError(t, err)

			want, err := gtx.MarshalBinary()
			require.NoError(t, err)

			got, err := tx.EncodeRLP()
			require.NoError(t, err)
			require.Equal(t, want, got, "canonical encoding differs from go-ethereum")
			require.Equal(t, FromGethHash(gtx.Hash()), tx.Hash(), "transaction hash differs from go-ethereum")
		})
	}
}

func TestOrderedRootMatchesGethDeriveSha(t *testing.T) {
	var (
		ours  []*types.Transaction
		geths gethtypes.Transactions
	)
	// Enough transactions to cross the 0x80 key boundary handling.
	for i := uint64(0); i < 140; i++ {
		tx := diffLegacyTx(i)
		ours = append(ours, tx)
		gtx, err := ToGethTransaction(tx)
		require.NoError(t, err)
		geths = append(geths, gtx)
	}

	encoded := make([][]byte, len(ours))
	for i, tx := range ours {
		enc, err := tx.EncodeRLP()
		require.NoError(t, err)
		encoded[i] = enc
	}

	want := gethtypes.DeriveSha(geths, gethtrie.NewStackTrie(nil))
	require.Equal(t, FromGethHash(want), trie.OrderedRoot(encoded))
}

func TestWithdrawalsRootMatchesGethDeriveSha(t *testing.T) {
	var (
		ours  []*types.Withdrawal
		geths gethtypes.Withdrawals
	)
	for i := uint64(0); i < 16; i++ {
		w := &types.Withdrawal{
			Index:          i,
			ValidatorIndex: i * 3,
			Address:        types.BytesToAddress([]byte{byte(i + 1)}),
			Amount:         1_000_000 + i,
		}
		ours = append(ours, w)
		geths = append(geths, ToGethWithdrawal(w))
	}

	encoded := make([][]byte, len(ours))
	for i, w := range ours {
		enc, err := w.EncodeRLP()
		require.NoError(t, err)
		encoded[i] = enc
	}

	want := gethtypes.DeriveSha(geths, gethtrie.NewStackTrie(nil))
	require.Equal(t, FromGethHash(want), trie.OrderedRoot(encoded))
}

func TestHeaderHashMatchesGeth(t *testing.T) {
	withdrawalsRoot := types.EmptyRootHash
	blobGas := uint64(0)
	excess := uint64(0)
	beacon := types.HexToHash("0x0200000000000000000000000000000000000000000000000000000000000002")

	partial := &types.PartialHeader{
		ParentHash:       types.HexToHash("0x0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a0a"),
		Coinbase:         types.HexToAddress("0x5000000000000000000000000000000000000005"),
		Root:             types.HexToHash("0x0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b"),
		ReceiptHash:      types.EmptyRootHash,
		Difficulty:       big.NewInt(0),
		Number:           big.NewInt(19_000_000),
		GasLimit:         30_000_000,
		GasUsed:          12_345_678,
		Time:             1_700_000_000,
		Extra:            []byte("ethforge"),
		BaseFee:          big.NewInt(7_000_000_000),
		WithdrawalsRoot:  &withdrawalsRoot,
		BlobGasUsed:      &blobGas,
		ExcessBlobGas:    &excess,
		ParentBeaconRoot: &beacon,
	}
	header := partial.Finalize(types.EmptyUncleHash, types.EmptyRootHash)

	want := ToGethHeader(header).Hash()
	require.Equal(t, FromGethHash(want), header.Hash())
}

func TestAssembledBlockHeaderMatchesGeth(t *testing.T) {
	txs := []*types.Transaction{diffLegacyTx(0), diffDynamicFeeTx(1)}
	receipts := []*types.TransactionReceipt{
		{Status: types.ReceiptStatusSuccessful, CumulativeGasUsed: 21_000},
		{Status: types.ReceiptStatusSuccessful, CumulativeGasUsed: 1_021_000},
	}
	partial := &types.PartialHeader{
		ParentHash:  types.HexToHash("0x0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c0c"),
		Coinbase:    types.HexToAddress("0x6000000000000000000000000000000000000006"),
		Root:        types.EmptyRootHash,
		ReceiptHash: types.EmptyRootHash,
		Difficulty:  big.NewInt(0),
		Number:      big.NewInt(100),
		GasLimit:    30_000_000,
		GasUsed:     1_021_000,
		Time:        1_700_000_100,
		BaseFee:     big.NewInt(1_000_000_000),
	}

	block := core.NewLocalBlock(partial, txs, make([]types.Address, 2), receipts, nil, nil)

	var geths gethtypes.Transactions
	for _, tx := range txs {
		gtx, err := ToGethTransaction(tx)
		require.NoError(t, err)
		geths = append(geths, gtx)
	}
	wantRoot := gethtypes.DeriveSha(geths, gethtrie.NewStackTrie(nil))
	require.Equal(t, FromGethHash(wantRoot), block.Header().TxHash)

	want := ToGethHeader(block.Header()).Hash()
	require.Equal(t, FromGethHash(want), block.Hash())
}
