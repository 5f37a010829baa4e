package network

import (
	"context"
	"math/big"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	txconfig "github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/internal/core/gasprice"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/internal/core/infrastructure/retry"
	"github.com/weisyn/mintgate/internal/core/ledger/ledgertest"
	"github.com/weisyn/mintgate/internal/core/receipt"
	"github.com/weisyn/mintgate/pkg/types"
)

var account = common.HexToAddress("0xA000000000000000000000000000000000000001")

func newService(t *testing.T) (*Service, *ledgertest.Fake) {
	t.Helper()
	logger := logimpl.NewFromZap(zap.NewNop())
	fake := ledgertest.NewFake()
	registry := cache.NewRegistry(cacheconfig.New(nil), clock.NewMock())
	policy := gasprice.NewPolicy(fake, txconfig.New(nil), retry.Policy{Attempts: 1, ThrowOnExhaustion: true}, logger)
	return NewService(fake, policy, receipt.NewStore(fake, nil, logger), registry, logger), fake
}

// sendValue 签名并广播一笔转账
func sendValue(t *testing.T, fake *ledgertest.Fake, value int64) *gethtypes.Transaction {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	tx, err := gethtypes.SignTx(
		gethtypes.NewTx(&gethtypes.LegacyTx{To: &account, Value: big.NewInt(value), Gas: 21000, GasPrice: big.NewInt(1)}),
		gethtypes.LatestSignerForChainID(fake.ChainIDValue), key)
	require.NoError(t, err)
	require.NoError(t, fake.Send(context.Background(), tx))
	return tx
}

func TestGasPrice(t *testing.T) {
	s, fake := newService(t)
	fake.Price = big.NewInt(2_500_000_000)

	out := s.GasPrice(context.Background())
	require.Equal(t, types.CodeOK, out.Code)
	assert.Equal(t, "2500000000", out.Data.Price)
	assert.Equal(t, "2.5", out.Data.Gwei)
}

func TestTxReceipt(t *testing.T) {
	s, fake := newService(t)
	ctx := context.Background()
	tx := sendValue(t, fake, 777)

	out := s.TxReceipt(ctx, tx.Hash())
	require.Equal(t, types.CodeOK, out.Code)
	assert.Equal(t, "777", out.Data.Value)
	assert.Equal(t, gethtypes.ReceiptStatusSuccessful, out.Data.Status)

	missing := s.TxReceipt(ctx, common.HexToHash("0x01"))
	assert.Equal(t, types.CodeNotFound, missing.Code)
	assert.Nil(t, missing.Data)
}

func TestTx_CachesOnlyFound(t *testing.T) {
	s, fake := newService(t)
	ctx := context.Background()

	assert.Equal(t, types.CodeNotFound, s.Tx(ctx, common.HexToHash("0x02")).Code)

	tx := sendValue(t, fake, 1)
	out := s.Tx(ctx, tx.Hash())
	require.Equal(t, types.CodeOK, out.Code)
	assert.Equal(t, tx.Hash(), out.Data.Hash())

	// 命中缓存：账本中删除后仍返回相同结果
	delete(fake.Txs, tx.Hash())
	assert.Equal(t, out, s.Tx(ctx, tx.Hash()))
}

func TestBlock(t *testing.T) {
	s, fake := newService(t)
	ctx := context.Background()
	block := gethtypes.NewBlockWithHeader(&gethtypes.Header{
		Number:   big.NewInt(5),
		GasLimit: 30_000_000,
		GasUsed:  21_000,
		Time:     1_700_000_000,
		Coinbase: account,
	})
	fake.Blocks[block.Hash()] = block

	out := s.Block(ctx, block.Hash())
	require.Equal(t, types.CodeOK, out.Code)
	assert.Equal(t, uint64(5), out.Data.Number)
	assert.Equal(t, account.Hex(), out.Data.Miner)
	assert.Empty(t, out.Data.Transactions)

	assert.Equal(t, types.CodeNotFound, s.Block(ctx, common.HexToHash("0x03")).Code)
	assert.Equal(t, uint64(100), s.BlockNumber(ctx).Data.BlockNumber)
}

func TestBalance(t *testing.T) {
	s, fake := newService(t)
	ctx := context.Background()
	fake.Balances[account] = big.NewInt(1_500_000_000_000_000_000)

	out := s.Balance(ctx, account.Hex(), "")
	require.Equal(t, types.CodeOK, out.Code)
	assert.Equal(t, "1500000000000000000", out.Data.Balance)
	assert.Equal(t, "1.5", out.Data.Ether)

	assert.Equal(t, types.CodeError, s.Balance(ctx, "0xnothex", "").Code)
	assert.Equal(t, types.CodeNotFound, s.Balance(ctx, account.Hex(), common.HexToHash("0x04").Hex()).Code)
}

// 🎯 余额观察走 balanceObserver 缓存
func TestObserver_Cached(t *testing.T) {
	s, fake := newService(t)
	ctx := context.Background()
	fake.Balances[account] = big.NewInt(10)

	first := s.Observer(ctx, account.Hex())
	require.Equal(t, types.CodeOK, first.Code)
	assert.Equal(t, uint64(100), first.Data.BlockNumber)

	fake.Balances[account] = big.NewInt(20)
	assert.Equal(t, "10", s.Observer(ctx, account.Hex()).Data.Balance)
}

func TestVerifySignature(t *testing.T) {
	s, _ := newService(t)
	ctx := context.Background()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey).Hex()

	sig, err := crypto.Sign(accounts.TextHash([]byte("hello")), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	encoded := hexutil.Encode(sig)

	out := s.VerifySignature(ctx, signer, "hello", encoded)
	require.Equal(t, types.CodeOK, out.Code)
	assert.True(t, out.Data.Verified)

	assert.False(t, s.VerifySignature(ctx, signer, "other", encoded).Data.Verified)
	assert.False(t, s.VerifySignature(ctx, account.Hex(), "hello", encoded).Data.Verified)

	assert.Equal(t, types.CodeError, s.VerifySignature(ctx, signer, "hello", "0x1234").Code)
	assert.Equal(t, types.CodeError, s.VerifySignature(ctx, signer, "hello", "nothex").Code)
}

func TestVerifyAddress(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"0x9011E888251AB053B7bD1cdB598Db4f9DEd94714", true},
		{"0x9011e888251ab053b7bd1cdb598db4f9ded94714", true},
		{"0x9011E888251AB053B7BD1CDB598DB4F9DED94714", true},
		{"0x9011e888251AB053B7bD1cdB598Db4f9DEd94714", false},
		{"0x1234", false},
		{"", false},
	}

	s, _ := newService(t)
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyAddress(tt.address))
			out := s.VerifyAddress(context.Background(), tt.address)
			assert.Equal(t, types.CodeOK, out.Code)
			assert.Equal(t, tt.want, out.Data.Verified)
		})
	}
}

func TestWalletOutcomes(t *testing.T) {
	lightScrypt(t)
	s, _ := newService(t)
	ctx := context.Background()

	out := s.RetrieveJSONWalletFromMnemonic(ctx, "secret", testMnemonic, "")
	require.Equal(t, types.CodeOK, out.Code)

	bad := s.InspectJSONWallet(ctx, "wrong", out.Data.JSON)
	assert.Equal(t, types.CodeError, bad.Code)
	assert.Nil(t, bad.Data)
}
