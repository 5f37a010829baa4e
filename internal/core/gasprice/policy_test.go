package gasprice

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	txconfig "github.com/weisyn/mintgate/internal/config/tx"
	"github.com/weisyn/mintgate/internal/core/infrastructure/retry"
	"github.com/weisyn/mintgate/pkg/types"
)

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

// priceLedger 只实现 GasPrice 的账本桩
type priceLedger struct {
	prices []*big.Int
	errs   []error
	calls  int
}

func (l *priceLedger) GasPrice(ctx context.Context) (*big.Int, error) {
	i := l.calls
	l.calls++
	if i < len(l.errs) && l.errs[i] != nil {
		return nil, l.errs[i]
	}
	return l.prices[len(l.prices)-1], nil
}

func (l *priceLedger) ChainID(context.Context) (*big.Int, error) { return big.NewInt(1), nil }
func (l *priceLedger) BlockNumber(context.Context) (uint64, error) { return 0, nil }
func (l *priceLedger) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 0, nil
}
func (l *priceLedger) PendingNonce(context.Context, common.Address) (uint64, error) { return 0, nil }
func (l *priceLedger) Send(context.Context, *gethtypes.Transaction) error          { return nil }
func (l *priceLedger) Receipt(context.Context, common.Hash) (*gethtypes.Receipt, error) {
	return nil, nil
}
func (l *priceLedger) StorageAt(context.Context, common.Address, common.Hash) ([]byte, error) {
	return nil, nil
}
func (l *priceLedger) Call(context.Context, ethereum.CallMsg) ([]byte, error) { return nil, nil }
func (l *priceLedger) TransactionByHash(context.Context, common.Hash) (*gethtypes.Transaction, bool, error) {
	return nil, false, nil
}
func (l *priceLedger) BlockByHash(context.Context, common.Hash) (*gethtypes.Block, error) {
	return nil, nil
}
func (l *priceLedger) BalanceAt(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return nil, nil
}
func (l *priceLedger) Close() {}

func newPolicy(l *priceLedger, user *types.UserTxConfig) *Policy {
	return NewPolicy(l, txconfig.New(user), retry.Policy{
		Attempts: 3, MinInterval: time.Millisecond, MaxInterval: time.Millisecond, ThrowOnExhaustion: true,
	}, nil)
}

func TestCircuitBreaker_InclusiveBoundary(t *testing.T) {
	threshold := gwei(40)
	assert.True(t, CircuitBreaker(gwei(40), threshold), "等于阈值应熔断")
	assert.True(t, CircuitBreaker(gwei(50), threshold))
	assert.False(t, CircuitBreaker(new(big.Int).Sub(gwei(40), big.NewInt(1)), threshold))
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name        string
		base        *big.Int
		coefficient uint64
		want        *big.Int
		wantC       uint64
	}{
		{"系数 100", gwei(10), 100, gwei(10), 100},
		{"系数 150", gwei(10), 150, gwei(15), 150},
		{"系数低于 100 按 100 处理", gwei(10), 50, gwei(10), 100},
		{"系数为 0 按 100 处理", gwei(10), 0, gwei(10), 100},
		{"向下取整", big.NewInt(3), 150, big.NewInt(4), 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Quote(tt.base, tt.coefficient)
			assert.Equal(t, tt.want.String(), q.Computed.String())
			assert.Equal(t, tt.wantC, q.CoefficientPercent)
			assert.GreaterOrEqual(t, q.Computed.Cmp(q.Base), 0)
		})
	}
}

func TestComputeGasQuote_UsesConfigAndOverride(t *testing.T) {
	l := &priceLedger{prices: []*big.Int{gwei(20)}}
	p := newPolicy(l, &types.UserTxConfig{GasPriceC: types.Uint64Ptr(120), GasPriceThresholdGwei: types.StringPtr("100")})

	q, err := p.ComputeGasQuote(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, gwei(24).String(), q.Computed.String())

	override := uint64(200)
	q, err = p.ComputeGasQuote(context.Background(), &override)
	require.NoError(t, err)
	assert.Equal(t, gwei(40).String(), q.Computed.String())
}

func TestNetworkPrice_RetriesAndObserves(t *testing.T) {
	l := &priceLedger{prices: []*big.Int{gwei(7)}, errs: []error{errors.New("timeout"), errors.New("timeout")}}
	p := newPolicy(l, nil)

	var observed *big.Int
	p.SetObserver(func(wei *big.Int) { observed = wei })

	price, err := p.NetworkPrice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gwei(7).String(), price.String())
	assert.Equal(t, 3, l.calls)
	assert.Equal(t, gwei(7).String(), observed.String())
}

func TestNetworkPrice_Exhausted(t *testing.T) {
	boom := errors.New("down")
	l := &priceLedger{prices: []*big.Int{gwei(7)}, errs: []error{boom, boom, boom}}
	p := newPolicy(l, nil)

	_, err := p.NetworkPrice(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestTripped_HotReload(t *testing.T) {
	l := &priceLedger{prices: []*big.Int{gwei(1)}}
	cfg := txconfig.New(&types.UserTxConfig{GasPriceThresholdGwei: types.StringPtr("40")})
	p := NewPolicy(l, cfg, retry.Policy{Attempts: 1}, nil)

	tripped, threshold, err := p.Tripped(gwei(50))
	require.NoError(t, err)
	assert.True(t, tripped)
	assert.Equal(t, gwei(40).String(), threshold.String())

	require.NoError(t, cfg.SetThresholdGwei("60"))
	tripped, _, err = p.Tripped(gwei(50))
	require.NoError(t, err)
	assert.False(t, tripped)
}

func TestTripped_FractionalThreshold(t *testing.T) {
	cfg := txconfig.New(&types.UserTxConfig{GasPriceThresholdGwei: types.StringPtr("0.5")})
	p := NewPolicy(&priceLedger{}, cfg, retry.Policy{}, nil)

	tripped, _, err := p.Tripped(big.NewInt(500_000_000))
	require.NoError(t, err)
	assert.True(t, tripped)
	tripped, _, err = p.Tripped(big.NewInt(499_999_999))
	require.NoError(t, err)
	assert.False(t, tripped)
}

func TestScaleGasLimit(t *testing.T) {
	assert.Equal(t, uint64(120), ScaleGasLimit(100, 120))
	assert.Equal(t, uint64(25200), ScaleGasLimit(21000, 120))
	assert.Equal(t, uint64(1), ScaleGasLimit(1, 150), "向下取整")
}

func TestFormatGwei(t *testing.T) {
	assert.Equal(t, "1.5", FormatGwei(big.NewInt(1_500_000_000)))
	assert.Equal(t, "0", FormatGwei(nil))
}
