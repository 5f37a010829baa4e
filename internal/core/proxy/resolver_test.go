package proxy

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/mintgate/internal/core/contract"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	"github.com/weisyn/mintgate/internal/core/ledger/ledgertest"
)

var (
	proxyAddr = common.HexToAddress("0x1000000000000000000000000000000000000001")
	plainAddr = common.HexToAddress("0x2000000000000000000000000000000000000002")
	logicAddr = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func newResolver(t *testing.T) (*Resolver, *ledgertest.Fake) {
	t.Helper()
	fake := ledgertest.NewFake()
	fake.SetStorage(proxyAddr, ImplementationSlot, common.LeftPadBytes(logicAddr.Bytes(), 32))
	return NewResolver(fake, cache.NewRegistry(nil, clock.NewMock()), nil), fake
}

// 🎯 同一地址重复查询只读取一次存储槽
func TestIsProxyContract_Idempotent(t *testing.T) {
	resolver, fake := newResolver(t)
	ctx := context.Background()

	first, err := resolver.IsProxyContract(ctx, proxyAddr)
	require.NoError(t, err)
	second, err := resolver.IsProxyContract(ctx, proxyAddr)
	require.NoError(t, err)

	assert.True(t, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fake.StorageCalls)
}

func TestIsProxyContract_ZeroSlot(t *testing.T) {
	resolver, _ := newResolver(t)

	isProxy, err := resolver.IsProxyContract(context.Background(), plainAddr)
	require.NoError(t, err)
	assert.False(t, isProxy)
}

func TestIsProxyContract_ConcurrentFirstLookup(t *testing.T) {
	resolver, fake := newResolver(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isProxy, err := resolver.IsProxyContract(context.Background(), proxyAddr)
			assert.NoError(t, err)
			assert.True(t, isProxy)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fake.StorageCalls)
}

// 🎯 首个调用方取消不影响合并到同一次读取的其他调用方
func TestIsProxyContract_FirstCallerCancelled(t *testing.T) {
	resolver, fake := newResolver(t)
	gate := make(chan struct{})
	fake.StorageGate = gate

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := resolver.IsProxyContract(ctxA, proxyAddr)
		errA <- err
	}()
	require.Eventually(t, func() bool { return fake.StorageCallCount() == 1 }, time.Second, time.Millisecond)

	// A 放弃等待，共享读取仍在进行
	cancelA()
	require.ErrorIs(t, <-errA, context.Canceled)

	type lookup struct {
		isProxy bool
		err     error
	}
	resB := make(chan lookup, 1)
	go func() {
		isProxy, err := resolver.IsProxyContract(context.Background(), proxyAddr)
		resB <- lookup{isProxy, err}
	}()

	close(gate)
	select {
	case res := <-resB:
		require.NoError(t, res.err)
		assert.True(t, res.isProxy)
	case <-time.After(time.Second):
		t.Fatal("第二个调用方未返回")
	}
	assert.Equal(t, 1, fake.StorageCallCount())
}

func TestImplementation(t *testing.T) {
	resolver, _ := newResolver(t)

	impl, err := resolver.Implementation(context.Background(), proxyAddr)
	require.NoError(t, err)
	assert.Equal(t, logicAddr, impl)
}

func TestBinding(t *testing.T) {
	resolver, _ := newResolver(t)
	ctx := context.Background()

	b, err := resolver.Binding(ctx, proxyAddr)
	require.NoError(t, err)
	assert.Equal(t, contract.NameUpgradeable, b.Name)

	b, err = resolver.Binding(ctx, plainAddr)
	require.NoError(t, err)
	assert.Equal(t, contract.NameImmutable, b.Name)
}
