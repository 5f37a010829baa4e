package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/pkg/types"
)

func newTestRegistry(entries map[string]types.UserCacheEntryConfig) (*Registry, *clock.Mock) {
	mock := clock.NewMock()
	cfg := cacheconfig.New(&types.UserCacheConfig{Entries: entries})
	return NewRegistry(cfg, mock), mock
}

// TestTTLBoundary 3000ms 的缓存：2999ms 命中，3001ms 未命中
func TestTTLBoundary(t *testing.T) {
	r, mock := newTestRegistry(map[string]types.UserCacheEntryConfig{
		"c": {TTLMs: types.Int64Ptr(3000), Capacity: types.IntPtr(10)},
	})

	r.Set("c", "k", "v")

	mock.Add(2999 * time.Millisecond)
	v, ok := r.Get("c", "k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	mock.Add(2 * time.Millisecond)
	_, ok = r.Get("c", "k")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Len("c"), "过期条目应被删除")
}

// TestTTLExactBoundaryIsExpired 恰好到达 ttl 时视为过期
func TestTTLExactBoundaryIsExpired(t *testing.T) {
	r, mock := newTestRegistry(map[string]types.UserCacheEntryConfig{
		"c": {TTLMs: types.Int64Ptr(1000)},
	})
	r.Set("c", "k", 1)
	mock.Add(time.Second)
	_, ok := r.Get("c", "k")
	assert.False(t, ok)
}

// TestZeroTTLNeverExpires 代理解析缓存永不过期
func TestZeroTTLNeverExpires(t *testing.T) {
	r, mock := newTestRegistry(nil)
	r.Set(cacheconfig.NameProxyResolution, "0xabc", true)
	mock.Add(365 * 24 * time.Hour)
	v, ok := r.Get(cacheconfig.NameProxyResolution, "0xabc")
	require.True(t, ok)
	assert.Equal(t, true, v)
}

// TestLRUEviction 容量满后淘汰最久未使用的条目
func TestLRUEviction(t *testing.T) {
	r, _ := newTestRegistry(map[string]types.UserCacheEntryConfig{
		"small": {TTLMs: types.Int64Ptr(0), Capacity: types.IntPtr(2)},
	})

	r.Set("small", "a", 1)
	r.Set("small", "b", 2)
	_, _ = r.Get("small", "a") // a 变为最近使用
	r.Set("small", "c", 3)

	_, ok := r.Get("small", "b")
	assert.False(t, ok, "b 应被淘汰")
	_, ok = r.Get("small", "a")
	assert.True(t, ok)
	_, ok = r.Get("small", "c")
	assert.True(t, ok)
}

// TestCachesAreIsolated 不同名称互不影响
func TestCachesAreIsolated(t *testing.T) {
	r, _ := newTestRegistry(nil)
	r.Set(cacheconfig.NameOwnerOfNFT, "k", "owner")
	_, ok := r.Get(cacheconfig.NameTxResponse, "k")
	assert.False(t, ok)

	r.Delete(cacheconfig.NameOwnerOfNFT, "k")
	_, ok = r.Get(cacheconfig.NameOwnerOfNFT, "k")
	assert.False(t, ok)
}

func TestGetTyped_WrongTypeIsMiss(t *testing.T) {
	r, _ := newTestRegistry(nil)
	r.Set("c", "k", 7)
	_, ok := GetTyped[string](r, "c", "k")
	assert.False(t, ok)
	n, ok := GetTyped[int](r, "c", "k")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
}

func TestGetOrLoad(t *testing.T) {
	r, _ := newTestRegistry(nil)
	ctx := context.Background()
	loads := 0
	loader := func(context.Context) (string, error) {
		loads++
		return fmt.Sprintf("v%d", loads), nil
	}

	v, err := GetOrLoad(ctx, r, "c", "k", loader, nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	v, err = GetOrLoad(ctx, r, "c", "k", loader, nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", v, "第二次应命中缓存")
	assert.Equal(t, 1, loads)

	t.Run("loader 出错不缓存", func(t *testing.T) {
		_, err := GetOrLoad(ctx, r, "c", "err", func(context.Context) (string, error) {
			return "", errors.New("rpc down")
		}, nil)
		assert.Error(t, err)
		_, ok := r.Get("c", "err")
		assert.False(t, ok)
	})

	t.Run("keep 拒绝时不缓存", func(t *testing.T) {
		_, err := GetOrLoad(ctx, r, "c", "skip", loader, func(s string) bool { return false })
		require.NoError(t, err)
		_, ok := r.Get("c", "skip")
		assert.False(t, ok)
	})
}

func TestObserver(t *testing.T) {
	r, _ := newTestRegistry(nil)
	var hits, misses int
	r.SetObserver(func(cache string, hit bool) {
		assert.Equal(t, "c", cache)
		if hit {
			hits++
		} else {
			misses++
		}
	})

	_, _ = r.Get("c", "k")
	r.Set("c", "k", 1)
	_, _ = r.Get("c", "k")
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestCombinationKey(t *testing.T) {
	assert.Equal(t, "a,b,c", CombinationKey("a", "b", "c"))
	assert.NotEqual(t, CombinationKey("a", "b"), CombinationKey("b", "a"), "顺序有意义")
	assert.Equal(t, "", CombinationKey())
}

func TestConcurrentAccess(t *testing.T) {
	r, _ := newTestRegistry(nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := CombinationKey("k", fmt.Sprint(j%5))
				r.Set(cacheconfig.NameTxResponse, key, i)
				_, _ = r.Get(cacheconfig.NameTxResponse, key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, r.Len(cacheconfig.NameTxResponse), 5)
}
