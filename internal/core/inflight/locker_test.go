package inflight

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Mock redisClient ====================

type mockRedisClient struct {
	mu      sync.Mutex
	data    map[string]interface{}
	ttls    map[string]time.Duration
	failOn  string
	deleted []string
	closed  bool
}

func newMockRedisClient() *mockRedisClient {
	return &mockRedisClient{
		data: make(map[string]interface{}),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockRedisClient) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.failOn {
		return false, errors.New("connection reset")
	}
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	m.ttls[key] = expiration
	return true, nil
}

func (m *mockRedisClient) Del(_ context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			n++
		}
		m.deleted = append(m.deleted, key)
	}
	return n, nil
}

func (m *mockRedisClient) Ping(context.Context) error { return nil }

func (m *mockRedisClient) Close() error {
	m.closed = true
	return nil
}

// ==================== Tests ====================

var testContract = common.HexToAddress("0x00000000000000000000000000000000000000c1")

func TestKeys(t *testing.T) {
	keys := Keys(testContract, []string{"x", "y"})
	assert.Equal(t, []string{testContract.Hex() + ",x", testContract.Hex() + ",y"}, keys)
}

func TestMemoryLocker_AllOrNothing(t *testing.T) {
	mock := clock.NewMock()
	locker := NewMemoryLocker(mock)
	ctx := context.Background()

	ok, err := locker.Acquire(ctx, []string{"a"}, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	// b 空闲但 a 被占用：整体失败，b 不被持有
	ok, err = locker.Acquire(ctx, []string{"b", "a"}, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, locker.Held())

	ok, err = locker.Acquire(ctx, []string{"b"}, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLocker_ExpiresOnClock(t *testing.T) {
	mock := clock.NewMock()
	locker := NewMemoryLocker(mock)
	ctx := context.Background()

	ok, _ := locker.Acquire(ctx, []string{"a"}, 2*time.Minute)
	require.True(t, ok)

	mock.Add(2*time.Minute - time.Millisecond)
	ok, _ = locker.Acquire(ctx, []string{"a"}, 2*time.Minute)
	assert.False(t, ok)

	mock.Add(time.Millisecond)
	ok, _ = locker.Acquire(ctx, []string{"a"}, 2*time.Minute)
	assert.True(t, ok)
}

func TestMemoryLocker_Release(t *testing.T) {
	locker := NewMemoryLocker(clock.NewMock())
	ctx := context.Background()

	ok, _ := locker.Acquire(ctx, []string{"a", "b"}, time.Minute)
	require.True(t, ok)
	require.NoError(t, locker.Release(ctx, []string{"a", "b", "missing"}))
	assert.Equal(t, 0, locker.Held())
}

func TestMemoryLocker_ConcurrentSingleWinner(t *testing.T) {
	locker := NewMemoryLocker(clock.NewMock())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := locker.Acquire(context.Background(), []string{"same"}, time.Minute)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, winners)
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	client := newMockRedisClient()
	locker := newRedisLocker(client, "mintgate:inflight:")
	ctx := context.Background()

	ok, err := locker.Acquire(ctx, []string{"a", "b"}, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, locker.owner, client.data["mintgate:inflight:a"])
	assert.Equal(t, time.Minute, client.ttls["mintgate:inflight:b"])

	require.NoError(t, locker.Release(ctx, []string{"a", "b"}))
	assert.Empty(t, client.data)
}

// 📋 部分获取失败时回滚
func TestRedisLocker_RollsBackPartialAcquire(t *testing.T) {
	client := newMockRedisClient()
	client.data["p:b"] = "other-process"
	locker := newRedisLocker(client, "p:")

	ok, err := locker.Acquire(context.Background(), []string{"a", "b"}, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	_, heldA := client.data["p:a"]
	assert.False(t, heldA)
	assert.Equal(t, "other-process", client.data["p:b"])
}

func TestRedisLocker_ErrorRollsBack(t *testing.T) {
	client := newMockRedisClient()
	client.failOn = "p:b"
	locker := newRedisLocker(client, "p:")

	ok, err := locker.Acquire(context.Background(), []string{"a", "b"}, time.Minute)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Empty(t, client.data)

	require.NoError(t, locker.Close())
	assert.True(t, client.closed)
}
