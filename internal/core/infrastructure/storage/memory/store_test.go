package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	memoryconfig "github.com/weisyn/mintgate/internal/config/storage/memory"
	"github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

// 测试日志实现，用于测试
type testLogger struct{}

func (l *testLogger) Debug(msg string)                          {}
func (l *testLogger) Debugf(format string, args ...interface{}) {}
func (l *testLogger) Info(msg string)                           {}
func (l *testLogger) Infof(format string, args ...interface{})  {}
func (l *testLogger) Warn(msg string)                           {}
func (l *testLogger) Warnf(format string, args ...interface{})  {}
func (l *testLogger) Error(msg string)                          {}
func (l *testLogger) Errorf(format string, args ...interface{}) {}
func (l *testLogger) With(args ...interface{}) log.Logger       { return l }
func (l *testLogger) Sync() error                               { return nil }
func (l *testLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// setupTestStore 创建测试存储
func setupTestStore(t *testing.T) (*Store, *clock.Mock) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	store, err := New(memoryconfig.New(nil).GetOptions(), &testLogger{}, mock)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*Store), mock
}

// TestBasicOperations 测试基本操作
func TestBasicOperations(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	key := "receipt:0xabc"
	value := []byte(`{"status":"0x1"}`)

	// 不存在的键
	_, exists, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Set(ctx, key, value, 0))

	got, exists, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, value, got)

	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// 删除不存在的键不报错
	assert.NoError(t, store.Delete(ctx, "missing"))
}

// TestTTLExpiration 测试过期
func TestTTLExpiration(t *testing.T) {
	store, mock := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ttl", []byte("v"), time.Minute))
	require.NoError(t, store.Set(ctx, "forever", []byte("v"), 0))

	mock.Add(59 * time.Second)
	exists, err := store.Exists(ctx, "ttl")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.Add(time.Second)
	exists, err = store.Exists(ctx, "ttl")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.Exists(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, exists)
}

// TestReturnedValueIsCopy 返回值修改不影响存储
func TestReturnedValueIsCopy(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("abc"), 0))
	got, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'x'

	again, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

// TestClosedStore 关闭后的操作
func TestClosedStore(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "重复关闭应幂等")

	_, _, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Set(ctx, "k", nil, 0), ErrStoreClosed)
}

// TestManyEntries 批量写入
func TestManyEntries(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), []byte(fmt.Sprint(i)), 0))
	}
	for i := 0; i < 100; i++ {
		v, ok, err := store.Get(ctx, fmt.Sprintf("k%d", i))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), string(v))
	}
}
