package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fastPolicy(attempts uint, throw bool) Policy {
	return Policy{
		Attempts:          attempts,
		MinInterval:       time.Millisecond,
		MaxInterval:       2 * time.Millisecond,
		ThrowOnExhaustion: throw,
	}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retried []uint
	policy := fastPolicy(3, true)
	policy.OnRetry = func(attempt uint, err error) {
		retried = append(retried, attempt)
	}

	v, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errBoom
		}
		return 42, nil
	}, policy, -1)

	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []uint{1, 2}, retried)
}

func TestDo_ExhaustionThrows(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), func(context.Context) (string, error) {
		calls++
		return "", errBoom
	}, fastPolicy(2, true), "fallback")

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, "fallback", v)
	assert.Equal(t, 2, calls)
}

func TestDo_ExhaustionReturnsFallback(t *testing.T) {
	v, err := Do(context.Background(), func(context.Context) (string, error) {
		return "", errBoom
	}, fastPolicy(2, false), "fallback")

	assert.NoError(t, err)
	assert.Equal(t, "fallback", v)
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, errBoom
	}, fastPolicy(0, true), 0)

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), func(context.Context) (int, error) {
		calls++
		return 0, Permanent(errBoom)
	}, fastPolicy(5, true), 0)

	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := Policy{Attempts: 5, MinInterval: time.Second, MaxInterval: time.Second, ThrowOnExhaustion: false}

	calls := 0
	_, err := Do(ctx, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errBoom
	}, policy, 0)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestJitter_Bounds(t *testing.T) {
	for i := 0; i < 200; i++ {
		d := Jitter(10*time.Millisecond, 20*time.Millisecond)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.LessOrEqual(t, d, 20*time.Millisecond)
	}
	// 反向区间自动交换
	d := Jitter(20*time.Millisecond, 10*time.Millisecond)
	assert.GreaterOrEqual(t, d, 10*time.Millisecond)
	assert.LessOrEqual(t, d, 20*time.Millisecond)

	assert.Equal(t, 5*time.Millisecond, Jitter(5*time.Millisecond, 5*time.Millisecond))
}
