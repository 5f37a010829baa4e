package event

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	logimpl "github.com/weisyn/mintgate/internal/core/infrastructure/log"
	"github.com/weisyn/mintgate/pkg/types"
)

func TestEventBus_SyncSubscribe(t *testing.T) {
	bus := New(logimpl.NewFromZap(zap.NewNop()))

	var received types.TxSubmittedEvent
	require.NoError(t, bus.Subscribe(types.EventTxSubmitted, func(e types.TxSubmittedEvent) {
		received = e
	}))
	assert.True(t, bus.HasCallback(types.EventTxSubmitted))
	assert.False(t, bus.HasCallback(types.EventMintDuplicate))

	bus.Publish(types.EventTxSubmitted, types.TxSubmittedEvent{Operation: "mint", TxHash: "0x01"})

	assert.Equal(t, "mint", received.Operation)
	assert.Equal(t, "0x01", received.TxHash)
	assert.Equal(t, uint64(1), bus.Published())
}

func TestEventBus_AsyncSubscribe(t *testing.T) {
	bus := New(nil)

	var count atomic.Int32
	var wg sync.WaitGroup
	wg.Add(3)
	require.NoError(t, bus.SubscribeAsync(types.EventBreakerTripped, func(e types.BreakerTrippedEvent) {
		count.Add(1)
		wg.Done()
	}, false))

	for i := 0; i < 3; i++ {
		bus.Publish(types.EventBreakerTripped, types.BreakerTrippedEvent{Operation: "deploy"})
	}
	bus.WaitAsync()
	wg.Wait()
	assert.Equal(t, int32(3), count.Load())
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := New(nil)
	calls := 0
	handler := func(e types.MintDuplicateEvent) { calls++ }

	require.NoError(t, bus.Subscribe(types.EventMintDuplicate, handler))
	bus.Publish(types.EventMintDuplicate, types.MintDuplicateEvent{})
	require.NoError(t, bus.Unsubscribe(types.EventMintDuplicate, handler))
	bus.Publish(types.EventMintDuplicate, types.MintDuplicateEvent{})

	assert.Equal(t, 1, calls)
}

func TestEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := New(logimpl.NewFromZap(zap.NewNop()))
	require.NoError(t, bus.Subscribe(types.EventTxSubmitted, func(e types.TxSubmittedEvent) {
		panic("handler failure")
	}))

	assert.NotPanics(t, func() {
		bus.Publish(types.EventTxSubmitted, types.TxSubmittedEvent{})
	})
}
