package metrics

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cacheconfig "github.com/weisyn/mintgate/internal/config/cache"
	"github.com/weisyn/mintgate/internal/core/infrastructure/cache"
	"github.com/weisyn/mintgate/internal/core/infrastructure/event"
	"github.com/weisyn/mintgate/pkg/types"
)

func newTestMetrics() *Metrics {
	return New(prometheus.NewRegistry())
}

func TestObserveOutcome(t *testing.T) {
	m := newTestMetrics()
	m.ObserveOutcome("mint", types.CodeOK)
	m.ObserveOutcome("mint", types.CodeOK)
	m.ObserveOutcome("mint", types.CodeThreshold)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("mint", "OK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Outcomes.WithLabelValues("mint", "THRESHOLD")))
}

func TestObserveGasPrice(t *testing.T) {
	m := newTestMetrics()
	m.ObserveGasPrice(big.NewInt(1_500_000_000))
	assert.InDelta(t, 1.5, testutil.ToFloat64(m.GasPriceGwei), 1e-9)

	m.ObserveGasPrice(nil)
	assert.InDelta(t, 1.5, testutil.ToFloat64(m.GasPriceGwei), 1e-9)
}

func TestWire_CacheObserver(t *testing.T) {
	m := newTestMetrics()
	registry := cache.NewRegistry(cacheconfig.New(nil), nil)
	require.NoError(t, Wire(WireInput{Metrics: m, Registry: registry}))

	_, _ = registry.Get(cacheconfig.NameOwnerOfNFT, "k")
	registry.Set(cacheconfig.NameOwnerOfNFT, "k", "v")
	_, _ = registry.Get(cacheconfig.NameOwnerOfNFT, "k")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(cacheconfig.NameOwnerOfNFT, "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheRequests.WithLabelValues(cacheconfig.NameOwnerOfNFT, "miss")))
}

func TestWire_EventSubscribers(t *testing.T) {
	m := newTestMetrics()
	bus := event.New(nil)
	require.NoError(t, Wire(WireInput{Metrics: m, EventBus: bus}))

	bus.Publish(types.EventTxSubmitted, types.TxSubmittedEvent{Operation: "mintTo"})
	bus.Publish(types.EventBreakerTripped, types.BreakerTrippedEvent{Operation: "deploy"})
	bus.Publish(types.EventMintDuplicate, types.MintDuplicateEvent{InFlight: true})
	bus.Publish(types.EventMintDuplicate, types.MintDuplicateEvent{})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TxSubmitted.WithLabelValues("mintTo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BreakerTrips.WithLabelValues("deploy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MintDuplicates.WithLabelValues("inflight")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MintDuplicates.WithLabelValues("onchain")))
}
