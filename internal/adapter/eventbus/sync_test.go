package eventbus

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/beatscope/internal/domain"
	"github.com/tejashwikalptaru/beatscope/internal/logger"
)

func TestNewSyncEventBus(t *testing.T) {
	bus := NewSyncEventBus()

	require.NotNil(t, bus)
	assert.Equal(t, 0, bus.SubscriberCount())
	assert.False(t, bus.HasSubscribers(domain.EventBeatStarted))
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var received []domain.Event
	subID := bus.Subscribe(domain.EventBeatStarted, func(event domain.Event) {
		received = append(received, event)
	})
	require.NotEmpty(t, subID)

	beat := domain.BeatState{IsBeat: true, Intensity: 1.3, Energy: 30}
	bus.Publish(domain.NewBeatStartedEvent(42, beat))
	bus.Publish(domain.NewBeatEndedEvent(43))

	require.Len(t, received, 1)
	started, ok := received[0].(domain.BeatStartedEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(42), started.Frame)
	assert.InDelta(t, 1.3, started.Intensity, 1e-9)
	assert.False(t, started.Timestamp().IsZero())
}

func TestDeliveryOrder(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var order []string
	bus.SubscribeAll(func(domain.Event) { order = append(order, "all") })
	bus.Subscribe(domain.EventSilence, func(domain.Event) { order = append(order, "first") })
	bus.Subscribe(domain.EventSilence, func(domain.Event) { order = append(order, "second") })

	bus.Publish(domain.NewSilenceEvent(1))

	assert.Equal(t, []string{"first", "second", "all"}, order)
}

func TestUnsubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var calls atomic.Int32
	first := bus.Subscribe(domain.EventSilence, func(domain.Event) { calls.Add(1) })
	bus.Subscribe(domain.EventSilence, func(domain.Event) { calls.Add(10) })
	all := bus.SubscribeAll(func(domain.Event) { calls.Add(100) })

	bus.Unsubscribe(first)
	bus.Unsubscribe(all)
	bus.Unsubscribe("sub-does-not-exist")
	bus.Publish(domain.NewSilenceEvent(1))

	assert.Equal(t, int32(10), calls.Load())
	assert.Equal(t, 1, bus.SubscriberCount())
}

func TestHasSubscribersWildcard(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	assert.False(t, bus.HasSubscribers(domain.EventThemeChanged))
	bus.SubscribeAll(func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventThemeChanged))
	assert.True(t, bus.HasSubscribers(domain.EventFrameSkipped))
}

func TestPanickingHandlerIsRecovered(t *testing.T) {
	bus := NewSyncEventBus()
	bus.SetLogger(logger.NewTestLogger())
	defer bus.Close()

	var reached bool
	bus.Subscribe(domain.EventThemeChanged, func(domain.Event) { panic("boom") })
	bus.Subscribe(domain.EventThemeChanged, func(domain.Event) { reached = true })

	assert.NotPanics(t, func() {
		bus.Publish(domain.NewThemeChangedEvent(domain.ThemeLight))
	})
	assert.True(t, reached)
	assert.Equal(t, uint64(1), bus.Delivered())
}

func TestPublishNilEvent(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	bus.SubscribeAll(func(domain.Event) { t.Fatal("nil event must not be delivered") })
	bus.Publish(nil)
}

func TestClose(t *testing.T) {
	bus := NewSyncEventBus()

	var calls int
	bus.Subscribe(domain.EventLoopStopped, func(domain.Event) { calls++ })

	require.NoError(t, bus.Close())
	assert.True(t, errors.Is(bus.Close(), ErrClosed))

	bus.Publish(domain.NewLoopStoppedEvent(10))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, bus.SubscriberCount())

	assert.Panics(t, func() {
		bus.Subscribe(domain.EventLoopStopped, func(domain.Event) {})
	})
}

func TestSubscribeNilHandlerPanics(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	assert.Panics(t, func() { bus.Subscribe(domain.EventBeatStarted, nil) })
	assert.Panics(t, func() { bus.SubscribeAll(nil) })
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	bus := NewSyncEventBus()
	defer bus.Close()

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Subscribe(domain.EventBeatEnded, func(domain.Event) { calls.Add(1) })
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(domain.NewBeatEndedEvent(uint64(j)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, bus.SubscriberCount())
	assert.Equal(t, uint64(calls.Load()), bus.Delivered())
}
