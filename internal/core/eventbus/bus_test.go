package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct{ Value int }

type otherEvent struct{}

func receive(t *testing.T, sub *Subscription) interface{} {
	t.Helper()
	select {
	case evt, ok := <-sub.Out():
		require.True(t, ok, "subscription closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
		return nil
	}
}

// TestBus_SubscribeEmit 测试按类型投递
func TestBus_SubscribeEmit(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	other, err := bus.Subscribe(new(otherEvent))
	require.NoError(t, err)

	require.NoError(t, bus.Emit(testEvent{Value: 7}))
	assert.Equal(t, testEvent{Value: 7}, receive(t, sub))

	select {
	case evt := <-other.Out():
		t.Fatalf("unexpected event %v", evt)
	default:
	}
}

// TestBus_MultipleSubscribers 测试多个订阅者都收到事件
func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	defer bus.Close()

	subs := make([]*Subscription, 3)
	for i := range subs {
		var err error
		subs[i], err = bus.Subscribe(new(testEvent))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, bus.SubscriberCount(new(testEvent)))

	require.NoError(t, bus.Emit(testEvent{Value: 1}))
	for _, sub := range subs {
		assert.Equal(t, testEvent{Value: 1}, receive(t, sub))
	}
}

// TestBus_InvalidType 测试非法事件类型
func TestBus_InvalidType(t *testing.T) {
	bus := New()
	defer bus.Close()

	_, err := bus.Subscribe(nil)
	assert.ErrorIs(t, err, ErrInvalidEventType)
	_, err = bus.Subscribe(testEvent{})
	assert.ErrorIs(t, err, ErrNonPointerType)
	assert.ErrorIs(t, bus.Emit(nil), ErrInvalidEventType)
}

// TestBus_SlowSubscriber 测试缓冲区满时丢弃而不阻塞
func TestBus_SlowSubscriber(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub, err := bus.Subscribe(new(testEvent), BufSize(2))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Emit(testEvent{Value: i}))
	}
	assert.Equal(t, testEvent{Value: 0}, receive(t, sub))
	assert.Equal(t, testEvent{Value: 1}, receive(t, sub))
	select {
	case evt := <-sub.Out():
		t.Fatalf("unexpected event %v", evt)
	default:
	}
}

// TestSubscription_Close 测试取消订阅
func TestSubscription_Close(t *testing.T) {
	bus := New()
	defer bus.Close()

	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.Out()
	assert.False(t, ok)
	assert.Equal(t, 0, bus.SubscriberCount(new(testEvent)))
	assert.NoError(t, bus.Emit(testEvent{}))
}

// TestBus_Close 测试关闭总线
func TestBus_Close(t *testing.T) {
	bus := New()
	sub, err := bus.Subscribe(new(testEvent))
	require.NoError(t, err)

	require.NoError(t, bus.Close())
	require.NoError(t, bus.Close())

	_, ok := <-sub.Out()
	assert.False(t, ok)
	assert.NoError(t, sub.Close())

	_, err = bus.Subscribe(new(testEvent))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, bus.Emit(testEvent{}), ErrClosed)
}

// TestBus_Concurrent 测试并发订阅、发布和取消
func TestBus_Concurrent(t *testing.T) {
	bus := New()
	defer bus.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = bus.Emit(testEvent{Value: j})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				sub, err := bus.Subscribe(new(testEvent), BufSize(1))
				if err != nil {
					return
				}
				_ = sub.Close()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, bus.SubscriberCount(new(testEvent)))
}
