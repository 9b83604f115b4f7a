package hub_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/shashiranjanraj/vastra/app/hub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordSink captures every event written to it. failAfter > 0 makes the
// sink start returning errors once that many events have been accepted.
type recordSink struct {
	mu        sync.Mutex
	events    []recordedEvent
	failAfter int
}

type recordedEvent struct {
	Event string
	Data  interface{}
}

func (s *recordSink) Send(event string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAfter > 0 && len(s.events) >= s.failAfter {
		return errors.New("sink closed")
	}
	s.events = append(s.events, recordedEvent{Event: event, Data: data})
	return nil
}

func (s *recordSink) Events() []recordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recordedEvent, len(s.events))
	copy(out, s.events)
	return out
}

func TestSubscribeHandshakePrecedesLiveEvents(t *testing.T) {
	h := hub.New(nil)
	sink := &recordSink{}

	snapshot := []string{"ORD-000001", "ORD-000002"}
	id, err := h.Subscribe(7, sink, snapshot)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	h.Publish(7, "order_update", "ORD-000001")

	events := sink.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "connected", events[0].Event)
	assert.Equal(t, "initial_data", events[1].Event)
	assert.Equal(t, snapshot, events[1].Data)
	assert.Equal(t, "order_update", events[2].Event)
}

func TestSubscribeFailedHandshakeDoesNotRegister(t *testing.T) {
	h := hub.New(nil)
	sink := &recordSink{failAfter: 1} // connected succeeds, snapshot fails

	_, err := h.Subscribe(7, sink, nil)
	require.Error(t, err)
	assert.Zero(t, h.Count())
}

func TestPublishIsScopedToOwner(t *testing.T) {
	h := hub.New(nil)
	alice := &recordSink{}
	bob := &recordSink{}

	_, err := h.Subscribe(1, alice, nil)
	require.NoError(t, err)
	_, err = h.Subscribe(2, bob, nil)
	require.NoError(t, err)

	h.Publish(1, "order_update", "ORD-000001")

	assert.Len(t, alice.Events(), 3) // handshake + update
	assert.Len(t, bob.Events(), 2)   // handshake only
}

func TestPublishFansOutToAllOwnerSubscriptions(t *testing.T) {
	h := hub.New(nil)
	phone := &recordSink{}
	laptop := &recordSink{}

	_, err := h.Subscribe(1, phone, nil)
	require.NoError(t, err)
	_, err = h.Subscribe(1, laptop, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, h.Count())

	h.Publish(1, "order_update", "ORD-000001")
	assert.Equal(t, "order_update", phone.Events()[2].Event)
	assert.Equal(t, "order_update", laptop.Events()[2].Event)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	h := hub.New(nil)
	sink := &recordSink{}

	id, err := h.Subscribe(1, sink, nil)
	require.NoError(t, err)
	require.Equal(t, 1, h.Count())

	h.Unsubscribe(id)
	assert.Zero(t, h.Count())
	h.Unsubscribe(id)
	h.Unsubscribe("never-existed")
	assert.Zero(t, h.Count())

	h.Publish(1, "order_update", "ORD-000001")
	assert.Len(t, sink.Events(), 2, "no delivery after unsubscribe")
}

func TestPublishPrunesFailedSinkOnly(t *testing.T) {
	h := hub.New(nil)
	dead := &recordSink{failAfter: 2} // dies after the handshake
	live := &recordSink{}

	_, err := h.Subscribe(1, dead, nil)
	require.NoError(t, err)
	_, err = h.Subscribe(1, live, nil)
	require.NoError(t, err)

	h.Publish(1, "order_update", "ORD-000001")
	assert.Equal(t, 1, h.Count())

	h.Publish(1, "order_update", "ORD-000002")
	events := live.Events()
	require.Len(t, events, 4)
	assert.Equal(t, "ORD-000002", events[3].Data)
	assert.Len(t, dead.Events(), 2, "pruned sink sees nothing new")
}

func TestHeartbeatPingsEverySubscription(t *testing.T) {
	h := hub.New(nil) // nil pool sends inline, keeping the test deterministic
	a := &recordSink{}
	b := &recordSink{}

	_, err := h.Subscribe(1, a, nil)
	require.NoError(t, err)
	_, err = h.Subscribe(2, b, nil)
	require.NoError(t, err)

	h.Heartbeat()

	for _, sink := range []*recordSink{a, b} {
		events := sink.Events()
		require.Len(t, events, 3)
		assert.Equal(t, "ping", events[2].Event)
	}
}

func TestHeartbeatPrunesDeadSubscription(t *testing.T) {
	h := hub.New(nil)
	dead := &recordSink{failAfter: 2}

	_, err := h.Subscribe(1, dead, nil)
	require.NoError(t, err)

	h.Heartbeat()
	assert.Zero(t, h.Count())
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	h := hub.New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(u uint) {
			defer wg.Done()
			sink := &recordSink{}
			if _, err := h.Subscribe(u, sink, nil); err != nil {
				t.Error(err)
			}
		}(uint(i))
		go func(u uint) {
			defer wg.Done()
			h.Publish(u, "order_update", "ORD-000001")
		}(uint(i))
	}
	wg.Wait()

	assert.Equal(t, 10, h.Count())
}
