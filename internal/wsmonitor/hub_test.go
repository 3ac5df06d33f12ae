package wsmonitor

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/rwortham/instinct/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func mockClient(id string) *Client {
	return &Client{
		id:   id,
		subs: make(map[uint16]bool),
		send: make(chan *Event, sendBufferSize),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(testLogger())
	assert.NotNil(t, hub.clients)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubRegisterAndUnregisterClient(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	c := mockClient("client-1")
	hub.register <- c
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, 1, hub.ClientCount())

	hub.unregister <- c
	time.Sleep(10 * time.Millisecond)
	require.Equal(t, 0, hub.ClientCount())
}

func TestHubBroadcastsToWholePlanSubscriber(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	c := mockClient("client-1")
	hub.register <- c
	time.Sleep(10 * time.Millisecond)
	hub.Subscribe(c, 0)

	action := &domain.Action{Header: domain.Header{ElementID: 7}}
	hub.OnSuccess(action)

	select {
	case ev := <-c.send:
		require.Equal(t, EventSuccess, ev.Type)
		require.EqualValues(t, 7, ev.ElementID)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestHubBroadcastRespectsElementSubscription(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	subscribed := mockClient("subscribed")
	unsubscribed := mockClient("unsubscribed")
	hub.register <- subscribed
	hub.register <- unsubscribed
	time.Sleep(10 * time.Millisecond)
	hub.Subscribe(subscribed, 7)

	action := &domain.Action{Header: domain.Header{ElementID: 7}}
	hub.OnFail(action)

	select {
	case ev := <-subscribed.send:
		require.Equal(t, EventFail, ev.Type)
	case <-time.After(time.Second):
		t.Fatal("subscribed client never received event")
	}

	select {
	case <-unsubscribed.send:
		t.Fatal("unsubscribed client should not have received event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubOnSenseBroadcastsToAllSubscribers(t *testing.T) {
	hub := NewHub(testLogger())
	go hub.Run()

	c := mockClient("client-1")
	hub.register <- c
	time.Sleep(10 * time.Millisecond)
	hub.Subscribe(c, 0)

	hub.OnSense(domain.Releaser{SenseID: 3}, 99)

	select {
	case ev := <-c.send:
		require.Equal(t, EventSense, ev.Type)
		require.EqualValues(t, 3, ev.SenseID)
		require.EqualValues(t, 99, ev.SenseValue)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sense event")
	}
}
