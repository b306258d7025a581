package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodfinder/internal/microservices/http-api/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startFeed(t *testing.T) (*Hub, string) {
	t.Helper()
	hub, url, _ := startStoppableFeed(t)
	return hub, url
}

func startStoppableFeed(t *testing.T) (*Hub, string, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(nil)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/ws", NewHandler(hub, nil).ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws", cancel
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount(context.Background()) == n
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFeed_BroadcastsTallyUpdates(t *testing.T) {
	hub, url := startFeed(t)

	a, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer a.Close()
	b, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, TypeWelcome, readMessage(t, a).Type)
	assert.Equal(t, TypeWelcome, readMessage(t, b).Type)
	waitForClients(t, hub, 2)

	hub.PublishTally(models.RatingTally{ItemID: 42, Upvotes: 5, Downvotes: 2})

	for _, conn := range []*websocket.Conn{a, b} {
		msg := readMessage(t, conn)
		assert.Equal(t, TypeTallyUpdate, msg.Type)
		assert.Equal(t, int64(42), msg.ItemID)
		assert.Equal(t, int64(5), msg.Upvotes)
		assert.Equal(t, int64(2), msg.Downvotes)
	}
}

func TestFeed_UnregistersOnDisconnect(t *testing.T) {
	hub, url := startFeed(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	readMessage(t, conn)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestHub_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	done := make(chan struct{})
	go func() {
		// no Run goroutine; the buffered channel absorbs then drops
		for i := 0; i < 1000; i++ {
			hub.PublishTally(models.RatingTally{ItemID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("PublishTally blocked")
	}
}

func waitStopped(t *testing.T, hub *Hub) {
	t.Helper()
	select {
	case <-hub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestFeed_StopClosesSubscribers(t *testing.T) {
	hub, url, stop := startStoppableFeed(t)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	readMessage(t, conn)
	waitForClients(t, hub, 1)

	stop()
	waitStopped(t, hub)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived),
		"expected close frame, got %v", err)
}

func TestFeed_DialAfterStopIsClosed(t *testing.T) {
	hub, url, stop := startStoppableFeed(t)
	stop()
	waitStopped(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "expected going away, got %v", err)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	cancel()
	waitStopped(t, hub)

	done := make(chan struct{})
	go func() {
		c := &Client{ID: "late", SendChannel: make(chan []byte, 1), Hub: hub}
		assert.False(t, hub.join(c))
		hub.leave(c)
		assert.Equal(t, 0, hub.ClientCount(context.Background()))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stopped hub blocked a caller")
	}
}
