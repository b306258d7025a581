package websocket

// Hub owns the set of feed subscribers. Register, unregister and broadcast all go through
// channels so only the Run goroutine touches the client map.

import (
	"context"
	"log/slog"
	"time"

	"foodfinder/internal/microservices/http-api/models"
)

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	count      chan chan int
	done       chan struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run processes hub events until ctx is cancelled, then closes every client. Run must be
// called once; after it returns, registrations fail fast instead of blocking.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("tally_feed_started")
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.SendChannel)
				delete(h.clients, c)
			}
			h.logger.Info("tally_feed_stopped")
			return

		case c := <-h.register:
			h.clients[c] = true
			h.logger.Debug("feed_client_joined", "client_id", c.ID, "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.SendChannel)
				h.logger.Debug("feed_client_left", "client_id", c.ID, "clients", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.SendChannel <- msg:
				default:
					// slow consumer
					delete(h.clients, c)
					close(c.SendChannel)
					h.logger.Warn("feed_client_dropped", "client_id", c.ID)
				}
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

// PublishTally queues a tally update for every subscriber. It never blocks the caller;
// when the broadcast buffer is full the update is dropped.
func (h *Hub) PublishTally(t models.RatingTally) {
	msg := &Message{
		Type:      TypeTallyUpdate,
		ItemID:    t.ItemID,
		Upvotes:   t.Upvotes,
		Downvotes: t.Downvotes,
		At:        time.Now().UTC(),
	}
	data, err := msg.ToJSON()
	if err != nil {
		h.logger.Error("feed_marshal_failed", "error", err)
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("feed_broadcast_full", "item_id", t.ItemID)
	}
}

// ClientCount asks the Run goroutine for the number of subscribers.
func (h *Hub) ClientCount(ctx context.Context) int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	case <-ctx.Done():
		return 0
	}
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// join hands c to the Run goroutine. It reports false when the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave removes c from the hub. A stopped hub has already closed every client.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
