package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gorilla/websocket"
)

// FeedMessage mirrors the server's tally feed frames.
type FeedMessage struct {
	Type      string    `json:"type"`
	ItemID    int64     `json:"item_id,omitempty"`
	Upvotes   int64     `json:"upvotes"`
	Downvotes int64     `json:"downvotes"`
	At        time.Time `json:"at"`
}

// FeedURL turns the API base URL into the websocket feed URL.
func FeedURL(apiURL string) (string, error) {
	u, err := url.Parse(strings.TrimRight(apiURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid API URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path += "/ws"
	return u.String(), nil
}

// FollowFeed streams tally updates to handle until ctx is cancelled or the server closes.
func FollowFeed(ctx context.Context, apiURL string, handle func(FeedMessage)) error {
	wsURL, err := FeedURL(apiURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return &NetworkError{Op: "connect feed", Err: err}
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return nil
			}
			return &NetworkError{Op: "read feed", Err: err}
		}
		var msg FeedMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return &DecodeError{Op: "read feed", Err: err}
		}
		handle(msg)
	}
}

func PrintFeedMessage(msg FeedMessage) {
	switch msg.Type {
	case "welcome":
		color.Yellow("🔔 connected to live tallies")
	case "tally_update":
		color.Cyan("[%s] item %d  ▲ %d  ▼ %d", msg.At.Local().Format("15:04:05"), msg.ItemID, msg.Upvotes, msg.Downvotes)
	default:
		color.HiBlack("unknown message type %q", msg.Type)
	}
}
