package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	TypeTallyUpdate MessageType = "tally_update"
	TypeWelcome     MessageType = "welcome"
)

// Message is what feed subscribers receive.
type Message struct {
	Type      MessageType `json:"type"`
	ItemID    int64       `json:"item_id,omitempty"`
	Upvotes   int64       `json:"upvotes"`
	Downvotes int64       `json:"downvotes"`
	At        time.Time   `json:"at"`
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
