package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Event is one realtime push.
type Event struct {
	Type    string          `json:"type"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// Room names accepted by Subscribe.
func ChannelRoom(id string) string      { return "channel:" + id }
func ConversationRoom(id string) string { return "conversation:" + id }
func ThreadRoom(id string) string       { return "thread:" + id }
func WorkspaceRoom(id string) string    { return "workspace:" + id }

// EventRevoked is pushed for each room the server drops after the user lost access.
const EventRevoked = "revoked"

// Subscribe opens the realtime socket, joins rooms and calls handle for every event
// until ctx is cancelled or the connection drops. Subscription errors from the
// server are delivered to handle as events of type "error".
func (c *Client) Subscribe(ctx context.Context, rooms []string, handle func(Event)) error {
	wsURL, err := c.socketURL()
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial realtime: %w", err)
	}
	defer conn.Close()

	for _, room := range rooms {
		msg := map[string]interface{}{
			"action": "subscribe",
			"data":   map[string]string{"room": room},
		}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", room, err)
		}
	}

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var evt Event
		if err := conn.ReadJSON(&evt); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read realtime: %w", err)
		}
		handle(evt)
	}
}

func (c *Client) socketURL() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"token": {c.Token()}}.Encode()
	return u.String(), nil
}
