package ws

import (
	"encoding/json"
	"time"

	"teamchat/internal/events"
	"teamchat/internal/logger"

	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client actions
const (
	ActionSubscribe   = "subscribe"
	ActionUnsubscribe = "unsubscribe"
	ActionPing        = "ping"
)

// Replies sent back to the client itself.
const (
	ReplySubscribed   = "subscribed"
	ReplyUnsubscribed = "unsubscribed"
	ReplyRevoked      = "revoked"
	ReplyPong         = "pong"
	ReplyError        = "error"
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type roomRequest struct {
	Room string `json:"room"`
}

// RoomAuthorizer decides whether a user may subscribe to a room and reports
// the workspace the room belongs to.
type RoomAuthorizer interface {
	AuthorizeRoom(db *gorm.DB, userID, room string) (workspaceID string, err error)
}

type Client struct {
	ID     string
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	Manager    *WebSocketManager
	authorizer RoomAuthorizer
	db         *gorm.DB

	// rooms maps each subscribed room to its workspace. Guarded by Manager.mu.
	rooms map[string]string
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.drop(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.HubLog("read error", c.UserID, "client_id", c.ID, "error", err)
			}
			return
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			c.reply(ReplyError, "", map[string]string{"message": "invalid message format"})
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.HubLog("write error", c.UserID, "client_id", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {
	case ActionSubscribe:
		room, ok := c.parseRoom(msg.Data)
		if !ok {
			return
		}
		workspaceID, err := c.authorizer.AuthorizeRoom(c.db, c.UserID, room)
		if err != nil {
			logger.HubLog("subscribe denied", c.UserID, "room", room, "error", err)
			c.reply(ReplyError, room, map[string]string{"message": "access denied"})
			return
		}
		c.Manager.Subscribe(c, room, workspaceID)
		c.reply(ReplySubscribed, room, nil)

	case ActionUnsubscribe:
		room, ok := c.parseRoom(msg.Data)
		if !ok {
			return
		}
		c.Manager.Unsubscribe(c, room)
		c.reply(ReplyUnsubscribed, room, nil)

	case ActionPing:
		c.reply(ReplyPong, "", nil)

	default:
		c.reply(ReplyError, "", map[string]string{"message": "unknown action: " + msg.Action})
	}
}

func (c *Client) parseRoom(data json.RawMessage) (string, bool) {
	var req roomRequest
	if err := json.Unmarshal(data, &req); err != nil {
		c.reply(ReplyError, "", map[string]string{"message": "invalid room payload"})
		return "", false
	}
	if _, _, err := events.ParseRoom(req.Room); err != nil {
		c.reply(ReplyError, req.Room, map[string]string{"message": err.Error()})
		return "", false
	}
	return req.Room, true
}

// reply writes directly to this client's queue. A full queue drops the reply.
func (c *Client) reply(eventType, room string, payload interface{}) {
	data, err := json.Marshal(events.Event{Type: eventType, Room: room, Payload: payload})
	if err != nil {
		return
	}

	c.Manager.mu.RLock()
	defer c.Manager.mu.RUnlock()
	if _, ok := c.Manager.clients[c.ID]; !ok {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}
