package ws

import (
	"context"
	"encoding/json"
	"sync"

	"teamchat/internal/events"
	"teamchat/internal/logger"
	"teamchat/internal/metrics"
)

// WebSocketManager tracks connected clients and their room subscriptions.
// It implements events.Publisher so services can push changes to subscribers.
type WebSocketManager struct {
	clients    map[string]*Client
	rooms      map[string]map[*Client]struct{}
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[string]*Client),
		rooms:      make(map[string]map[*Client]struct{}),
		unregister: make(chan *Client, 64),
		done:       make(chan struct{}),
	}
}

// Run processes disconnects until ctx is cancelled, then closes every client.
func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case client := <-manager.unregister:
			manager.remove(client)

		case <-ctx.Done():
			close(manager.done)
			manager.mu.Lock()
			for _, client := range manager.clients {
				close(client.Send)
			}
			metrics.WSConnections.Sub(float64(len(manager.clients)))
			manager.clients = make(map[string]*Client)
			manager.rooms = make(map[string]map[*Client]struct{})
			manager.mu.Unlock()
			return
		}
	}
}

// add registers client. It reports false once the hub has stopped.
func (manager *WebSocketManager) add(client *Client) bool {
	manager.mu.Lock()
	select {
	case <-manager.done:
		manager.mu.Unlock()
		return false
	default:
	}
	manager.clients[client.ID] = client
	total := len(manager.clients)
	manager.mu.Unlock()

	metrics.WSConnections.Inc()
	logger.HubLog("client registered", client.UserID, "client_id", client.ID, "total", total)
	return true
}

func (manager *WebSocketManager) drop(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.done:
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.clients[client.ID]; !ok {
		return
	}
	for room := range client.rooms {
		if subs, ok := manager.rooms[room]; ok {
			delete(subs, client)
			if len(subs) == 0 {
				delete(manager.rooms, room)
			}
		}
	}
	client.rooms = nil
	close(client.Send)
	delete(manager.clients, client.ID)
	metrics.WSConnections.Dec()
	logger.HubLog("client unregistered", client.UserID, "client_id", client.ID, "total", len(manager.clients))
}

// Subscribe adds client to room, which belongs to workspaceID. Authorization
// happens before this call.
func (manager *WebSocketManager) Subscribe(client *Client, room, workspaceID string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	if _, ok := manager.clients[client.ID]; !ok {
		return
	}
	subs, ok := manager.rooms[room]
	if !ok {
		subs = make(map[*Client]struct{})
		manager.rooms[room] = subs
	}
	subs[client] = struct{}{}
	if client.rooms == nil {
		client.rooms = make(map[string]string)
	}
	client.rooms[room] = workspaceID
}

func (manager *WebSocketManager) Unsubscribe(client *Client, room string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.unsubscribeLocked(client, room)
}

func (manager *WebSocketManager) unsubscribeLocked(client *Client, room string) {
	if subs, ok := manager.rooms[room]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(manager.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// RevokeUser drops every subscription userID holds in rooms of workspaceID.
func (manager *WebSocketManager) RevokeUser(userID, workspaceID string) {
	manager.revoke(workspaceID, func(client *Client) bool { return client.UserID == userID })
}

// RevokeWorkspace drops every subscription to rooms of workspaceID.
func (manager *WebSocketManager) RevokeWorkspace(workspaceID string) {
	manager.revoke(workspaceID, func(*Client) bool { return true })
}

func (manager *WebSocketManager) revoke(workspaceID string, match func(*Client) bool) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	for _, client := range manager.clients {
		if !match(client) {
			continue
		}
		for room, roomWorkspace := range client.rooms {
			if roomWorkspace != workspaceID {
				continue
			}
			manager.unsubscribeLocked(client, room)
			if data, err := json.Marshal(events.Event{Type: ReplyRevoked, Room: room}); err == nil {
				select {
				case client.Send <- data:
				default:
				}
			}
			logger.HubLog("subscription revoked", client.UserID, "client_id", client.ID, "room", room)
		}
	}
}

// Publish sends an event to every subscriber of room. Clients whose send
// buffer is full are disconnected.
func (manager *WebSocketManager) Publish(room, eventType string, payload interface{}) {
	data, err := json.Marshal(events.Event{Type: eventType, Room: room, Payload: payload})
	if err != nil {
		logger.Error("Failed to encode realtime event", "type", eventType, "room", room, "error", err)
		return
	}
	metrics.WSEvents.WithLabelValues(eventType).Inc()

	manager.mu.RLock()
	defer manager.mu.RUnlock()

	for client := range manager.rooms[room] {
		select {
		case client.Send <- data:
		default:
			logger.HubLog("send buffer full, disconnecting", client.UserID, "client_id", client.ID)
			go manager.drop(client)
		}
	}
}

// GetClientCount returns the number of connected clients.
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}

// SubscriberCount returns the number of clients subscribed to room.
func (manager *WebSocketManager) SubscriberCount(room string) int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.rooms[room])
}
