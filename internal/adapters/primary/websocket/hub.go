package websocket

import (
	"log/slog"
	"sync"

	"github.com/crewpulse/workload-backend/internal/core/domain"
	"github.com/crewpulse/workload-backend/internal/core/ports"
)

// Hub maintains the set of active dashboard clients and fans distribution
// alerts out to everyone watching the affected team.
type Hub struct {
	// clients maps caller identifiers to their active connections.
	// A single caller can hold multiple connections (multiple dashboards).
	clients map[string]map[*Client]bool

	// rooms maps team IDs to subscribed clients
	rooms map[string]map[*Client]bool

	// broadcast channel for distribution alerts
	broadcast chan domain.DistributionAlertEvent

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	logger *slog.Logger
}

// Ensure Hub implements the AlertBroadcaster interface.
var _ ports.AlertBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan domain.DistributionAlertEvent, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues a distribution alert for delivery to every client
// subscribed to the team. Never blocks the caller; a full channel drops
// the event with a warning.
func (h *Hub) Broadcast(event domain.DistributionAlertEvent) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping alert",
			"team_id", event.TeamID,
			"alert_count", len(event.Alerts),
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastAlert(event)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Caller] == nil {
		h.clients[client.Caller] = make(map[*Client]bool)
	}
	h.clients[client.Caller][client] = true

	h.logger.Info("client registered",
		"caller", client.Caller,
		"total_connections", len(h.clients[client.Caller]),
	)
}

// unregisterClient removes a client from the hub and all team rooms
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscriptions := client.GetSubscriptions()

	if callerClients, ok := h.clients[client.Caller]; ok {
		if _, exists := callerClients[client]; exists {
			delete(callerClients, client)
			if len(callerClients) == 0 {
				delete(h.clients, client.Caller)
			}
		}
	}

	for _, teamID := range subscriptions {
		if room, ok := h.rooms[teamID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, teamID)
			}
		}
	}

	client.CloseSend()

	h.logger.Info("client unregistered",
		"caller", client.Caller,
	)
}

// broadcastAlert sends an alert to all clients subscribed to the team
func (h *Hub) broadcastAlert(event domain.DistributionAlertEvent) {
	h.mu.RLock()
	room, ok := h.rooms[event.TeamID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(room))
	for client := range room {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting distribution alert",
		"team_id", event.TeamID,
		"client_count", len(clients),
	)

	for _, client := range clients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Client's send buffer is full, unregister them
			h.logger.Warn("client send buffer full, unregistering",
				"caller", client.Caller,
			)
			h.Unregister <- client
		}
	}
}

// subscribeClientToTeam adds a client to a team's room
func (h *Hub) subscribeClientToTeam(client *Client, teamID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[teamID] == nil {
		h.rooms[teamID] = make(map[*Client]bool)
	}
	h.rooms[teamID][client] = true
	client.AddSubscription(teamID)

	h.logger.Debug("client subscribed to team",
		"caller", client.Caller,
		"team_id", teamID,
	)
}

// unsubscribeClientFromTeam removes a client from a team's room
func (h *Hub) unsubscribeClientFromTeam(client *Client, teamID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[teamID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, teamID)
		}
	}
	client.RemoveSubscription(teamID)

	h.logger.Debug("client unsubscribed from team",
		"caller", client.Caller,
		"team_id", teamID,
	)
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, callerClients := range h.clients {
		count += len(callerClients)
	}
	return count
}

// GetRoomCount returns the number of teams with at least one watcher
func (h *Hub) GetRoomCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// GetClientsInRoom returns the number of clients watching a team
func (h *Hub) GetClientsInRoom(teamID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, ok := h.rooms[teamID]; ok {
		return len(room)
	}
	return 0
}
