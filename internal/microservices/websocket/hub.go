package websocket

// Central hub managing all live connections.
// Each WebSocket connection runs in its own goroutines
// but they all communicate with the hub through channels.

import (
	"context"
	"log/slog"

	"lendinghub/internal/microservices/http-api/models"
	"lendinghub/internal/notifier"
)

type delivery struct {
	userID  string
	payload []byte
}

// Hub pushes hold notifications to the connected clients of each user.
// A user may be connected from several devices.
type Hub struct {
	clients    map[string]map[*Client]struct{} // userID -> connections
	Register   chan *Client
	Unregister chan *Client
	deliver    chan delivery
	done       chan struct{} // closed when Run returns
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		deliver:    make(chan delivery, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client map until ctx is done, then closes every connection
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					close(c.SendChannel)
				}
			}
			h.clients = make(map[string]map[*Client]struct{})
			return

		case c := <-h.Register:
			if h.clients[c.UserID] == nil {
				h.clients[c.UserID] = make(map[*Client]struct{})
			}
			h.clients[c.UserID][c] = struct{}{}
			h.logger.Debug("live client connected", "user_id", c.UserID, "client_id", c.ID)

		case c := <-h.Unregister:
			h.remove(c)

		case d := <-h.deliver:
			for c := range h.clients[d.userID] {
				select {
				case c.SendChannel <- d.payload:
				default:
					// slow reader, drop the connection
					h.logger.Warn("live client send buffer full", "user_id", c.UserID, "client_id", c.ID)
					h.remove(c)
				}
			}
		}
	}
}

// register hands c to Run, false once the hub has stopped
func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(c *Client) {
	conns, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.SendChannel)
	if len(conns) == 0 {
		delete(h.clients, c.UserID)
	}
	h.logger.Debug("live client disconnected", "user_id", c.UserID, "client_id", c.ID)
}

// DeliverEvent queues a hold-created event for the holding's user. Users with no open
// connection simply miss it; the in-app notification is their durable copy.
func (h *Hub) DeliverEvent(event notifier.HoldCreatedEvent) {
	payload, err := NewHoldCreatedMessage(event).ToJSON()
	if err != nil {
		return
	}
	select {
	case h.deliver <- delivery{userID: event.UserID, payload: payload}:
	default:
		h.logger.Warn("live feed backlog full, event dropped", "holding_id", event.HoldingID)
	}
}

// NotifyHoldCreated makes the hub a notification channel of its own, for deployments
// without redis
func (h *Hub) NotifyHoldCreated(ctx context.Context, holding *models.Holding) error {
	h.DeliverEvent(notifier.NewHoldCreatedEvent(holding))
	return nil
}
