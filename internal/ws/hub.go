package ws

import (
	"encoding/json"
	"sync"

	"wikiboard/internal/logger"
)

// Hub fans board change events out to the clients watching each board.
// Delivery is best-effort: a client whose send buffer is full misses the
// event and catches up on its next full fetch.
type Hub struct {
	mu     sync.RWMutex
	boards map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{boards: make(map[int64]map[*Client]struct{})}
}

func (h *Hub) Subscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.boards[c.BoardID]
	if !ok {
		clients = make(map[*Client]struct{})
		h.boards[c.BoardID] = clients
	}
	clients[c] = struct{}{}
}

func (h *Hub) Unsubscribe(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.boards[c.BoardID]
	if !ok {
		return
	}
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.boards, c.BoardID)
	}
}

// Broadcast pushes the event to every client watching its board.
func (h *Hub) Broadcast(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error("failed to marshal board event", "error", err, "type", ev.Type)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.boards[ev.BoardID] {
		select {
		case c.Send <- payload:
		default:
			// slow client, skip
		}
	}
}

// Watchers returns how many clients are subscribed to the board.
func (h *Hub) Watchers(boardID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boards[boardID])
}
