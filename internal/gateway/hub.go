package gateway

import (
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/duelforge/duel-server-go/internal/battle"
)

const clientSendBuffer = 16

// wsClient is one websocket subscriber to a match. Each client is pinned to a
// viewer side and only ever receives views sanitized for that side.
type wsClient struct {
	conn    *websocket.Conn
	send    chan []byte
	matchID string
	viewer  battle.Side
}

// hub tracks websocket subscribers per match.
type hub struct {
	mu      sync.RWMutex
	clients map[string]map[*wsClient]bool
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		clients: make(map[string]map[*wsClient]bool),
		log:     log,
	}
}

func (h *hub) add(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.matchID] == nil {
		h.clients[c.matchID] = make(map[*wsClient]bool)
	}
	h.clients[c.matchID][c] = true
	h.log.Debug("ws client subscribed",
		zap.String("match_id", c.matchID),
		zap.String("viewer", string(c.viewer)),
	)
}

func (h *hub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.clients[c.matchID]; ok {
		if subs[c] {
			delete(subs, c)
			close(c.send)
		}
		if len(subs) == 0 {
			delete(h.clients, c.matchID)
		}
	}
}

// subscribers snapshots the clients for a match.
func (h *hub) subscribers(matchID string) []*wsClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subs := make([]*wsClient, 0, len(h.clients[matchID]))
	for c := range h.clients[matchID] {
		subs = append(subs, c)
	}
	return subs
}

// push queues a payload for one client. A client that cannot keep up is
// dropped rather than allowed to stall the hub.
func (h *hub) push(c *wsClient, payload []byte) {
	select {
	case c.send <- payload:
	default:
		h.log.Warn("ws client too slow, dropping",
			zap.String("match_id", c.matchID),
			zap.String("viewer", string(c.viewer)),
		)
		h.remove(c)
		c.conn.Close()
	}
}

// writePump drains the send channel onto the socket.
func (c *wsClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the socket is push-only. It exists to
// detect the close handshake and free the client.
func (c *wsClient) readPump(h *hub) {
	defer func() {
		h.remove(c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
