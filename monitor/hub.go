package monitor

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smilemakc/jobtree/logging"
)

// hub manages connected WebSocket clients and fans ExecutionEvents out
// to the ones subscribed to the relevant workflow, following the
// teacher's register/unregister/broadcast channel loop.
type hub struct {
	clients    map[*wsClient]bool
	broadcast  chan ExecutionEvent
	register   chan *wsClient
	unregister chan *wsClient
	logger     *logging.Logger
	mu         sync.RWMutex
}

func newHub(logger *logging.Logger) *hub {
	h := &hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan ExecutionEvent, 256),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		logger:     logger,
	}
	go h.run()
	return h
}

func (h *hub) run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				if h.logger != nil {
					h.logger.Error("monitor: marshal execution event failed", "error", err)
				}
				continue
			}
			h.mu.RLock()
			for c := range h.clients {
				if c.workflowID != "" && c.workflowID != event.WorkflowID {
					continue
				}
				select {
				case c.send <- data:
				default:
					close(c.send)
					delete(h.clients, c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish implements Publisher.
func (h *hub) Publish(event ExecutionEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	h.broadcast <- event
}

func (h *hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// wsClient is one connected WebSocket subscriber, optionally scoped to
// a single workflow execution.
type wsClient struct {
	conn       *websocket.Conn
	send       chan []byte
	workflowID string
}

func newWSClient(conn *websocket.Conn, workflowID string) *wsClient {
	return &wsClient{conn: conn, send: make(chan []byte, 64), workflowID: workflowID}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains (and discards) client frames purely to detect
// disconnects and respond to pongs; the monitor feed is one-directional.
func (h *hub) readPump(c *wsClient) {
	defer func() {
		h.unregister <- c
		_ = c.conn.Close()
	}()
	_ = c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
