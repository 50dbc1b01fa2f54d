package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// TaskEvent is pushed to subscribers when a verification task reaches a
// terminal state.
type TaskEvent struct {
	TaskID     string `json:"task_id"`
	DocumentID string `json:"document_id"`
	DocType    string `json:"document_type"`
	State      string `json:"state"`
	Status     string `json:"status,omitempty"`
	Feedback   string `json:"feedback,omitempty"`
}

// taskHub fans task events out to WebSocket subscribers.
type taskHub struct {
	mu          sync.Mutex
	subscribers map[chan TaskEvent]struct{}
}

func newTaskHub() *taskHub {
	return &taskHub{subscribers: make(map[chan TaskEvent]struct{})}
}

func (h *taskHub) subscribe() chan TaskEvent {
	ch := make(chan TaskEvent, 16)
	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *taskHub) unsubscribe(ch chan TaskEvent) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
}

// broadcast never blocks a worker; slow subscribers lose events.
func (h *taskHub) broadcast(ev TaskEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// tasksWebSocketHandler streams task completion events to the client.
func (s *Server) tasksWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	events := s.hub.subscribe()
	defer s.hub.unsubscribe(events)

	// Reader goroutine keeps pong handling alive and surfaces the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					slog.Error("WebSocket error", "error", err)
				}
				return
			}
			websocketMessagesTotal.WithLabelValues("received").Inc()
		}
	}()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev := <-events:
			data, err := json.Marshal(ev)
			if err != nil {
				slog.Error("Failed to marshal task event", "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				slog.Error("Failed to send WebSocket message", "error", err)
				return
			}
			websocketMessagesTotal.WithLabelValues("sent").Inc()
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}
