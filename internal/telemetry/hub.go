// Package telemetry streams gameplay events of live marble sessions to
// WebSocket subscribers as JSON.
package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/hidden-marble/internal/entity"
	"github.com/vovakirdan/hidden-marble/internal/world"
)

// Event types.
const (
	EventHit    = "hit"
	EventRoll   = "roll"
	EventStop   = "stop"
	EventSolved = "solved"
)

// sendBuffer is how many events a slow subscriber may lag behind before
// events are dropped for it.
const sendBuffer = 64

// Event is one gameplay event as sent on the wire.
type Event struct {
	Type       string    `json:"type"`
	Session    string    `json:"session"`
	Impulse    float64   `json:"impulse,omitempty"`
	LenSquared float64   `json:"lenSquared,omitempty"`
	Material   string    `json:"material,omitempty"`
	Time       time.Time `json:"time"`
}

type subscriber struct {
	id   string
	conn *websocket.Conn
	send chan Event
	done chan struct{}
}

// Hub fans events out to every connected subscriber. It is safe for
// concurrent use; publishing never blocks on the network.
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[string]*subscriber
	closed      bool
}

// NewHub creates an empty hub. A nil logger discards output.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		subscribers: make(map[string]*subscriber),
	}
}

// ServeHTTP upgrades the request and streams events until the client goes
// away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sub := &subscriber{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}
	if !h.add(sub) {
		//nolint:errcheck // Closing anyway
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	h.logger.Info("subscriber connected", "id", sub.id, "remote", r.RemoteAddr)

	go h.writeLoop(sub)

	// Subscribers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(sub)
	h.logger.Info("subscriber disconnected", "id", sub.id)
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subscribers[sub.id] = sub
	return true
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub.id]
	delete(h.subscribers, sub.id)
	h.mu.Unlock()
	if ok {
		close(sub.done)
	}
	sub.conn.Close()
}

func (h *Hub) writeLoop(sub *subscriber) {
	for {
		select {
		case <-sub.done:
			return
		case ev := <-sub.send:
			if err := sub.conn.WriteJSON(ev); err != nil {
				h.logger.Debug("write failed", "id", sub.id, "error", err)
				h.remove(sub)
				return
			}
		}
	}
}

// Publish queues ev for every subscriber. Subscribers whose buffer is full
// miss the event.
func (h *Hub) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subscribers {
		select {
		case sub.send <- ev:
		default:
			h.logger.Debug("event dropped", "id", sub.id, "type", ev.Type)
		}
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
	}
}

// Serve runs an HTTP server exposing the hub at /events until ctx is done.
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/events", h)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		h.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // Best-effort shutdown
		srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info("starting telemetry server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Listener returns a world listener publishing the events of one session.
func (h *Hub) Listener(session string) world.Listener {
	return &sessionListener{hub: h, session: session}
}

type sessionListener struct {
	hub     *Hub
	session string
}

func (l *sessionListener) MarbleHit(impulse float64, material entity.Material) {
	l.hub.Publish(Event{Type: EventHit, Session: l.session, Impulse: impulse, Material: material.String()})
}

func (l *sessionListener) MarbleRoll(lenSquared float64, material entity.Material) {
	l.hub.Publish(Event{Type: EventRoll, Session: l.session, LenSquared: lenSquared, Material: material.String()})
}

func (l *sessionListener) MarbleStop() {
	l.hub.Publish(Event{Type: EventStop, Session: l.session})
}

func (l *sessionListener) MazeSolved() {
	l.hub.Publish(Event{Type: EventSolved, Session: l.session})
}
