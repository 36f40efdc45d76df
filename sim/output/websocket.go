package output

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vitalsim/vitalsim/sim"
	"github.com/vitalsim/vitalsim/sim/metrics"
)

const wsWriteTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The sink is a local telemetry feed, so any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WebSocketSink broadcasts every reading to all connected clients. A client
// whose write fails is dropped; the remaining clients keep receiving. With
// no clients connected readings are silently dropped.
type WebSocketSink struct {
	ln  net.Listener
	srv *http.Server

	mu      sync.Mutex
	clients map[string]*websocket.Conn
}

// NewWebSocketSink binds a listener on the given port and starts serving
// upgrade requests in the background. Any request path upgrades.
func NewWebSocketSink(port int) (*WebSocketSink, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}

	s := &WebSocketSink{
		ln:      ln,
		clients: make(map[string]*websocket.Conn),
	}
	s.srv = &http.Server{Handler: http.HandlerFunc(s.handleUpgrade)}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("WebSocket sink: server stopped: %v", err)
		}
	}()

	logrus.Infof("WebSocket server created on port: %d", port)
	return s, nil
}

// Name implements sim.Sink.
func (s *WebSocketSink) Name() string { return "websocket" }

// Addr returns the listener's address, useful when the sink was bound to
// port 0.
func (s *WebSocketSink) Addr() net.Addr { return s.ln.Addr() }

func (s *WebSocketSink) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("WebSocket sink: upgrade failed: %v", err)
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.clients[id] = conn
	n := len(s.clients)
	s.mu.Unlock()
	metrics.ConnectedClients.WithLabelValues(s.Name()).Set(float64(n))
	logrus.Infof("Client connected: %s", conn.RemoteAddr())

	// Inbound frames are ignored; the read loop only detects disconnects.
	go s.readLoop(id, conn)
}

func (s *WebSocketSink) readLoop(id string, conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.removeClient(id)
			return
		}
	}
}

func (s *WebSocketSink) removeClient(id string) {
	s.mu.Lock()
	conn, ok := s.clients[id]
	if ok {
		delete(s.clients, id)
	}
	n := len(s.clients)
	s.mu.Unlock()

	if !ok {
		return
	}
	_ = conn.Close()
	metrics.ConnectedClients.WithLabelValues(s.Name()).Set(float64(n))
	logrus.Infof("Client disconnected: %s", conn.RemoteAddr())
}

// Deliver sends one text frame per connected client. Per-client failures
// drop that client only and never fail the reading.
func (s *WebSocketSink) Deliver(r sim.Reading) error {
	payload := []byte(r.Wire())

	s.mu.Lock()
	var failed []string
	for id, conn := range s.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logrus.Warnf("WebSocket sink: dropping client %s: %v", conn.RemoteAddr(), err)
			failed = append(failed, id)
		}
	}
	for _, id := range failed {
		if conn, ok := s.clients[id]; ok {
			_ = conn.Close()
			delete(s.clients, id)
		}
	}
	n := len(s.clients)
	s.mu.Unlock()

	if len(failed) > 0 {
		metrics.ConnectedClients.WithLabelValues(s.Name()).Set(float64(n))
	}
	return nil
}

// Close disconnects all clients and stops the server.
func (s *WebSocketSink) Close() error {
	err := s.srv.Close()

	s.mu.Lock()
	for id, conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, id)
	}
	s.mu.Unlock()
	metrics.ConnectedClients.WithLabelValues(s.Name()).Set(0)
	return err
}
