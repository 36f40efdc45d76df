package output

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vitalsim/vitalsim/sim"
	"github.com/vitalsim/vitalsim/sim/metrics"
)

// tcpWriteTimeout bounds a single client write so a stalled consumer cannot
// stall the worker pool.
const tcpWriteTimeout = 2 * time.Second

// TCPSink streams readings to at most one connected client at a time.
// Until a client connects, readings are silently dropped (not queued).
// When a write fails the client is dropped and the sink returns to
// accepting, so a reconnecting consumer resumes the stream.
type TCPSink struct {
	ln net.Listener

	mu   sync.Mutex
	conn net.Conn

	// slotFree wakes the accept loop after the live client is dropped.
	slotFree chan struct{}
	done     chan struct{}
}

// NewTCPSink binds a listener on the given port and starts accepting in the
// background. A bind failure is returned to the caller; per the startup
// contract an explicitly requested listener that cannot bind is fatal.
func NewTCPSink(port int) (*TCPSink, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}

	t := &TCPSink{
		ln:       ln,
		slotFree: make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	go t.acceptLoop()

	logrus.Infof("TCP server started on port %d", port)
	return t, nil
}

// Name implements sim.Sink.
func (t *TCPSink) Name() string { return "tcp" }

// Addr returns the listener's address, useful when the sink was bound to
// port 0.
func (t *TCPSink) Addr() net.Addr { return t.ln.Addr() }

// acceptLoop serves one client at a time: accept, then wait until that
// client is dropped before accepting again. Extra connection attempts queue
// in the listener backlog meanwhile.
func (t *TCPSink) acceptLoop() {
	for {
		conn, err := t.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			logrus.Warnf("TCP sink: accept failed: %v", err)
			continue
		}

		t.mu.Lock()
		t.conn = conn
		t.mu.Unlock()
		metrics.ConnectedClients.WithLabelValues(t.Name()).Set(1)
		logrus.Infof("Client connected: %s", conn.RemoteAddr())

		select {
		case <-t.slotFree:
		case <-t.done:
			return
		}
	}
}

// Deliver writes one newline-terminated wire line to the connected client.
// With no client connected it returns nil and drops the reading.
func (t *TCPSink) Deliver(r sim.Reading) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.conn == nil {
		return nil
	}

	_ = t.conn.SetWriteDeadline(time.Now().Add(tcpWriteTimeout))
	if _, err := fmt.Fprintf(t.conn, "%s\n", r.Wire()); err != nil {
		t.dropClientLocked()
		return fmt.Errorf("write to client: %w", err)
	}
	return nil
}

// dropClientLocked closes the live client and frees the accept slot.
// Caller must hold t.mu.
func (t *TCPSink) dropClientLocked() {
	if t.conn == nil {
		return
	}
	addr := t.conn.RemoteAddr()
	_ = t.conn.Close()
	t.conn = nil
	metrics.ConnectedClients.WithLabelValues(t.Name()).Set(0)
	logrus.Warnf("Client dropped: %s, accepting again", addr)

	select {
	case t.slotFree <- struct{}{}:
	default:
	}
}

// Close stops accepting and disconnects the live client, if any.
func (t *TCPSink) Close() error {
	close(t.done)
	err := t.ln.Close()

	t.mu.Lock()
	t.dropClientLocked()
	t.mu.Unlock()
	return err
}
