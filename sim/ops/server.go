// Package ops exposes the operational HTTP endpoints: a liveness probe, a
// JSON status snapshot, and Prometheus metrics.
package ops

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vitalsim/vitalsim/sim"
)

// Server serves /healthz, /status and /metrics on its own listener, apart
// from any sink traffic.
type Server struct {
	ln     net.Listener
	srv    *http.Server
	status func() sim.Status
}

// NewServer binds the listener and wires the routes. status is called on
// every /status request, so it must be safe to call concurrently.
func NewServer(addr string, status func() sim.Status) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	s := &Server{ln: ln, status: status}

	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	s.srv = &http.Server{Handler: handlers.LoggingHandler(os.Stdout, router)}
	return s, nil
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Errorf("Ops server stopped: %v", err)
		}
	}()
	logrus.Infof("Ops server listening on %s", s.ln.Addr())
}

// Addr returns the listener's address, useful when bound to port 0.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		logrus.Errorf("Ops server: encode status: %v", err)
	}
}

// Close stops the server and its listener.
func (s *Server) Close() error {
	return s.srv.Close()
}
