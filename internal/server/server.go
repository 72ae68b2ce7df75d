// Package server exposes the websocket endpoint and the supporting HTTP
// surface (health, metrics, QR onboarding) over one listener.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/bankroll/internal/config"
	"github.com/mmynk/bankroll/internal/metrics"
	"github.com/mmynk/bankroll/internal/service"
)

// Server wires the command processor to the network.
type Server struct {
	svc      *service.Service
	cfg      config.Config
	upgrader websocket.Upgrader
}

// New builds the HTTP/websocket front end for the given command processor.
func New(svc *service.Service, cfg config.Config) *Server {
	return &Server{
		svc: svc,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients join from LAN addresses and QR-derived URLs, not a
			// fixed origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the full route table wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/join/qr", s.handleJoinQR)
	return loggingMiddleware(mux)
}

// handleWS upgrades the request and pumps inbound messages through the
// command processor until the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	sess := service.NewSession(newWSConn(conn))
	metrics.ConnectionsActive.Inc()
	slog.Info("connection opened", "conn_id", sess.ID, "remote_addr", r.RemoteAddr)

	defer func() {
		s.svc.Disconnect(sess)
		conn.Close()
		metrics.ConnectionsActive.Dec()
		slog.Info("connection closed", "conn_id", sess.ID)
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		s.svc.HandleMessage(sess, raw)
	}
}

// loggingMiddleware logs all incoming requests. Websocket requests are
// logged once on arrival; completion for those coincides with disconnect.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)

		next.ServeHTTP(w, r)

		slog.Debug("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
