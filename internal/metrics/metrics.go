// Package metrics registers the server's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CommandsTotal counts processed client commands by type, malformed
	// messages included under type "malformed".
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankroll_commands_total",
		Help: "Client commands processed, by command type.",
	}, []string{"type"})

	// RoomsActive tracks the number of registered rooms.
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bankroll_rooms_active",
		Help: "Rooms currently registered.",
	})

	// ConnectionsActive tracks open websocket connections, bound or not.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bankroll_connections_active",
		Help: "Websocket connections currently open.",
	})

	// RoomsReapedTotal counts rooms deleted by the reaper.
	RoomsReapedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bankroll_rooms_reaped_total",
		Help: "Empty rooms deleted by the background reaper.",
	})

	// BroadcastsTotal counts full-state broadcasts, by payload kind.
	BroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankroll_broadcasts_total",
		Help: "Full-state broadcasts emitted, by payload kind.",
	}, []string{"kind"})
)
