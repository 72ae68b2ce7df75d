package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/bankroll/internal/metrics"
)

// ReapEmptyRooms runs one sweep over the registry, deleting every room in
// which no player holds a live connection. It returns the number of rooms
// deleted. Deletion takes the room lock, so a room is never torn down in
// the middle of a command.
func (s *Service) ReapEmptyRooms() int {
	reaped := 0
	for _, name := range s.registry.Names() {
		if s.registry.DeleteIfEmpty(name) {
			slog.Info("reaped empty room", "room", name)
			metrics.RoomsReapedTotal.Inc()
			reaped++
		}
	}
	metrics.RoomsActive.Set(float64(s.registry.Len()))
	return reaped
}

// RunReaper sweeps for empty rooms on the given interval until the context
// is cancelled. This is the only garbage collection for rooms; there is no
// explicit close-room command.
func (s *Service) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReapEmptyRooms()
		}
	}
}
