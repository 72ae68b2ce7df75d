package service

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/bankroll/internal/models"
)

// selfFundingSuffix marks a username requesting a self-funding session.
// The suffix is stripped before storage; only the session flag survives.
const selfFundingSuffix = "-v"

// Session binds one live connection to at most one (room, player) pair.
// An unbound session may only send create_room and join. Fields are only
// written by the session's own read loop (during join), so no lock is
// needed beyond the per-room mutex taken while mutating room state.
type Session struct {
	// ID correlates log lines for one connection.
	ID uuid.UUID

	// Conn is the live channel to the client.
	Conn models.Conn

	// Room and Username are set by a successful join and never change
	// afterwards; a session never moves to another room.
	Room     string
	Username string

	// SelfFunding is computed from the raw join username and refreshed
	// on every join of this connection.
	SelfFunding bool
}

// NewSession wraps a freshly accepted connection in an unbound session.
func NewSession(conn models.Conn) *Session {
	return &Session{ID: uuid.New(), Conn: conn}
}

// Bound reports whether the session has joined a room.
func (s *Session) Bound() bool {
	return s.Room != ""
}

// normalizeName strips the self-funding marker suffix from a raw username
// and reports whether it was present.
func normalizeName(raw string) (string, bool) {
	if name, ok := strings.CutSuffix(raw, selfFundingSuffix); ok {
		return name, true
	}
	return raw, false
}
