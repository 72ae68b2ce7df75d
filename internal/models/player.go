package models

// Conn is the server's handle on one live client connection. The concrete
// implementation wraps a websocket; tests substitute in-memory doubles.
type Conn interface {
	// Send marshals v as JSON and writes it to the client. A failed write
	// does not tear the connection down; the transport layer reports
	// closure separately.
	Send(v any) error

	// Close shuts the underlying connection down. The transport's read
	// loop observes the closure and triggers disconnect handling.
	Close() error
}

// Player is a named participant in a room.
//
// A player outlives its connection: on disconnect only Conn is cleared,
// balance and history stay untouched until the reaper deletes the whole
// room (or an administrator kicks the player, which removes it entirely).
type Player struct {
	// Username is the normalized name, unique within the room,
	// case-sensitive. Any self-funding marker suffix has been stripped
	// before storage.
	Username string

	// Balance is the current amount held, in whole currency units.
	// Never negative for ordinary players.
	Balance int64

	// SelfFunding marks a session allowed to top up its own balance.
	// It is a property of the current session, re-evaluated on every
	// join, not a permanent attribute of the player.
	SelfFunding bool

	// Conn is the live connection currently bound to this player, or nil
	// while the player is disconnected.
	Conn Conn
}

// PlayerView is the roster snapshot broadcast to clients.
type PlayerView struct {
	Username    string `json:"username"`
	Balance     int64  `json:"balance"`
	SelfFunding bool   `json:"canEdit"`
}

// View returns the broadcastable snapshot of the player.
func (p *Player) View() PlayerView {
	return PlayerView{Username: p.Username, Balance: p.Balance, SelfFunding: p.SelfFunding}
}
