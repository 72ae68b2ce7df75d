package models

import "sync"

// Room holds one password, one roster and one bill log. It is the unit of
// serialization: every validate-mutate-broadcast sequence runs with Mu held,
// so two commands against the same room never interleave.
type Room struct {
	// Mu serializes all access to Players and Bills. The registry's own
	// lock guards only the room table, not room bodies.
	Mu sync.Mutex

	// Name is the room identifier, unique and case-sensitive.
	Name string

	// Password is opaque and compared for exact equality on join.
	Password string

	// Players in insertion order. Order is meaningful for display only.
	Players []*Player

	// Bills is the append-only audit log.
	Bills []BillEntry

	// Dead is set by the registry, under Mu, when the room is removed
	// from the table. A joiner that looked the room up before the reaper
	// deleted it checks the flag after taking Mu and must not bind.
	Dead bool
}

// NewRoom returns an empty room. The caller (the registry) is responsible
// for name uniqueness.
func NewRoom(name, password string) *Room {
	return &Room{Name: name, Password: password}
}

// FindPlayer returns the player with the given normalized username, or nil.
// Callers must hold Mu.
func (r *Room) FindPlayer(username string) *Player {
	for _, p := range r.Players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

// RemovePlayer deletes the named player from the roster, preserving the
// order of the remaining players. It reports whether a player was removed.
// Callers must hold Mu.
func (r *Room) RemovePlayer(username string) bool {
	for i, p := range r.Players {
		if p.Username == username {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return true
		}
	}
	return false
}

// Roster returns the broadcastable snapshot of all players. Callers must
// hold Mu.
func (r *Room) Roster() []PlayerView {
	list := make([]PlayerView, len(r.Players))
	for i, p := range r.Players {
		list[i] = p.View()
	}
	return list
}

// VisibleBills returns the bill log as seen by the given viewer, applying
// the self-funding visibility rule. Callers must hold Mu.
func (r *Room) VisibleBills(username string, selfFunding bool) []BillEntry {
	bills := make([]BillEntry, 0, len(r.Bills))
	for _, b := range r.Bills {
		if b.VisibleTo(username, selfFunding) {
			bills = append(bills, b)
		}
	}
	return bills
}

// LiveConnections counts players whose connection slot is occupied.
// Callers must hold Mu.
func (r *Room) LiveConnections() int {
	n := 0
	for _, p := range r.Players {
		if p.Conn != nil {
			n++
		}
	}
	return n
}
