// Package registry owns the room table: creation, lookup and reaping of
// rooms. The registry lock guards only the table itself; room bodies are
// serialized by their own mutex.
package registry

import (
	"errors"
	"sync"

	"github.com/mmynk/bankroll/internal/models"
)

var (
	ErrRoomExists   = errors.New("room already exists")
	ErrRoomNotFound = errors.New("room not found")
)

// Registry is a concurrency-safe mapping from room name to room state.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*models.Room
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{rooms: make(map[string]*models.Room)}
}

// Create registers an empty room under the given name. It fails with
// ErrRoomExists if the name is already taken.
func (r *Registry) Create(name, password string) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[name]; ok {
		return nil, ErrRoomExists
	}
	room := models.NewRoom(name, password)
	r.rooms[name] = room
	return room, nil
}

// Lookup returns the room with the given name or ErrRoomNotFound.
func (r *Registry) Lookup(name string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[name]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Names returns a snapshot of all registered room names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// DeleteIfEmpty removes the named room when no player holds a live
// connection, and reports whether it did. The room lock is taken first so a
// room is never deleted mid-mutation.
func (r *Registry) DeleteIfEmpty(name string) bool {
	r.mu.RLock()
	room, ok := r.rooms[name]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.LiveConnections() > 0 {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check under the table lock: a concurrent Create after a reap of
	// the same name must not be clobbered.
	if r.rooms[name] == room {
		delete(r.rooms, name)
		// The room lock is still held; anyone who looked the room up
		// before the delete sees the flag once they acquire it.
		room.Dead = true
		return true
	}
	return false
}
