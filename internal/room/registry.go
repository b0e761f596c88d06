package room

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
)

// Registry is the in-memory store of live rooms. It has an explicit
// lifecycle: create one at process start and pass it to the Coordinator.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// Create initializes a room with its creator in the first seat and
// returns it. Codes are 6-digit numeric strings; a code colliding with
// a live room is regenerated rather than assumed unique.
func (reg *Registry) Create(creator string, allowList []string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var code string
	for {
		code = fmt.Sprintf("%06d", 100000+rand.IntN(900000))
		if _, taken := reg.rooms[code]; !taken {
			break
		}
	}

	r := newRoom(code, creator, allowList)
	reg.rooms[code] = r

	reg.logger.Info("room created", "room.code", code, "room.creator", creator, "room.allowlist.size", len(allowList))
	return r
}

// Get looks up a live room. An unknown code is an ordinary negative
// result, not an error.
func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[code]
	return r, ok
}

// Delete removes a room. Deleting an unknown code is a no-op.
func (reg *Registry) Delete(code string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	delete(reg.rooms, code)
}

// SweepEmpty deletes every room with no seated players and returns how
// many were reclaimed. A room holding even a single player is kept.
func (reg *Registry) SweepEmpty() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	swept := 0
	for code, r := range reg.rooms {
		if len(r.Players) == 0 {
			delete(reg.rooms, code)
			swept++
		}
	}
	if swept > 0 {
		reg.logger.Info("swept empty rooms", "rooms.swept", swept, "rooms.live", len(reg.rooms))
	}
	return swept
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	return len(reg.rooms)
}
