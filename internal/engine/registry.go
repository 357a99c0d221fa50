package engine

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	roomIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	roomIDLength   = 9
)

// roomRegistry owns the active rooms. The connection index is maintained
// incrementally and must match the room map at every observable point.
type roomRegistry struct {
	rooms  map[string]*Room
	byConn map[uuid.UUID]string
}

func newRoomRegistry() *roomRegistry {
	return &roomRegistry{
		rooms:  make(map[string]*Room),
		byConn: make(map[uuid.UUID]string),
	}
}

// Create allocates a fresh room id (regenerated on collision), stores the
// room and indexes both occupants.
func (r *roomRegistry) Create(mode Mode, a, b User, rng *rand.Rand) *Room {
	var id string
	for {
		id = generateRoomID(rng)
		if _, taken := r.rooms[id]; !taken {
			break
		}
	}

	room := &Room{
		ID:        id,
		Mode:      mode,
		Users:     [2]User{a, b},
		CreatedAt: time.Now(),
	}
	r.rooms[id] = room
	r.byConn[a.ConnID] = id
	r.byConn[b.ConnID] = id
	return room
}

// FindByConnection returns the room containing connID, if any.
func (r *roomRegistry) FindByConnection(connID uuid.UUID) (*Room, bool) {
	id, ok := r.byConn[connID]
	if !ok {
		return nil, false
	}
	room, ok := r.rooms[id]
	return room, ok
}

// Destroy removes the room and both index entries. The single teardown
// path; idempotent for already-absent rooms.
func (r *roomRegistry) Destroy(roomID string) {
	room, ok := r.rooms[roomID]
	if !ok {
		return
	}
	delete(r.rooms, roomID)
	for _, u := range room.Users {
		delete(r.byConn, u.ConnID)
	}
}

// Count reports the number of active rooms.
func (r *roomRegistry) Count() int {
	return len(r.rooms)
}

func generateRoomID(rng *rand.Rand) string {
	buf := make([]byte, roomIDLength)
	for i := range buf {
		buf[i] = roomIDAlphabet[rng.Intn(len(roomIDAlphabet))]
	}
	return string(buf)
}
