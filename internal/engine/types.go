package engine

import (
	"time"

	"github.com/google/uuid"
)

// Mode partitions queues and rooms and gates which signaling events are
// valid inside a room.
type Mode string

const (
	ModeText  Mode = "text"
	ModeVideo Mode = "video"
)

func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeText:
		return ModeText, true
	case ModeVideo:
		return ModeVideo, true
	}
	return "", false
}

// User is a waiting or paired participant. ID and Name are client-supplied
// and carried only for display in matched notifications; ConnID is the
// transport session id and the join key everywhere.
type User struct {
	ID     string
	Name   string
	ConnID uuid.UUID
	Mode   Mode
}

// Room is an active two-party pairing. Exactly two distinct connection ids
// at all times; torn down whole when either occupant leaves.
type Room struct {
	ID        string
	Mode      Mode
	Users     [2]User
	CreatedAt time.Time
}

// Peer returns the occupant other than connID.
func (r *Room) Peer(connID uuid.UUID) (User, bool) {
	for _, u := range r.Users {
		if u.ConnID != connID {
			return u, true
		}
	}
	return User{}, false
}

// Occupant returns the occupant with connID.
func (r *Room) Occupant(connID uuid.UUID) (User, bool) {
	for _, u := range r.Users {
		if u.ConnID == connID {
			return u, true
		}
	}
	return User{}, false
}
