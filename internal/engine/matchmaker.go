package engine

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

func (e *Engine) handleJoinQueue(connID uuid.UUID, payload []byte) {
	mode, ok := ParseMode(gjson.GetBytes(payload, "mode").String())
	if !ok {
		e.logger.Warn("join-queue with unknown mode", slog.String("connID", connID.String()))
		return
	}

	u := User{
		ID:     gjson.GetBytes(payload, "userId").String(),
		Name:   gjson.GetBytes(payload, "userName").String(),
		ConnID: connID,
		Mode:   mode,
	}
	e.join(u)
}

// join is the single entry point for acquiring a partner; the requeue flows
// re-invoke it with the same semantics. Pairs u with a uniformly random
// waiter in its mode's queue, or enqueues u if nobody is waiting.
func (e *Engine) join(u User) {
	// A connection coming back from a prior session may still hold a room
	// or a stale queue slot. Clear both so the membership invariant holds.
	// The abandoned peer is requeued, same as on disconnect.
	if room, ok := e.rooms.FindByConnection(u.ConnID); ok {
		e.teardown(room, u.ConnID, true)
	}
	e.queues.RemoveByConnection(u.ConnID)

	match, ok := e.queues.TakeRandomMatch(u.Mode, u.ConnID, e.rng)
	if !ok {
		e.queues.Enqueue(u.Mode, u)
		e.logger.Info("User added to queue",
			slog.String("name", u.Name),
			slog.String("mode", string(u.Mode)),
			slog.Int("depth", e.queues.Len(u.Mode)),
		)
		return
	}

	room := e.rooms.Create(u.Mode, u, match, e.rng)
	e.logger.Info("Matched",
		slog.String("roomID", room.ID),
		slog.String("mode", string(room.Mode)),
		slog.String("userA", u.Name),
		slog.String("userB", match.Name),
	)

	// The peer is identified only by its display identity, never by its
	// connection id.
	e.sender.Deliver(u.ConnID, EventMatched, MatchedPayload{
		RoomID:    room.ID,
		OtherUser: PeerInfo{ID: match.ID, Name: match.Name},
	})
	e.sender.Deliver(match.ConnID, EventMatched, MatchedPayload{
		RoomID:    room.ID,
		OtherUser: PeerInfo{ID: u.ID, Name: u.Name},
	})
}
