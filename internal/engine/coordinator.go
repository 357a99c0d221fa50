package engine

import (
	"log/slog"

	"github.com/google/uuid"
)

// leave removes connID from its room, if any. The peer is notified and the
// room destroyed; with requeue, both former occupants go back into the
// room's queue.
func (e *Engine) leave(connID uuid.UUID, requeue bool) {
	room, ok := e.rooms.FindByConnection(connID)
	if !ok {
		return
	}
	e.teardown(room, connID, requeue)
}

// teardown is the one room-destruction path. Notifies the occupant other
// than leaving, destroys the room, and optionally re-enqueues both
// occupants (idempotent insert, so a connection already waiting is not
// duplicated).
func (e *Engine) teardown(room *Room, leaving uuid.UUID, requeue bool) {
	if peer, ok := room.Peer(leaving); ok {
		e.sender.Deliver(peer.ConnID, EventUserDisconnected, struct{}{})
		e.sender.Deliver(peer.ConnID, EventPeerDisconnected, struct{}{})
	}
	e.rooms.Destroy(room.ID)
	e.logger.Info("Room destroyed", slog.String("roomID", room.ID), slog.Bool("requeue", requeue))

	if !requeue {
		return
	}
	for _, u := range room.Users {
		if !e.queues.Contains(u.ConnID) {
			e.queues.Enqueue(room.Mode, u)
		}
	}
}

// handleFindNew implements the confirmed flow: a requester in a room only
// prompts the peer, and nothing changes until the peer confirms. A
// requester still waiting in the queue retries matching immediately.
func (e *Engine) handleFindNew(connID uuid.UUID) {
	room, ok := e.rooms.FindByConnection(connID)
	if !ok {
		if u, queued := e.queues.Lookup(connID); queued {
			e.join(u)
		}
		return
	}
	if peer, ok := room.Peer(connID); ok {
		e.sender.Deliver(peer.ConnID, EventPeerWantsFindNew, struct{}{})
	}
}

// handleConfirmFindNew finishes the confirmed flow: tear the room down and
// put both parties back through matchmaking.
func (e *Engine) handleConfirmFindNew(connID uuid.UUID) {
	room, ok := e.rooms.FindByConnection(connID)
	if !ok {
		return
	}
	confirmer, _ := room.Occupant(connID)
	peer, hasPeer := room.Peer(connID)

	e.teardown(room, connID, false)
	e.join(confirmer)
	if hasPeer {
		e.join(peer)
	}
}

// disconnect handles the transport-level close: the departing connection
// leaves everything, and a surviving room peer is requeued since it did not
// choose to leave.
func (e *Engine) disconnect(connID uuid.UUID) {
	e.leave(connID, true)
	e.queues.RemoveByConnection(connID)
	e.logger.Debug("Connection departed", slog.String("connID", connID.String()))
}
