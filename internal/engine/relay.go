package engine

import (
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// roomPeer resolves the sender's room and the other occupant. An absent
// room means the event is stale and gets dropped.
func (e *Engine) roomPeer(connID uuid.UUID) (*Room, User, User, bool) {
	room, ok := e.rooms.FindByConnection(connID)
	if !ok {
		return nil, User{}, User{}, false
	}
	sender, ok := room.Occupant(connID)
	if !ok {
		return nil, User{}, User{}, false
	}
	peer, ok := room.Peer(connID)
	if !ok {
		return nil, User{}, User{}, false
	}
	return room, sender, peer, true
}

// rawField extracts a payload subdocument verbatim so offers, answers and
// candidates pass through without re-marshaling.
func rawField(payload []byte, key string) json.RawMessage {
	v := gjson.GetBytes(payload, key)
	if !v.Exists() {
		return json.RawMessage("null")
	}
	return json.RawMessage(v.Raw)
}

func (e *Engine) handleSendMessage(connID uuid.UUID, payload []byte) {
	_, sender, peer, ok := e.roomPeer(connID)
	if !ok {
		return
	}
	e.sender.Deliver(peer.ConnID, EventMessage, MessagePayload{
		Text: gjson.GetBytes(payload, "text").String(),
		From: sender.Name,
	})
}

func (e *Engine) handleTyping(connID uuid.UUID) {
	_, _, peer, ok := e.roomPeer(connID)
	if !ok {
		return
	}
	e.sender.Deliver(peer.ConnID, EventTyping, struct{}{})
}

func (e *Engine) handleCallOffer(connID uuid.UUID, payload []byte) {
	room, _, peer, ok := e.roomPeer(connID)
	if !ok {
		return
	}
	// Offers only make sense between video-paired peers.
	if room.Mode != ModeVideo {
		e.logger.Debug("Dropping call-offer in non-video room", slog.String("roomID", room.ID))
		return
	}
	e.sender.Deliver(peer.ConnID, EventCallOffer, OfferPayload{
		From:  connID.String(),
		Offer: rawField(payload, "offer"),
	})
}

func (e *Engine) handleCallAnswer(connID uuid.UUID, payload []byte) {
	room, _, peer, ok := e.roomPeer(connID)
	if !ok {
		return
	}
	if room.Mode != ModeVideo {
		e.logger.Debug("Dropping call-answer in non-video room", slog.String("roomID", room.ID))
		return
	}
	e.sender.Deliver(peer.ConnID, EventCallAnswer, AnswerPayload{
		From:   connID.String(),
		Answer: rawField(payload, "answer"),
	})
}

// ICE candidates relay in both modes; text rooms may still carry them if a
// client probes connectivity, and they are opaque to the engine either way.
func (e *Engine) handleICECandidate(connID uuid.UUID, payload []byte) {
	_, _, peer, ok := e.roomPeer(connID)
	if !ok {
		return
	}
	e.sender.Deliver(peer.ConnID, EventICECandidate, CandidatePayload{
		From:      connID.String(),
		Candidate: rawField(payload, "candidate"),
	})
}

// handleEndCall notifies the peer and tears the room down without
// automatic requeue; either side then asks for a new partner explicitly.
func (e *Engine) handleEndCall(connID uuid.UUID) {
	room, _, peer, ok := e.roomPeer(connID)
	if !ok {
		return
	}
	e.sender.Deliver(peer.ConnID, EventCallEnded, struct{}{})
	e.teardown(room, connID, false)
}
