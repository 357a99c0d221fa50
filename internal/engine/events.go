package engine

import "encoding/json"

// Inbound event names. Each carries the connection id implicitly from the
// transport session.
const (
	EventJoinQueue      = "join-queue"
	EventSendMessage    = "send-message"
	EventTyping         = "typing"
	EventCallOffer      = "call-offer"
	EventCallAnswer     = "call-answer"
	EventICECandidate   = "ice-candidate"
	EventFindNew        = "find-new"
	EventConfirmFindNew = "confirm-find-new"
	EventEndCall        = "end-call"
)

// Outbound event names.
const (
	EventMatched          = "matched"
	EventMessage          = "message"
	EventPeerWantsFindNew = "peer-wants-find-new"
	EventCallEnded        = "call-ended"
	EventUserDisconnected = "user-disconnected"
	EventPeerDisconnected = "peer-disconnected"
	// call-offer, call-answer, ice-candidate and typing keep their inbound
	// names when relayed to the peer.
)

// ClientMessage is the wire envelope for both directions.
type ClientMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PeerInfo is the display identity exposed in matched notifications. It
// never carries the peer's connection id.
type PeerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MatchedPayload struct {
	RoomID    string   `json:"roomId"`
	OtherUser PeerInfo `json:"otherUser"`
}

type MessagePayload struct {
	Text string `json:"text"`
	From string `json:"from"`
}

// Signaling payloads attribute the sender by raw connection id; clients pair
// signaling exchanges by sender identity.
type OfferPayload struct {
	From  string          `json:"from"`
	Offer json.RawMessage `json:"offer"`
}

type AnswerPayload struct {
	From   string          `json:"from"`
	Answer json.RawMessage `json:"answer"`
}

type CandidatePayload struct {
	From      string          `json:"from"`
	Candidate json.RawMessage `json:"candidate"`
}
