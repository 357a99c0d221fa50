// Package engine implements the matchmaking and room-lifecycle core: the
// per-mode waiting queues, the pairing algorithm, the room registry, the
// disconnect/requeue protocol and the relay routing between paired peers.
// The transport is consumed only through the Sender interface; the engine
// never touches sockets.
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sender is the engine's one outbound primitive. Delivery is
// fire-and-forget; payloads to absent connections are dropped.
type Sender interface {
	Deliver(connID uuid.UUID, event string, payload any)
}

// Engine owns all queue and room state. Every inbound event runs to
// completion under one mutex, so handlers always observe and mutate a
// single consistent snapshot. Instances are independent; nothing is
// process-global.
type Engine struct {
	mu     sync.Mutex
	queues *queueStore
	rooms  *roomRegistry

	sender Sender
	rng    *rand.Rand
	logger *slog.Logger
}

// New builds an engine. rng is the random source behind pairing and room
// ids; pass nil for a time-seeded one, or a fixed seed in tests for
// deterministic pairing.
func New(logger *slog.Logger, sender Sender, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		queues: newQueueStore(),
		rooms:  newRoomRegistry(),
		sender: sender,
		rng:    rng,
		logger: logger.With(slog.String("component", "engine")),
	}
}

// HandleMessage decodes the wire envelope and dispatches the named event.
// Satisfies transport.MessageHandler.
func (e *Engine) HandleMessage(_ context.Context, connID uuid.UUID, msg []byte) {
	var env ClientMessage
	if err := json.Unmarshal(msg, &env); err != nil {
		e.logger.Warn("Failed to unmarshal client message", slog.String("connID", connID.String()), slog.Any("error", err))
		return
	}
	e.Dispatch(connID, env.Event, env.Payload)
}

// Dispatch routes one inbound event to its handler. Unknown events are
// logged and dropped; a handler targeting absent state is a silent no-op,
// never an error surfaced to the client.
func (e *Engine) Dispatch(connID uuid.UUID, event string, payload []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.logger.Debug("Dispatching event", slog.String("event", event), slog.String("connID", connID.String()))

	switch event {
	case EventJoinQueue:
		e.handleJoinQueue(connID, payload)
	case EventSendMessage:
		e.handleSendMessage(connID, payload)
	case EventTyping:
		e.handleTyping(connID)
	case EventCallOffer:
		e.handleCallOffer(connID, payload)
	case EventCallAnswer:
		e.handleCallAnswer(connID, payload)
	case EventICECandidate:
		e.handleICECandidate(connID, payload)
	case EventFindNew:
		e.handleFindNew(connID)
	case EventConfirmFindNew:
		e.handleConfirmFindNew(connID)
	case EventEndCall:
		e.handleEndCall(connID)
	default:
		e.logger.Warn("Received unknown event", slog.String("event", event), slog.String("connID", connID.String()))
	}
}

// HandleDisconnect is the transport-level close signal. It always resolves
// to the disconnect transition, whether the connection was idle, queued or
// in a room.
func (e *Engine) HandleDisconnect(connID uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disconnect(connID)
}

// Stats is a point-in-time snapshot of queue depths and active rooms.
type Stats struct {
	ActiveRooms     int `json:"activeRooms"`
	TextQueueDepth  int `json:"textQueueDepth"`
	VideoQueueDepth int `json:"videoQueueDepth"`
}

func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{
		ActiveRooms:     e.rooms.Count(),
		TextQueueDepth:  e.queues.Len(ModeText),
		VideoQueueDepth: e.queues.Len(ModeVideo),
	}
}

// ReportStats logs the current snapshot on every tick until ctx ends.
func (e *Engine) ReportStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s := e.Stats()
			e.logger.Info("Engine state",
				slog.Int("activeRooms", s.ActiveRooms),
				slog.Int("textQueue", s.TextQueueDepth),
				slog.Int("videoQueue", s.VideoQueueDepth),
			)
		case <-ctx.Done():
			return
		}
	}
}
