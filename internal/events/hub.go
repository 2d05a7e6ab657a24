package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Emitter delivers typed events to a session's subscriber. Implementations
// must preserve emission order within a session and must never block the
// pipeline: a missing or slow subscriber drops events silently.
type Emitter interface {
	Emit(ctx context.Context, sessionID uuid.UUID, event Event)
}

// subscriberBuffer bounds how far a subscriber may fall behind before
// events are dropped.
const subscriberBuffer = 64

// SessionHub is an in-memory Emitter that routes each session's events to
// at most one subscriber. Events emitted before Subscribe or after the
// subscriber goes away are dropped; the pipeline always runs to completion
// regardless of transport state.
type SessionHub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]chan Event
	logger   *slog.Logger
}

// NewSessionHub creates a new SessionHub.
func NewSessionHub(logger *slog.Logger) *SessionHub {
	return &SessionHub{
		sessions: make(map[uuid.UUID]chan Event),
		logger:   logger.With("component", "session_hub"),
	}
}

// Subscribe registers the single subscriber for a session and returns its
// event channel plus a cancel function. The channel is closed after the
// session's terminal event or when cancel is called, whichever comes first.
func (h *SessionHub) Subscribe(sessionID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if old, ok := h.sessions[sessionID]; ok {
		close(old)
	}
	h.sessions[sessionID] = ch
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if cur, ok := h.sessions[sessionID]; ok && cur == ch {
			delete(h.sessions, sessionID)
			close(cur)
		}
	}
	return ch, cancel
}

// Emit routes an event to the session's subscriber, if any. Terminal events
// close the stream. Emission never blocks: when the subscriber's buffer is
// full the event is dropped and logged.
//
// The send happens under the same lock that Subscribe and cancel close the
// channel under, so a disconnect can never race an in-flight send into a
// closed channel.
func (h *SessionHub) Emit(ctx context.Context, sessionID uuid.UUID, event Event) {
	h.mu.Lock()
	ch, ok := h.sessions[sessionID]
	if !ok {
		h.mu.Unlock()
		h.logger.DebugContext(ctx, "no subscriber for session, dropping event",
			"session_id", sessionID,
			"event_type", event.Type)
		return
	}
	if event.Terminal() {
		delete(h.sessions, sessionID)
	}

	dropped := false
	select {
	case ch <- event:
	default:
		dropped = true
	}

	if event.Terminal() {
		close(ch)
	}
	h.mu.Unlock()

	if dropped {
		h.logger.WarnContext(ctx, "subscriber buffer full, dropping event",
			"session_id", sessionID,
			"event_type", event.Type)
	}
}
