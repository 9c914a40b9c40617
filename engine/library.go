package engine

import (
	"time"

	"fixgw/fix"
	"fixgw/infra/streams"
)

// GatewayLibraryID is the reserved library id the engine itself acts
// under. Sessions no library has claimed are owned by it.
const GatewayLibraryID uint32 = 0

// LibraryInfo is the admin snapshot of one attached library.
type LibraryInfo struct {
	ID            uint32
	Name          string
	LastHeartbeat time.Time
	SessionIDs    []uint64
}

// libraryState is the framer-owned record of an attached library. Like
// sessions, it is mutated only on the framer goroutine.
type libraryState struct {
	id            uint32
	name          string
	lastHeartbeat time.Time
	sessions      map[uint64]struct{}
}

func (l *libraryState) snapshot() LibraryInfo {
	info := LibraryInfo{
		ID:            l.id,
		Name:          l.name,
		LastHeartbeat: l.lastHeartbeat,
		SessionIDs:    make([]uint64, 0, len(l.sessions)),
	}
	for id := range l.sessions {
		info.SessionIDs = append(info.SessionIDs, id)
	}
	return info
}

// librarySubmission is one multiplexed request on the library-facing
// control channel. The framer is the only consumer, so ordering per
// library follows submission order.
type librarySubmission struct {
	kind      streams.Kind
	libraryID uint32
	sessionID uint64
	name      string

	// KindFixMessage payload: the engine composes the frame so sequence
	// numbers never leave the framer.
	msgType string
	fields  []fix.Field

	resp *response[uint32]
}

// Library is the in-process handle an application holds after attaching.
// Outbound traffic and control requests funnel through the engine's
// submission queue; inbound traffic is consumed by polling stream
// subscriptions, never by callback.
type Library struct {
	id   uint32
	name string
	e    *Engine
}

func (l *Library) ID() uint32 { return l.id }

// Send routes one business message to a session's connection. It is
// fire-and-forget: delivery problems surface as session state changes,
// not as an error here. ErrEngineBusy means the submission queue stayed
// full.
func (l *Library) Send(sessionID uint64, msgType string, fields []fix.Field) error {
	return l.e.submitLibrary(librarySubmission{
		kind:      streams.KindFixMessage,
		libraryID: l.id,
		sessionID: sessionID,
		msgType:   msgType,
		fields:    fields,
	})
}

// Heartbeat keeps the library attached. A library that stops
// heartbeating for the configured timeout is detached and its sessions
// revert to the engine.
func (l *Library) Heartbeat() error {
	return l.e.submitLibrary(librarySubmission{
		kind:      streams.KindLibraryHeartbeat,
		libraryID: l.id,
	})
}

// RequestDisconnect asks the framer to log out and drop a session.
func (l *Library) RequestDisconnect(sessionID uint64) error {
	return l.e.submitLibrary(librarySubmission{
		kind:      streams.KindDisconnect,
		libraryID: l.id,
		sessionID: sessionID,
	})
}

// Subscribe opens a polling cursor over one of the engine-to-library
// streams, starting at from. Position zero replays from the beginning of
// retained history.
func (l *Library) Subscribe(id streams.StreamID, from int64) (*streams.Subscription, error) {
	return l.e.streams.Subscription(id, from)
}
