package session

import (
	"errors"
	"fmt"
	"time"
)

// State is the connection state of a session.
type State uint8

const (
	Connecting State = iota + 1
	Authenticating
	Active
	Slow
	AwaitingResend
	Disconnecting
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "CONNECTING"
	case Authenticating:
		return "AUTHENTICATING"
	case Active:
		return "ACTIVE"
	case Slow:
		return "SLOW"
	case AwaitingResend:
		return "AWAITING_RESEND"
	case Disconnecting:
		return "DISCONNECTING"
	case Closed:
		return "CLOSED"
	}
	return fmt.Sprintf("STATE(%d)", uint8(s))
}

// Live reports whether the session still owns a connection.
func (s State) Live() bool {
	return s != Closed && s != 0
}

var ErrBadTransition = errors.New("session: illegal state transition")

var transitions = map[State][]State{
	Connecting:     {Authenticating, Disconnecting},
	Authenticating: {Active, Disconnecting},
	Active:         {Slow, AwaitingResend, Disconnecting},
	Slow:           {Active, Disconnecting},
	AwaitingResend: {Active, Disconnecting},
	Disconnecting:  {Closed},
}

// StateObserver is notified after every applied transition.
type StateObserver func(id uint64, from, to State)

// SlowObserver is notified when the slow flag flips.
type SlowObserver func(id uint64, slow bool)

// Session is the framer-owned representation of one FIX counterparty.
// All mutation happens on the framer goroutine; nothing here locks.
type Session struct {
	ID        uint64
	Key       Key
	LibraryID uint32

	Epoch             uint32
	LastSentSeq       uint64
	LastReceivedSeq   uint64
	HeartbeatInterval time.Duration
	LastActivity      time.Time

	state   State
	onState StateObserver
	onSlow  SlowObserver
}

// New builds a session in the Connecting state.
func New(id uint64, key Key) *Session {
	return &Session{ID: id, Key: key, state: Connecting, HeartbeatInterval: 30 * time.Second}
}

func (s *Session) State() State { return s.state }

func (s *Session) Slow() bool { return s.state == Slow }

// Observe registers the per-concern callbacks. Either may be nil.
func (s *Session) Observe(onState StateObserver, onSlow SlowObserver) {
	s.onState = onState
	s.onSlow = onSlow
}

// Transition applies one edge of the state machine.
func (s *Session) Transition(to State) error {
	for _, allowed := range transitions[s.state] {
		if allowed == to {
			from := s.state
			s.state = to
			if s.onState != nil {
				s.onState(s.ID, from, to)
			}
			if s.onSlow != nil {
				if from == Slow && to != Slow {
					s.onSlow(s.ID, false)
				} else if from != Slow && to == Slow {
					s.onSlow(s.ID, true)
				}
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrBadTransition, s.state, to)
}

// MarkSlow moves Active -> Slow. Calling it while already slow is a no-op
// so each back-pressure onset notifies exactly once.
func (s *Session) MarkSlow() error {
	if s.state == Slow {
		return nil
	}
	return s.Transition(Slow)
}

// ClearSlow moves Slow -> Active once back-pressure lifts.
func (s *Session) ClearSlow() error {
	if s.state != Slow {
		return nil
	}
	return s.Transition(Active)
}

// NextSentSeq allocates the next outbound sequence number.
func (s *Session) NextSentSeq() uint64 {
	s.LastSentSeq++
	return s.LastSentSeq
}

// ExpectedSeq is the inbound sequence number the session requires next.
func (s *Session) ExpectedSeq() uint64 {
	return s.LastReceivedSeq + 1
}

// RecordReceived advances the inbound counter after an accepted message.
func (s *Session) RecordReceived(seq uint64, at time.Time) {
	s.LastReceivedSeq = seq
	s.LastActivity = at
}

// ResetSequences starts a new sequence epoch.
func (s *Session) ResetSequences() {
	s.Epoch++
	s.LastSentSeq = 0
	s.LastReceivedSeq = 0
}

// Info is an immutable snapshot for admin queries.
type Info struct {
	ID              uint64
	Key             Key
	State           State
	LibraryID       uint32
	Epoch           uint32
	LastSentSeq     uint64
	LastReceivedSeq uint64
	Slow            bool
}

func (s *Session) Snapshot() Info {
	return Info{
		ID:              s.ID,
		Key:             s.Key,
		State:           s.state,
		LibraryID:       s.LibraryID,
		Epoch:           s.Epoch,
		LastSentSeq:     s.LastSentSeq,
		LastReceivedSeq: s.LastReceivedSeq,
		Slow:            s.Slow(),
	}
}
