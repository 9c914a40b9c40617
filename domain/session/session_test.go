package session

import (
	"errors"
	"testing"
	"time"
)

func TestKeyEncodeDecode(t *testing.T) {
	k := Key{
		LocalCompID:      "GATEWAY",
		LocalSubID:       "DESK1",
		RemoteCompID:     "CLIENT9",
		RemoteLocationID: "LDN",
	}
	got, err := DecodeKey(k.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != k {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestKeyEncodingIsStable(t *testing.T) {
	a := Key{LocalCompID: "A", RemoteCompID: "B"}
	b := Key{LocalCompID: "A", RemoteCompID: "B"}
	if string(a.Encode()) != string(b.Encode()) {
		t.Fatal("equal keys must encode identically")
	}
	// Field boundaries matter: A|BC must not collide with AB|C.
	x := Key{LocalCompID: "A", LocalSubID: "BC"}
	y := Key{LocalCompID: "AB", LocalSubID: "C"}
	if string(x.Encode()) == string(y.Encode()) {
		t.Fatal("distinct keys collided")
	}
}

func TestDecodeKeyTruncated(t *testing.T) {
	enc := Key{LocalCompID: "GATEWAY", RemoteCompID: "CLIENT"}.Encode()
	if _, err := DecodeKey(enc[:len(enc)-3]); !errors.Is(err, ErrShortKey) {
		t.Fatalf("expected ErrShortKey, got %v", err)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	s := New(1, Key{LocalCompID: "GW", RemoteCompID: "C1"})
	steps := []State{Authenticating, Active, Disconnecting, Closed}
	for _, next := range steps {
		if err := s.Transition(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if s.State() != Closed {
		t.Fatalf("expected Closed, got %s", s.State())
	}
}

func TestIllegalTransitions(t *testing.T) {
	s := New(1, Key{})
	if err := s.Transition(Active); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("Connecting -> Active must be illegal, got %v", err)
	}
	mustTransition(t, s, Authenticating, Active, Disconnecting, Closed)
	if err := s.Transition(Active); !errors.Is(err, ErrBadTransition) {
		t.Fatalf("Closed -> Active must be illegal, got %v", err)
	}
}

func TestSlowNotifiesOncePerOnset(t *testing.T) {
	s := New(4, Key{})
	mustTransition(t, s, Authenticating, Active)

	var flips []bool
	s.Observe(nil, func(_ uint64, slow bool) {
		flips = append(flips, slow)
	})

	for i := 0; i < 3; i++ {
		if err := s.MarkSlow(); err != nil {
			t.Fatalf("mark slow: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if err := s.ClearSlow(); err != nil {
			t.Fatalf("clear slow: %v", err)
		}
	}
	if len(flips) != 2 || flips[0] != true || flips[1] != false {
		t.Fatalf("expected exactly [true false], got %v", flips)
	}
}

func TestResendCycle(t *testing.T) {
	s := New(5, Key{})
	mustTransition(t, s, Authenticating, Active, AwaitingResend, Active)
	if s.State() != Active {
		t.Fatalf("expected Active after resend cycle, got %s", s.State())
	}
}

func TestSequenceEpochReset(t *testing.T) {
	s := New(6, Key{})
	s.RecordReceived(10, time.Now())
	for i := 0; i < 4; i++ {
		s.NextSentSeq()
	}

	s.ResetSequences()
	if s.Epoch != 1 {
		t.Fatalf("epoch = %d, want 1", s.Epoch)
	}
	if s.ExpectedSeq() != 1 || s.NextSentSeq() != 1 {
		t.Fatal("sequence counters must restart at 1 in the new epoch")
	}
}

func TestStateObserver(t *testing.T) {
	s := New(7, Key{})
	var seen []State
	s.Observe(func(_ uint64, _, to State) {
		seen = append(seen, to)
	}, nil)
	mustTransition(t, s, Authenticating, Active)
	if len(seen) != 2 || seen[0] != Authenticating || seen[1] != Active {
		t.Fatalf("observer saw %v", seen)
	}
}

func mustTransition(t *testing.T, s *Session, states ...State) {
	t.Helper()
	for _, next := range states {
		if err := s.Transition(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
}
