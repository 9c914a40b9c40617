package streams

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"fixgw/infra/metrics"
	"fixgw/infra/streamlog"
)

func newTestMetrics() *metrics.Engine {
	return metrics.NewEngine(prometheus.NewRegistry())
}

func openTestStreams(t *testing.T) *Streams {
	t.Helper()
	s, err := Open(t.TempDir(), streamlog.Options{}, newTestMetrics(), zap.NewNop())
	if err != nil {
		t.Fatalf("open streams: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestPublishThenPoll(t *testing.T) {
	s := openTestStreams(t)

	pub := s.Publication(InboundData, 3, nil)
	env := Envelope{
		Kind:      KindFixMessage,
		SessionID: 7,
		SeqNum:    1,
		Timestamp: 42,
		Body:      []byte("8=FIX.4.4|..."),
	}
	pos := pub.Publish(env.Encode(nil))
	if pos == PositionBackPressured {
		t.Fatal("publish back-pressured on a healthy log")
	}

	sub, err := s.Subscription(InboundData, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	var got Envelope
	var gotPos int64 = -1
	n := sub.Poll(func(p int64, payload []byte) {
		gotPos = p
		e, err := DecodeEnvelope(payload)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		got = e
	}, 10)
	if n != 1 {
		t.Fatalf("expected 1 fragment, got %d", n)
	}
	if gotPos != pos {
		t.Fatalf("poll position %d, publish position %d", gotPos, pos)
	}
	if got.SessionID != 7 || got.SeqNum != 1 || string(got.Body) != "8=FIX.4.4|..." {
		t.Fatalf("envelope mismatch: %+v", got)
	}
}

func TestPublishVisibleToLateSubscriber(t *testing.T) {
	s := openTestStreams(t)
	pub := s.Publication(OutboundData, 3, nil)

	first := pub.Publish([]byte("one"))
	pub.Publish([]byte("two"))

	// A subscriber opened after both publishes still sees them, in order.
	sub, err := s.Subscription(OutboundData, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	var seen []string
	sub.Poll(func(_ int64, payload []byte) {
		seen = append(seen, string(payload))
	}, 10)
	if len(seen) != 2 || seen[0] != "one" || seen[1] != "two" {
		t.Fatalf("unexpected frames: %v", seen)
	}

	// A replay cursor from the first position sees both again.
	replay, err := s.Subscription(OutboundData, first)
	if err != nil {
		t.Fatal(err)
	}
	defer replay.Close()
	count := replay.Poll(func(int64, []byte) {}, 10)
	if count != 2 {
		t.Fatalf("replay from position %d delivered %d frames", first, count)
	}
}

type stubAppender struct {
	failures int
	appended int
}

func (a *stubAppender) Append(payload []byte) (int64, error) {
	if a.failures > 0 {
		a.failures--
		return 0, ErrBackPressure
	}
	a.appended++
	return int64(a.appended), nil
}

type recordingValve struct {
	absorbed [][]byte
}

func (v *recordingValve) Absorb(_ StreamID, payload []byte) {
	cp := make([]byte, len(payload))
	copy(cp, payload)
	v.absorbed = append(v.absorbed, cp)
}

func TestPublishRetriesWithinClaimBudget(t *testing.T) {
	m := newTestMetrics()
	pub := &Publication{
		stream:           InboundData,
		log:              &stubAppender{failures: 2},
		maxClaimAttempts: 3,
		metrics:          m,
		logger:           zap.NewNop(),
	}
	if pos := pub.Publish([]byte("x")); pos == PositionBackPressured {
		t.Fatal("expected success within the claim budget")
	}
	if got := testutil.ToFloat64(m.FailedPublications); got != 0 {
		t.Fatalf("failed-publication counter moved on success: %v", got)
	}
}

func TestPublishBackPressureHitsValveAndCounter(t *testing.T) {
	m := newTestMetrics()
	valve := &recordingValve{}
	pub := &Publication{
		stream:           InboundData,
		log:              &stubAppender{failures: 1 << 30},
		maxClaimAttempts: 5,
		valve:            valve,
		metrics:          m,
		logger:           zap.NewNop(),
	}

	for i := 0; i < 3; i++ {
		if pos := pub.Publish([]byte("stuck")); pos != PositionBackPressured {
			t.Fatalf("expected back-pressure sentinel, got %d", pos)
		}
	}
	if got := testutil.ToFloat64(m.FailedPublications); got != 3 {
		t.Fatalf("failed-publication counter = %v, want 3", got)
	}
	if len(valve.absorbed) != 3 {
		t.Fatalf("relief valve absorbed %d frames, want 3", len(valve.absorbed))
	}
}

func TestEnvelopeRejectsTruncation(t *testing.T) {
	env := Envelope{Kind: KindSessionAssign, SessionID: 1, LibraryID: 2, Body: []byte("abc")}
	wire := env.Encode(nil)
	if _, err := DecodeEnvelope(wire[:len(wire)-1]); err != ErrShortEnvelope {
		t.Fatalf("expected ErrShortEnvelope, got %v", err)
	}
	if _, err := DecodeEnvelope(wire[:5]); err != ErrShortEnvelope {
		t.Fatalf("expected ErrShortEnvelope, got %v", err)
	}
}
