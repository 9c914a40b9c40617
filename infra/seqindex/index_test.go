package seqindex

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"fixgw/infra/metrics"
	"fixgw/infra/streamlog"
	"fixgw/infra/streams"

	"github.com/prometheus/client_golang/prometheus"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	x, err := Open(filepath.Join(t.TempDir(), "index"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { x.Close() })
	return x
}

func TestApplyContiguous(t *testing.T) {
	x := openTestIndex(t)

	for seq := uint64(1); seq <= 5; seq++ {
		if err := x.Apply(Received, 9, 0, seq, int64(100*seq)); err != nil {
			t.Fatalf("apply seq %d: %v", seq, err)
		}
	}
	e, ok, err := x.LastKnown(Received, 9)
	if err != nil || !ok {
		t.Fatalf("last known: ok=%v err=%v", ok, err)
	}
	if e.SeqNum != 5 || e.Position != 500 {
		t.Fatalf("unexpected entry %+v", e)
	}
}

func TestApplyGapIsHeldThenFolded(t *testing.T) {
	x := openTestIndex(t)

	x.Apply(Received, 3, 0, 1, 10)
	// 3 and 4 arrive before 2; the frontier must hold at 1.
	x.Apply(Received, 3, 0, 3, 30)
	x.Apply(Received, 3, 0, 4, 40)

	e, ok, _ := x.LastKnown(Received, 3)
	if !ok || e.SeqNum != 1 {
		t.Fatalf("frontier advanced across a gap: %+v", e)
	}

	// The gap fills; pending entries fold in.
	if err := x.Apply(Received, 3, 0, 2, 20); err != nil {
		t.Fatal(err)
	}
	e, ok, _ = x.LastKnown(Received, 3)
	if !ok || e.SeqNum != 4 || e.Position != 40 {
		t.Fatalf("pending fold failed: %+v", e)
	}
}

func TestApplyDuplicateIsIgnored(t *testing.T) {
	x := openTestIndex(t)
	x.Apply(Received, 3, 0, 1, 10)
	x.Apply(Received, 3, 0, 2, 20)
	if err := x.Apply(Received, 3, 0, 1, 999); err != nil {
		t.Fatal(err)
	}
	e, _, _ := x.LastKnown(Received, 3)
	if e.SeqNum != 2 || e.Position != 20 {
		t.Fatalf("duplicate moved the frontier: %+v", e)
	}
}

func TestEpochsArePartitioned(t *testing.T) {
	x := openTestIndex(t)

	// Epoch 0 reaches seq 7; a logon-driven reset starts epoch 1.
	for seq := uint64(1); seq <= 7; seq++ {
		x.Apply(Received, 5, 0, seq, int64(seq))
	}
	x.BeginEpoch(Received, 5, 1, 100)
	x.Apply(Received, 5, 1, 1, 101)

	e, ok, _ := x.LastKnown(Received, 5)
	if !ok || e.Epoch != 1 || e.SeqNum != 1 {
		t.Fatalf("expected newest epoch to win: %+v", e)
	}
}

func TestSentAndReceivedAreIndependent(t *testing.T) {
	x := openTestIndex(t)
	x.Apply(Received, 2, 0, 1, 10)
	x.Apply(Sent, 2, 0, 1, 11)
	x.Apply(Sent, 2, 0, 2, 12)

	recv, _, _ := x.LastKnown(Received, 2)
	sent, _, _ := x.LastKnown(Sent, 2)
	if recv.SeqNum != 1 || sent.SeqNum != 2 {
		t.Fatalf("directions bled together: recv=%+v sent=%+v", recv, sent)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	x := openTestIndex(t)
	if pos, err := x.Checkpoint(1); err != nil || pos != 0 {
		t.Fatalf("fresh checkpoint: pos=%d err=%v", pos, err)
	}
	if err := x.SetCheckpoint(1, 4096); err != nil {
		t.Fatal(err)
	}
	pos, err := x.Checkpoint(1)
	if err != nil || pos != 4096 {
		t.Fatalf("checkpoint: pos=%d err=%v", pos, err)
	}
}

func TestOpenDiscardsCorruptStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	// A pebble store is a directory of sst/manifest files; garbage in
	// CURRENT makes it unopenable.
	if err := os.WriteFile(filepath.Join(dir, "CURRENT"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	x, err := Open(dir, zap.NewNop())
	if err != nil {
		t.Fatalf("expected rebuild of corrupt store, got %v", err)
	}
	defer x.Close()

	// Fresh store: no entries, checkpoint back at zero.
	if _, ok, _ := x.LastKnown(Received, 1); ok {
		t.Fatal("rebuilt store should be empty")
	}
	if pos, _ := x.Checkpoint(byte(streams.InboundData)); pos != 0 {
		t.Fatalf("rebuilt store should restart replay at zero, got %d", pos)
	}
}

func TestConsumerIndexesPublishedTraffic(t *testing.T) {
	base := t.TempDir()
	m := metrics.NewEngine(prometheus.NewRegistry())
	st, err := streams.Open(filepath.Join(base, "streams"), streamlog.Options{}, m, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	x, err := Open(filepath.Join(base, "index"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer x.Close()

	inPub := st.Publication(streams.InboundData, 3, nil)
	outPub := st.Publication(streams.OutboundData, 3, nil)
	for seq := uint64(1); seq <= 3; seq++ {
		env := streams.Envelope{
			Kind:      streams.KindFixMessage,
			SessionID: 12,
			SeqNum:    seq,
			Timestamp: time.Now().UnixNano(),
			Body:      []byte("frame"),
		}
		if pos := inPub.Publish(env.Encode(nil)); pos == streams.PositionBackPressured {
			t.Fatal("publish failed")
		}
	}
	outEnv := streams.Envelope{Kind: streams.KindFixMessage, SessionID: 12, SeqNum: 1}
	outPub.Publish(outEnv.Encode(nil))

	inSub, err := st.Subscription(streams.InboundData, 0)
	if err != nil {
		t.Fatal(err)
	}
	outSub, err := st.Subscription(streams.OutboundData, 0)
	if err != nil {
		t.Fatal(err)
	}
	c := NewConsumer(x, inSub, outSub, zap.NewNop())

	if n := c.PollOnce(); n != 4 {
		t.Fatalf("consumed %d frames, want 4", n)
	}

	recv, ok, err := x.LastKnown(Received, 12)
	if err != nil || !ok || recv.SeqNum != 3 {
		t.Fatalf("received index: %+v ok=%v err=%v", recv, ok, err)
	}
	sent, ok, err := x.LastKnown(Sent, 12)
	if err != nil || !ok || sent.SeqNum != 1 {
		t.Fatalf("sent index: %+v ok=%v err=%v", sent, ok, err)
	}
	if pos, _ := x.Checkpoint(byte(streams.InboundData)); pos != inSub.Position() {
		t.Fatalf("checkpoint %d != subscription position %d", pos, inSub.Position())
	}
}

func TestRebuildFromLogAfterIndexLoss(t *testing.T) {
	base := t.TempDir()
	m := metrics.NewEngine(prometheus.NewRegistry())
	st, err := streams.Open(filepath.Join(base, "streams"), streamlog.Options{}, m, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	pub := st.Publication(streams.InboundData, 3, nil)
	for seq := uint64(1); seq <= 5; seq++ {
		env := streams.Envelope{Kind: streams.KindFixMessage, SessionID: 8, SeqNum: seq}
		pub.Publish(env.Encode(nil))
	}

	indexDir := filepath.Join(base, "index")
	build := func() *Index {
		x, err := Open(indexDir, zap.NewNop())
		if err != nil {
			t.Fatal(err)
		}
		from, err := x.Checkpoint(byte(streams.InboundData))
		if err != nil {
			t.Fatal(err)
		}
		inSub, err := st.Subscription(streams.InboundData, from)
		if err != nil {
			t.Fatal(err)
		}
		outSub, err := st.Subscription(streams.OutboundData, 0)
		if err != nil {
			t.Fatal(err)
		}
		NewConsumer(x, inSub, outSub, zap.NewNop()).PollOnce()
		return x
	}

	x := build()
	e, ok, _ := x.LastKnown(Received, 8)
	if !ok || e.SeqNum != 5 {
		t.Fatalf("initial build: %+v", e)
	}
	x.Close()

	// Lose the index entirely; the log rebuilds it.
	if err := os.RemoveAll(indexDir); err != nil {
		t.Fatal(err)
	}
	x2 := build()
	defer x2.Close()
	e, ok, _ = x2.LastKnown(Received, 8)
	if !ok || e.SeqNum != 5 {
		t.Fatalf("rebuild from log: %+v ok=%v", e, ok)
	}
}
