package archiver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fixgw/infra/metrics"
	"fixgw/infra/streamlog"
	"fixgw/infra/streams"
)

type stubSink struct {
	msgs     []kafka.Message
	failures int
}

func (s *stubSink) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("broker unavailable")
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func newTestArchiver(t *testing.T, sink Sink) (*Archiver, *streams.Streams) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	str, err := streams.Open(t.TempDir(), streamlog.Options{
		SegmentSize:     1 << 20,
		SegmentDuration: time.Hour,
	}, metrics.NewEngine(prometheus.NewRegistry()), logger)
	require.NoError(t, err)
	t.Cleanup(str.Close)

	inbound, err := streams.OpenSubscription(str.Dir(streams.InboundData), streams.InboundData, 0)
	require.NoError(t, err)
	outbound, err := streams.OpenSubscription(str.Dir(streams.OutboundData), streams.OutboundData, 0)
	require.NoError(t, err)
	return NewWithSink(sink, inbound, outbound, logger), str
}

func publish(t *testing.T, str *streams.Streams, id streams.StreamID, seq uint64) {
	t.Helper()
	env := streams.Envelope{
		Kind:      streams.KindFixMessage,
		SessionID: 7,
		SeqNum:    seq,
		Epoch:     1,
		Body:      []byte("frame"),
	}
	pub := str.Publication(id, 10, streams.NoReliefValve{})
	require.NotEqual(t, streams.PositionBackPressured, pub.Publish(env.Encode(nil)))
}

func TestArchiverShipsBothStreams(t *testing.T) {
	sink := &stubSink{}
	arch, str := newTestArchiver(t, sink)

	for seq := uint64(1); seq <= 3; seq++ {
		publish(t, str, streams.InboundData, seq)
	}
	publish(t, str, streams.OutboundData, 1)

	require.Equal(t, 4, arch.PollOnce(context.Background()))
	require.Len(t, sink.msgs, 4)
	require.Equal(t, "inbound-data", string(sink.msgs[0].Key))
	require.Equal(t, "outbound-data", string(sink.msgs[3].Key))

	// Nothing new: nothing shipped.
	require.Equal(t, 0, arch.PollOnce(context.Background()))
}

func TestArchiverStopsBatchOnWriteFailure(t *testing.T) {
	sink := &stubSink{failures: 1}
	arch, str := newTestArchiver(t, sink)

	publish(t, str, streams.InboundData, 1)
	publish(t, str, streams.OutboundData, 1)

	// Inbound batch fails; the outbound stream still drains.
	require.Equal(t, 1, arch.PollOnce(context.Background()))
	require.Len(t, sink.msgs, 1)
	require.Equal(t, "outbound-data", string(sink.msgs[0].Key))
}
