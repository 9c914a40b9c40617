package broadcaster

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/IBM/sarama"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"fixgw/infra/metrics"
	"fixgw/infra/streams"
)

// stubProducer records sent messages and can fail a configurable number
// of sends. Unused SyncProducer methods come from the embedded nil
// interface and must never be called.
type stubProducer struct {
	sarama.SyncProducer

	mu       sync.Mutex
	sent     []*sarama.ProducerMessage
	failures int
}

func (p *stubProducer) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failures > 0 {
		p.failures--
		return 0, 0, errors.New("broker unavailable")
	}
	p.sent = append(p.sent, msg)
	return 0, int64(len(p.sent)), nil
}

func (p *stubProducer) Close() error { return nil }

func newTestBroadcaster(t *testing.T) (*Broadcaster, *stubProducer) {
	t.Helper()
	producer := &stubProducer{}
	m := metrics.NewEngine(prometheus.NewRegistry())
	b := NewWithProducer(producer, "relief", m, zaptest.NewLogger(t))
	return b, producer
}

func TestAbsorbCopiesAndFlushes(t *testing.T) {
	b, producer := newTestBroadcaster(t)

	payload := []byte("8=FIX.4.4|frame")
	b.Absorb(streams.InboundData, payload)
	payload[0] = 'X' // the valve must not alias the framer's buffer
	require.Equal(t, 1, b.Buffered())

	require.Equal(t, 1, b.FlushOnce())
	require.Equal(t, 0, b.Buffered())

	require.Len(t, producer.sent, 1)
	msg := producer.sent[0]
	require.Equal(t, "relief", msg.Topic)
	key, err := msg.Key.Encode()
	require.NoError(t, err)
	require.Equal(t, "inbound-data", string(key))
	value, err := msg.Value.Encode()
	require.NoError(t, err)
	require.Equal(t, "8=FIX.4.4|frame", string(value))
}

func TestOverflowDropsOldest(t *testing.T) {
	b, producer := newTestBroadcaster(t)

	for i := 0; i < maxBuffered+3; i++ {
		b.Absorb(streams.OutboundData, []byte(fmt.Sprintf("frame-%d", i)))
	}
	require.Equal(t, maxBuffered, b.Buffered())

	require.Equal(t, maxBuffered, b.FlushOnce())
	first, err := producer.sent[0].Value.Encode()
	require.NoError(t, err)
	require.Equal(t, "frame-3", string(first), "oldest frames are shed first")
}

func TestFlushFailureKeepsUnsentTail(t *testing.T) {
	b, producer := newTestBroadcaster(t)
	producer.failures = 1

	b.Absorb(streams.InboundData, []byte("one"))
	b.Absorb(streams.InboundData, []byte("two"))
	b.Absorb(streams.InboundData, []byte("three"))

	require.Equal(t, 0, b.FlushOnce(), "first send fails, nothing ships")
	require.Equal(t, 3, b.Buffered())

	require.Equal(t, 3, b.FlushOnce())
	require.Equal(t, 0, b.Buffered())
	var got []string
	for _, msg := range producer.sent {
		value, err := msg.Value.Encode()
		require.NoError(t, err)
		got = append(got, string(value))
	}
	require.Equal(t, []string{"one", "two", "three"}, got, "retry preserves order")
}
