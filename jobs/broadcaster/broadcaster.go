// Package broadcaster is the Kafka-backed relief valve. Frames the
// framer could not publish under back-pressure land in a bounded buffer
// here and are drained to a topic, so shed traffic is late rather than
// lost. When even the buffer overflows, the oldest frames are dropped
// and counted.
package broadcaster

import (
	"context"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"fixgw/infra/metrics"
	"fixgw/infra/streams"
)

const (
	maxBuffered   = 4096
	flushInterval = 250 * time.Millisecond
)

type entry struct {
	stream  streams.StreamID
	payload []byte
}

type Broadcaster struct {
	producer sarama.SyncProducer
	topic    string
	metrics  *metrics.Engine
	logger   *zap.Logger

	mu  sync.Mutex
	buf []entry
}

func New(brokers []string, topic string, m *metrics.Engine, logger *zap.Logger) (*Broadcaster, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithProducer(producer, topic, m, logger), nil
}

// NewWithProducer wires an existing producer; tests inject a stub here.
func NewWithProducer(producer sarama.SyncProducer, topic string, m *metrics.Engine, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		producer: producer,
		topic:    topic,
		metrics:  m,
		logger:   logger,
	}
}

// Absorb implements streams.ReliefValve. It runs on the framer goroutine
// and must not block: it copies the frame into the buffer and returns.
func (b *Broadcaster) Absorb(stream streams.StreamID, payload []byte) {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	b.mu.Lock()
	if len(b.buf) >= maxBuffered {
		b.buf = b.buf[1:]
		if b.metrics != nil {
			b.metrics.ReliefValveDrops.Inc()
		}
	}
	b.buf = append(b.buf, entry{stream: stream, payload: cp})
	b.mu.Unlock()
}

// Buffered returns the number of frames awaiting a flush.
func (b *Broadcaster) Buffered() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.buf)
}

// Start drains the buffer periodically until ctx is cancelled, then
// once more on the way out.
func (b *Broadcaster) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(flushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				b.FlushOnce()
				return
			case <-ticker.C:
				b.FlushOnce()
			}
		}
	}()
	return done
}

// FlushOnce sends everything currently buffered and returns the number
// of frames shipped. A send failure puts the unsent tail back for the
// next tick.
func (b *Broadcaster) FlushOnce() int {
	b.mu.Lock()
	pending := b.buf
	b.buf = nil
	b.mu.Unlock()

	sent := 0
	for i, e := range pending {
		msg := &sarama.ProducerMessage{
			Topic: b.topic,
			Key:   sarama.StringEncoder(e.stream.String()),
			Value: sarama.ByteEncoder(e.payload),
		}
		if _, _, err := b.producer.SendMessage(msg); err != nil {
			b.logger.Warn("relief publish failed, will retry",
				zap.Int("remaining", len(pending)-i), zap.Error(err))
			b.mu.Lock()
			b.buf = append(pending[i:], b.buf...)
			b.mu.Unlock()
			return sent
		}
		sent++
	}
	return sent
}

func (b *Broadcaster) Close() error {
	return b.producer.Close()
}
