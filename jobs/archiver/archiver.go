// Package archiver tails the data streams and ships every record to
// Kafka for retention beyond the local segment history. It reads the
// stream directories directly, so it works against a live engine or a
// cold data directory.
package archiver

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"fixgw/infra/streams"
)

const pollInterval = 100 * time.Millisecond

// Sink is the slice of kafka.Writer the archiver uses; tests stub it.
type Sink interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type Archiver struct {
	sink     Sink
	inbound  *streams.Subscription
	outbound *streams.Subscription
	logger   *zap.Logger
}

// New opens cursors over both data streams under dataDir and writes to
// topic. Positions restart from zero on every run; the topic is expected
// to be compacted or idempotently consumed.
func New(brokers []string, topic, inboundDir, outboundDir string, logger *zap.Logger) (*Archiver, error) {
	inbound, err := streams.OpenSubscription(inboundDir, streams.InboundData, 0)
	if err != nil {
		return nil, err
	}
	outbound, err := streams.OpenSubscription(outboundDir, streams.OutboundData, 0)
	if err != nil {
		inbound.Close()
		return nil, err
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
	}
	return NewWithSink(writer, inbound, outbound, logger), nil
}

func NewWithSink(sink Sink, inbound, outbound *streams.Subscription, logger *zap.Logger) *Archiver {
	return &Archiver{sink: sink, inbound: inbound, outbound: outbound, logger: logger}
}

// Start polls both streams until ctx is cancelled.
func (a *Archiver) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer a.inbound.Close()
		defer a.outbound.Close()
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.PollOnce(ctx)
			}
		}
	}()
	return done
}

// PollOnce drains whatever both streams hold right now and returns the
// number of records shipped.
func (a *Archiver) PollOnce(ctx context.Context) int {
	return a.drain(ctx, a.inbound) + a.drain(ctx, a.outbound)
}

func (a *Archiver) drain(ctx context.Context, sub *streams.Subscription) int {
	total := 0
	for {
		var batch []kafka.Message
		sub.Poll(func(pos int64, payload []byte) {
			value := make([]byte, len(payload))
			copy(value, payload)
			batch = append(batch, kafka.Message{
				Key:   []byte(sub.Stream().String()),
				Value: value,
			})
		}, 128)
		if len(batch) == 0 {
			break
		}
		if err := a.sink.WriteMessages(ctx, batch...); err != nil {
			// Positions advance only on success next run; losing a batch
			// here means re-reading it after restart.
			a.logger.Warn("archive write failed", zap.Error(err))
			return total
		}
		total += len(batch)
	}
	if err := sub.Err(); err != nil {
		a.logger.Error("archive stream failed", zap.Stringer("stream", sub.Stream()), zap.Error(err))
	}
	return total
}
