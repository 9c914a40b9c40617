package seqindex

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fixgw/infra/streams"
)

// Consumer tails the inbound and outbound data streams and folds every
// framed FIX message into the index. It runs on its own goroutine and
// shares nothing with the framer; consistency with live sessions is
// eventual, bounded by log lag.
type Consumer struct {
	index    *Index
	inbound  *streams.Subscription
	outbound *streams.Subscription
	interval time.Duration
	logger   *zap.Logger
}

func NewConsumer(index *Index, inbound, outbound *streams.Subscription, logger *zap.Logger) *Consumer {
	return &Consumer{
		index:    index,
		inbound:  inbound,
		outbound: outbound,
		interval: 2 * time.Millisecond,
		logger:   logger,
	}
}

// Start runs the consume loop until ctx is cancelled. The returned
// channel closes once the loop has fully stopped, so the index can be
// closed safely afterwards.
func (c *Consumer) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.PollOnce()
			}
		}
	}()
	return done
}

// PollOnce drains whatever both streams currently hold and checkpoints.
// It returns the number of frames consumed.
func (c *Consumer) PollOnce() int {
	n := c.drain(Received, c.inbound, byte(streams.InboundData))
	n += c.drain(Sent, c.outbound, byte(streams.OutboundData))
	return n
}

func (c *Consumer) drain(dir Direction, sub *streams.Subscription, stream byte) int {
	total := 0
	for {
		n := sub.Poll(func(pos int64, payload []byte) {
			env, err := streams.DecodeEnvelope(payload)
			if err != nil {
				c.logger.Warn("undecodable frame on data stream",
					zap.Int64("position", pos), zap.Error(err))
				return
			}
			switch env.Kind {
			case streams.KindFixMessage:
				if err := c.index.Apply(dir, env.SessionID, env.Epoch, env.SeqNum, pos); err != nil {
					c.logger.Error("index apply failed", zap.Error(err))
				}
			case streams.KindSequenceReset:
				if err := c.index.BeginEpoch(dir, env.SessionID, env.Epoch, pos); err != nil {
					c.logger.Error("index epoch begin failed", zap.Error(err))
				}
			}
		}, 256)
		total += n
		if n < 256 {
			break
		}
	}
	if sub.Err() != nil {
		c.logger.Error("data stream subscription failed", zap.Error(sub.Err()))
	}
	if total > 0 {
		if err := c.index.SetCheckpoint(stream, sub.Position()); err != nil {
			c.logger.Error("checkpoint write failed", zap.Error(err))
		}
	}
	return total
}
