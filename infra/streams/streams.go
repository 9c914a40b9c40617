// Package streams provides the ordered, durable publish/subscribe channels
// connecting the framer, the sequence index and libraries.
//
// Each logical stream is a single-writer append log. The engine owns
// publication handles; consumers hold subscriptions and drive their own
// polling. Nothing in this package blocks: publication is offered with a
// bounded number of claim attempts and subscribers poll.
package streams

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"fixgw/infra/metrics"
	"fixgw/infra/streamlog"
)

// StreamID names one of the engine's four logical channels.
type StreamID uint8

const (
	InboundData StreamID = iota + 1
	InboundControl
	OutboundData
	OutboundControl
)

func (id StreamID) String() string {
	switch id {
	case InboundData:
		return "inbound-data"
	case InboundControl:
		return "inbound-control"
	case OutboundData:
		return "outbound-data"
	case OutboundControl:
		return "outbound-control"
	}
	return fmt.Sprintf("stream-%d", id)
}

var allStreams = []StreamID{InboundData, InboundControl, OutboundData, OutboundControl}

// Streams owns the four stream logs. It hands out exactly one publication
// per stream id; single-writer-per-stream holds by construction.
type Streams struct {
	dir     string
	opts    streamlog.Options
	logs    map[StreamID]*streamlog.Log
	metrics *metrics.Engine
	logger  *zap.Logger
}

// Open creates or recovers all stream logs under dir. Failure here is a
// startup failure; the process must not come up without its log.
func Open(dir string, opts streamlog.Options, m *metrics.Engine, logger *zap.Logger) (*Streams, error) {
	s := &Streams{
		dir:     dir,
		opts:    opts,
		logs:    make(map[StreamID]*streamlog.Log, len(allStreams)),
		metrics: m,
		logger:  logger,
	}
	for _, id := range allStreams {
		l, err := streamlog.Open(filepath.Join(dir, id.String()), opts)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("open stream %s: %w", id, err)
		}
		s.logs[id] = l
	}
	return s, nil
}

// Publication returns the writer handle for a stream.
func (s *Streams) Publication(id StreamID, maxClaimAttempts int, valve ReliefValve) *Publication {
	return &Publication{
		stream:           id,
		log:              s.logs[id],
		maxClaimAttempts: maxClaimAttempts,
		valve:            valve,
		metrics:          s.metrics,
		logger:           s.logger.With(zap.String("stream", id.String())),
	}
}

// Subscription returns a polling cursor over a stream starting at from.
func (s *Streams) Subscription(id StreamID, from int64) (*Subscription, error) {
	r, err := streamlog.OpenReader(filepath.Join(s.dir, id.String()), from)
	if err != nil {
		return nil, err
	}
	return &Subscription{stream: id, reader: r}, nil
}

// Dir returns the directory a stream lives in, for out-of-process readers.
func (s *Streams) Dir(id StreamID) string {
	return filepath.Join(s.dir, id.String())
}

func (s *Streams) Sync() error {
	for _, l := range s.logs {
		if err := l.Sync(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Streams) Close() {
	for _, l := range s.logs {
		_ = l.Close()
	}
}
