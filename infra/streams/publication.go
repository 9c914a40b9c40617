package streams

import (
	"errors"

	"go.uber.org/zap"

	"fixgw/infra/metrics"
)

// PositionBackPressured is returned when a publish gave up after its
// bounded claim attempts. The caller backs off and retries on its next
// duty cycle; it must never spin on the publication.
const PositionBackPressured int64 = -1

// ErrBackPressure is returned by an Appender that cannot accept a frame
// right now. The file-backed log never returns it; replicated or
// rate-limited substrates do.
var ErrBackPressure = errors.New("streams: back pressured")

// Appender is the single-writer append substrate beneath a publication.
type Appender interface {
	Append(payload []byte) (int64, error)
}

// ReliefValve absorbs frames that could not be published, so one stalled
// stream cannot stall the connection that produced the frame.
type ReliefValve interface {
	Absorb(stream StreamID, payload []byte)
}

// NoReliefValve drops absorbed frames and counts them.
type NoReliefValve struct {
	Metrics *metrics.Engine
}

func (v NoReliefValve) Absorb(StreamID, []byte) {
	if v.Metrics != nil {
		v.Metrics.ReliefValveDrops.Inc()
	}
}

// Publication is the fire-and-forget writer handle for one stream.
type Publication struct {
	stream           StreamID
	log              Appender
	maxClaimAttempts int
	valve            ReliefValve
	metrics          *metrics.Engine
	logger           *zap.Logger
}

// Publish appends one frame and returns its position. On persistent
// back-pressure it hands the frame to the relief valve, increments the
// failed-publication counter and returns PositionBackPressured.
func (p *Publication) Publish(payload []byte) int64 {
	for attempt := 0; attempt < p.maxClaimAttempts; attempt++ {
		pos, err := p.log.Append(payload)
		if err == nil {
			return pos
		}
		if !errors.Is(err, ErrBackPressure) {
			// Substrate faults at runtime are treated as back-pressure,
			// not a crash; the frame still reaches the relief valve.
			p.logger.Warn("stream append failed", zap.Error(err))
			break
		}
	}
	p.metrics.FailedPublications.Inc()
	if p.valve != nil {
		p.valve.Absorb(p.stream, payload)
	}
	return PositionBackPressured
}

func (p *Publication) Stream() StreamID { return p.stream }
