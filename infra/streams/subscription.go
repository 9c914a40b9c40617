package streams

import (
	"fixgw/infra/streamlog"
)

// Handler consumes one frame at a position.
type Handler func(pos int64, payload []byte)

// Subscription is a caller-driven cursor over one stream. Poll never
// blocks; it returns the number of frames delivered.
type Subscription struct {
	stream StreamID
	reader *streamlog.Reader
}

// OpenSubscription opens a cursor over a stream directory without going
// through a Streams instance, for consumers that outlive or predate the
// writer (index rebuild, archival).
func OpenSubscription(dir string, id StreamID, from int64) (*Subscription, error) {
	r, err := streamlog.OpenReader(dir, from)
	if err != nil {
		return nil, err
	}
	return &Subscription{stream: id, reader: r}, nil
}

func (s *Subscription) Poll(handler Handler, fragmentLimit int) int {
	n := 0
	for n < fragmentLimit && s.reader.Next() {
		handler(s.reader.Position(), s.reader.Payload())
		n++
	}
	return n
}

// Position returns the position the subscription will read next.
func (s *Subscription) Position() int64 { return s.reader.NextPosition() }

func (s *Subscription) Stream() StreamID { return s.stream }

func (s *Subscription) Err() error { return s.reader.Err() }

func (s *Subscription) Close() error { return s.reader.Close() }
