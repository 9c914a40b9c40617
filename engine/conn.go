package engine

import (
	"net"
	"time"

	"fixgw/domain/session"
	"fixgw/fix"
)

const writeTimeout = 2 * time.Second

type connEventKind uint8

const (
	connOpened connEventKind = iota + 1
	connFrame
	connClosed
)

// connEvent is what a connection's reader goroutine feeds the framer.
// Events for one connection arrive in order: opened, frames, closed.
type connEvent struct {
	kind  connEventKind
	conn  *connection
	frame []byte
	err   error
}

// connection is one accepted TCP connection. The reader goroutine only
// touches tcp and its own buffer; every other field belongs to the
// framer goroutine.
type connection struct {
	id  uint64
	tcp net.Conn

	sess         *session.Session // nil until the logon is admitted
	lastInbound  time.Time
	lastOutbound time.Time
	testReqAt    time.Time // zero when no TestRequest is outstanding
	resendTarget uint64    // highest sequence seen past a gap
	opened       time.Time
	closed       bool
}

// readLoop splits the byte stream into FIX frames and hands them to the
// framer. It exits on read error, on a malformed stream, or when stop
// closes; barring the last, the final event is always connClosed.
func (c *connection) readLoop(events chan<- connEvent, stop <-chan struct{}) {
	buf := make([]byte, 0, 64*1024)
	chunk := make([]byte, 16*1024)
	deliver := func(ev connEvent) bool {
		select {
		case events <- ev:
			return true
		case <-stop:
			return false
		}
	}
	for {
		n, err := c.tcp.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			for {
				length, ferr := fix.FrameLength(buf)
				if ferr != nil {
					deliver(connEvent{kind: connClosed, conn: c, err: ferr})
					return
				}
				if length == 0 {
					break
				}
				frame := make([]byte, length)
				copy(frame, buf[:length])
				buf = append(buf[:0], buf[length:]...)
				if !deliver(connEvent{kind: connFrame, conn: c, frame: frame}) {
					return
				}
			}
		}
		if err != nil {
			deliver(connEvent{kind: connClosed, conn: c, err: err})
			return
		}
	}
}

// write sends one frame with a bounded deadline so a stalled socket
// cannot stall the framer.
func (c *connection) write(frame []byte) error {
	if err := c.tcp.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	_, err := c.tcp.Write(frame)
	return err
}
