package streams

import (
	"encoding/binary"
	"errors"
)

// Kind tags the records carried on the engine's streams.
type Kind uint8

const (
	// KindFixMessage carries one framed FIX message on a data stream.
	KindFixMessage Kind = iota + 1
	// KindLibraryConnect announces a library attaching over the control stream.
	KindLibraryConnect
	// KindLibraryHeartbeat keeps an attached library alive.
	KindLibraryHeartbeat
	// KindSessionAssign hands a session to a library.
	KindSessionAssign
	// KindDisconnect asks the framer to drop a session, or reports a drop.
	KindDisconnect
	// KindSequenceReset marks the start of a new sequence epoch for a session.
	KindSequenceReset
)

const envelopeHeaderSize = 1 + 8 + 4 + 8 + 4 + 8 + 4

var ErrShortEnvelope = errors.New("streams: truncated envelope")

// Envelope is the record framing shared by all four streams. Body holds
// the raw FIX frame for data records and is empty or kind-specific for
// control records.
type Envelope struct {
	Kind      Kind
	SessionID uint64
	LibraryID uint32
	SeqNum    uint64
	Epoch     uint32
	Timestamp int64
	Body      []byte
}

// Encode appends the envelope's wire form to dst and returns the result.
func (e *Envelope) Encode(dst []byte) []byte {
	var header [envelopeHeaderSize]byte
	header[0] = byte(e.Kind)
	binary.LittleEndian.PutUint64(header[1:9], e.SessionID)
	binary.LittleEndian.PutUint32(header[9:13], e.LibraryID)
	binary.LittleEndian.PutUint64(header[13:21], e.SeqNum)
	binary.LittleEndian.PutUint32(header[21:25], e.Epoch)
	binary.LittleEndian.PutUint64(header[25:33], uint64(e.Timestamp))
	binary.LittleEndian.PutUint32(header[33:37], uint32(len(e.Body)))
	dst = append(dst, header[:]...)
	return append(dst, e.Body...)
}

// DecodeEnvelope parses the wire form produced by Encode. The Body slice
// aliases b.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) < envelopeHeaderSize {
		return Envelope{}, ErrShortEnvelope
	}
	bodyLen := binary.LittleEndian.Uint32(b[33:37])
	if len(b) < envelopeHeaderSize+int(bodyLen) {
		return Envelope{}, ErrShortEnvelope
	}
	return Envelope{
		Kind:      Kind(b[0]),
		SessionID: binary.LittleEndian.Uint64(b[1:9]),
		LibraryID: binary.LittleEndian.Uint32(b[9:13]),
		SeqNum:    binary.LittleEndian.Uint64(b[13:21]),
		Epoch:     binary.LittleEndian.Uint32(b[21:25]),
		Timestamp: int64(binary.LittleEndian.Uint64(b[25:33])),
		Body:      b[envelopeHeaderSize : envelopeHeaderSize+bodyLen],
	}, nil
}
