package fix

import (
	"bytes"
	"errors"
	"strconv"
	"time"
)

// Message type values the framer dispatches on.
const (
	MsgTypeHeartbeat     = "0"
	MsgTypeTestRequest   = "1"
	MsgTypeResendRequest = "2"
	MsgTypeReject        = "3"
	MsgTypeSequenceReset = "4"
	MsgTypeLogout        = "5"
	MsgTypeLogon         = "A"
)

// SendingTimeLayout is the FIX UTCTimestamp format with milliseconds.
const SendingTimeLayout = "20060102-15:04:05.000"

var ErrMissingField = errors.New("fix: required session field missing")

// Message holds the session-level view of one frame. Raw aliases the
// original frame bytes.
type Message struct {
	MsgType string
	SeqNum  uint64

	SenderCompID     string
	SenderSubID      string
	SenderLocationID string
	TargetCompID     string
	TargetSubID      string
	TargetLocationID string

	SendingTime time.Time
	PossDup     bool

	// Logon fields.
	HeartBtInt  int
	ResetSeqNum bool
	Username    string
	Password    string

	// ResendRequest fields.
	BeginSeqNo uint64
	EndSeqNo   uint64

	// SequenceReset fields.
	GapFill  bool
	NewSeqNo uint64

	TestReqID string
	Text      string

	Raw []byte
}

// Admin reports whether the message is session-level rather than business
// traffic.
func (m *Message) Admin() bool {
	switch m.MsgType {
	case MsgTypeHeartbeat, MsgTypeTestRequest, MsgTypeResendRequest,
		MsgTypeReject, MsgTypeSequenceReset, MsgTypeLogout, MsgTypeLogon:
		return true
	}
	return false
}

// Decoder extracts the session-level fields from a complete frame. The
// engine is wired with the built-in TagDecoder; a dictionary-driven codec
// can replace it without touching the framer.
type Decoder interface {
	Decode(frame []byte) (Message, error)
}

// TagDecoder scans tag=value pairs in a single pass. It deliberately
// ignores every tag the framer does not consume.
type TagDecoder struct{}

func (TagDecoder) Decode(frame []byte) (Message, error) {
	msg := Message{Raw: frame}
	rest := frame
	for len(rest) > 0 {
		eq := bytes.IndexByte(rest, '=')
		if eq < 0 {
			break
		}
		end := bytes.IndexByte(rest[eq:], SOH)
		if end < 0 {
			break
		}
		tag := string(rest[:eq])
		val := rest[eq+1 : eq+end]
		rest = rest[eq+end+1:]

		switch tag {
		case "35":
			msg.MsgType = string(val)
		case "34":
			n, err := strconv.ParseUint(string(val), 10, 64)
			if err != nil {
				return msg, errors.New("fix: bad MsgSeqNum")
			}
			msg.SeqNum = n
		case "49":
			msg.SenderCompID = string(val)
		case "50":
			msg.SenderSubID = string(val)
		case "142":
			msg.SenderLocationID = string(val)
		case "56":
			msg.TargetCompID = string(val)
		case "57":
			msg.TargetSubID = string(val)
		case "143":
			msg.TargetLocationID = string(val)
		case "52":
			ts, err := time.Parse(SendingTimeLayout, string(val))
			if err != nil {
				// Seconds-precision timestamps are legal too.
				ts, err = time.Parse("20060102-15:04:05", string(val))
				if err != nil {
					return msg, errors.New("fix: bad SendingTime")
				}
			}
			msg.SendingTime = ts
		case "43":
			msg.PossDup = len(val) == 1 && val[0] == 'Y'
		case "108":
			n, err := strconv.Atoi(string(val))
			if err != nil {
				return msg, errors.New("fix: bad HeartBtInt")
			}
			msg.HeartBtInt = n
		case "141":
			msg.ResetSeqNum = len(val) == 1 && val[0] == 'Y'
		case "553":
			msg.Username = string(val)
		case "554":
			msg.Password = string(val)
		case "7":
			n, _ := strconv.ParseUint(string(val), 10, 64)
			msg.BeginSeqNo = n
		case "16":
			n, _ := strconv.ParseUint(string(val), 10, 64)
			msg.EndSeqNo = n
		case "123":
			msg.GapFill = len(val) == 1 && val[0] == 'Y'
		case "36":
			n, _ := strconv.ParseUint(string(val), 10, 64)
			msg.NewSeqNo = n
		case "112":
			msg.TestReqID = string(val)
		case "58":
			msg.Text = string(val)
		}
	}

	if msg.MsgType == "" || msg.SeqNum == 0 {
		return msg, ErrMissingField
	}
	if msg.SenderCompID == "" || msg.TargetCompID == "" {
		return msg, ErrMissingField
	}
	return msg, nil
}
