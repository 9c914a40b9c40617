package fix

import (
	"fmt"
	"strconv"
	"time"
)

// Identity is one side's routing triple for outbound headers.
type Identity struct {
	CompID     string
	SubID      string
	LocationID string
}

// Builder assembles outbound administrative messages with correct
// BodyLength and CheckSum. A zero Builder speaks FIX.4.4.
type Builder struct {
	BeginString string
}

// Field is one tag=value pair beyond the standard header.
type Field struct {
	Tag string
	Val string
}

// Build assembles an arbitrary message type. Business traffic submitted by
// libraries goes through here; the sequence number in h still comes from
// the session that owns the connection.
func (b *Builder) Build(msgType string, h Header, fields []Field) []byte {
	return b.build(msgType, h, fields)
}

// Header carries everything the standard header needs beyond the builder
// itself.
type Header struct {
	Sender      Identity
	Target      Identity
	SeqNum      uint64
	SendingTime time.Time
}

func (b *Builder) Logon(h Header, heartBtInt int, resetSeqNum bool) []byte {
	fields := []Field{{"98", "0"}, {"108", strconv.Itoa(heartBtInt)}}
	if resetSeqNum {
		fields = append(fields, Field{"141", "Y"})
	}
	return b.build(MsgTypeLogon, h, fields)
}

func (b *Builder) Logout(h Header, text string) []byte {
	var fields []Field
	if text != "" {
		fields = append(fields, Field{"58", text})
	}
	return b.build(MsgTypeLogout, h, fields)
}

func (b *Builder) Reject(h Header, refSeqNum uint64, text string) []byte {
	fields := []Field{{"45", strconv.FormatUint(refSeqNum, 10)}}
	if text != "" {
		fields = append(fields, Field{"58", text})
	}
	return b.build(MsgTypeReject, h, fields)
}

func (b *Builder) Heartbeat(h Header, testReqID string) []byte {
	var fields []Field
	if testReqID != "" {
		fields = append(fields, Field{"112", testReqID})
	}
	return b.build(MsgTypeHeartbeat, h, fields)
}

func (b *Builder) TestRequest(h Header, testReqID string) []byte {
	return b.build(MsgTypeTestRequest, h, []Field{{"112", testReqID}})
}

func (b *Builder) ResendRequest(h Header, beginSeqNo, endSeqNo uint64) []byte {
	return b.build(MsgTypeResendRequest, h, []Field{
		{"7", strconv.FormatUint(beginSeqNo, 10)},
		{"16", strconv.FormatUint(endSeqNo, 10)},
	})
}

func (b *Builder) SequenceReset(h Header, newSeqNo uint64, gapFill bool) []byte {
	fields := []Field{{"36", strconv.FormatUint(newSeqNo, 10)}}
	if gapFill {
		fields = append(fields, Field{"123", "Y"})
	}
	return b.build(MsgTypeSequenceReset, h, fields)
}

func (b *Builder) build(msgType string, h Header, fields []Field) []byte {
	begin := b.BeginString
	if begin == "" {
		begin = "FIX.4.4"
	}
	sendingTime := h.SendingTime
	if sendingTime.IsZero() {
		sendingTime = time.Now().UTC()
	}

	body := make([]byte, 0, 256)
	body = appendField(body, "35", msgType)
	body = appendField(body, "49", h.Sender.CompID)
	if h.Sender.SubID != "" {
		body = appendField(body, "50", h.Sender.SubID)
	}
	if h.Sender.LocationID != "" {
		body = appendField(body, "142", h.Sender.LocationID)
	}
	body = appendField(body, "56", h.Target.CompID)
	if h.Target.SubID != "" {
		body = appendField(body, "57", h.Target.SubID)
	}
	if h.Target.LocationID != "" {
		body = appendField(body, "143", h.Target.LocationID)
	}
	body = appendField(body, "34", strconv.FormatUint(h.SeqNum, 10))
	body = appendField(body, "52", sendingTime.UTC().Format(SendingTimeLayout))
	for _, f := range fields {
		body = appendField(body, f.Tag, f.Val)
	}

	frame := make([]byte, 0, len(body)+32)
	frame = appendField(frame, "8", begin)
	frame = appendField(frame, "9", strconv.Itoa(len(body)))
	frame = append(frame, body...)

	var sum int
	for _, c := range frame {
		sum += int(c)
	}
	frame = appendField(frame, "10", fmt.Sprintf("%03d", sum%256))
	return frame
}

func appendField(dst []byte, tag, val string) []byte {
	dst = append(dst, tag...)
	dst = append(dst, '=')
	dst = append(dst, val...)
	return append(dst, SOH)
}
