// Package fix carries the thin wire layer the engine needs from the FIX
// protocol: frame splitting, checksum validation, the session-level tags,
// and building of administrative messages. The full dictionary-driven
// codec is an external collaborator behind the Decoder interface; the
// built-in TagDecoder is a raw single-pass scanner over exactly the tags
// the framer consumes.
package fix

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// SOH is the FIX field delimiter.
const SOH = 0x01

var (
	ErrMalformedFrame = errors.New("fix: malformed frame")
	ErrBadChecksum    = errors.New("fix: checksum mismatch")
)

var (
	beginStringPrefix = []byte("8=FIX")
	bodyLengthPrefix  = []byte{SOH, '9', '='}
	checksumPrefix    = []byte{SOH, '1', '0', '='}
)

// FrameLength inspects buffered bytes for one complete FIX frame at the
// start of buf. It returns the frame's total length, zero when the frame
// is still incomplete, or an error when the bytes cannot be the start of
// a well-formed frame.
func FrameLength(buf []byte) (int, error) {
	if len(buf) < len(beginStringPrefix) {
		if !bytes.HasPrefix(beginStringPrefix, buf) {
			return 0, ErrMalformedFrame
		}
		return 0, nil
	}
	if !bytes.HasPrefix(buf, beginStringPrefix) {
		return 0, ErrMalformedFrame
	}

	lenStart := bytes.Index(buf, bodyLengthPrefix)
	if lenStart < 0 {
		if len(buf) > 32 {
			return 0, ErrMalformedFrame
		}
		return 0, nil
	}
	lenStart += len(bodyLengthPrefix)
	lenEnd := bytes.IndexByte(buf[lenStart:], SOH)
	if lenEnd < 0 {
		if len(buf)-lenStart > 16 {
			return 0, ErrMalformedFrame
		}
		return 0, nil
	}
	bodyLen, err := strconv.Atoi(string(buf[lenStart : lenStart+lenEnd]))
	if err != nil || bodyLen < 0 {
		return 0, ErrMalformedFrame
	}

	// Body runs from the byte after the BodyLength SOH; the trailer is
	// "10=NNN<SOH>".
	bodyStart := lenStart + lenEnd + 1
	trailerStart := bodyStart + bodyLen
	total := trailerStart + 7
	if len(buf) < total {
		return 0, nil
	}
	if !bytes.HasPrefix(buf[trailerStart-1:], checksumPrefix) || buf[total-1] != SOH {
		return 0, ErrMalformedFrame
	}
	return total, nil
}

// Validate checks a complete frame's CheckSum(10).
func Validate(frame []byte) error {
	tail := bytes.LastIndex(frame, checksumPrefix)
	if tail < 0 || len(frame) != tail+8 {
		return ErrMalformedFrame
	}
	want, err := strconv.Atoi(string(frame[tail+4 : tail+7]))
	if err != nil {
		return ErrMalformedFrame
	}
	var sum int
	for _, b := range frame[:tail+1] {
		sum += int(b)
	}
	if sum%256 != want {
		return fmt.Errorf("%w: computed %03d, frame says %03d", ErrBadChecksum, sum%256, want)
	}
	return nil
}
