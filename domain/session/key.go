// Package session models a FIX counterparty session: its identity tuple,
// its surrogate id, its sequence counters and the connection state
// machine. The package is pure domain logic; all I/O lives in the engine
// and infra layers.
package session

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Key is the six-field identity tuple of a FIX session. At most one live
// session exists per key at any time; the surrogate id assigned to a key
// is stable across reconnects and restarts.
type Key struct {
	LocalCompID      string
	LocalSubID       string
	LocalLocationID  string
	RemoteCompID     string
	RemoteSubID      string
	RemoteLocationID string
}

var ErrShortKey = errors.New("session: truncated key encoding")

func (k Key) String() string {
	return fmt.Sprintf("%s->%s", k.LocalCompID, k.RemoteCompID)
}

// Encode produces a stable binary form usable as a store key: each field
// length-prefixed with a uint16, in declaration order.
func (k Key) Encode() []byte {
	fields := [...]string{
		k.LocalCompID, k.LocalSubID, k.LocalLocationID,
		k.RemoteCompID, k.RemoteSubID, k.RemoteLocationID,
	}
	size := 0
	for _, f := range fields {
		size += 2 + len(f)
	}
	out := make([]byte, 0, size)
	for _, f := range fields {
		var n [2]byte
		binary.BigEndian.PutUint16(n[:], uint16(len(f)))
		out = append(out, n[:]...)
		out = append(out, f...)
	}
	return out
}

// DecodeKey parses the form produced by Encode.
func DecodeKey(b []byte) (Key, error) {
	var fields [6]string
	for i := range fields {
		if len(b) < 2 {
			return Key{}, ErrShortKey
		}
		n := int(binary.BigEndian.Uint16(b[:2]))
		b = b[2:]
		if len(b) < n {
			return Key{}, ErrShortKey
		}
		fields[i] = string(b[:n])
		b = b[n:]
	}
	return Key{
		LocalCompID:      fields[0],
		LocalSubID:       fields[1],
		LocalLocationID:  fields[2],
		RemoteCompID:     fields[3],
		RemoteSubID:      fields[4],
		RemoteLocationID: fields[5],
	}, nil
}
