// Package sessionids persists the mapping from a session's identity tuple
// to its surrogate id. The mapping survives restarts; a tuple keeps its
// surrogate id for the lifetime of the store.
//
// All access runs on the framer goroutine (directly or serialized through
// the admin-command queue), so the store carries no lock of its own.
package sessionids

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/pebble"

	"fixgw/domain/session"
)

var (
	identPrefix = []byte("ident/")
	identEnd    = []byte("ident0")
	nextKey     = []byte("meta/next")
)

// ErrSessionsConnected is returned by the engine when a reset is refused
// because sessions are still live. Declared here so admin callers can
// branch on it without importing the engine.
var ErrSessionsConnected = errors.New("sessionids: sessions currently connected")

type Store struct {
	db   *pebble.DB
	next uint64
}

func Open(dir string) (*Store, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open session-id store: %w", err)
	}
	s := &Store{db: db}
	if err := s.loadCounter(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadCounter() error {
	val, closer, err := s.db.Get(nextKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			s.next = 0
			return nil
		}
		return err
	}
	defer closer.Close()
	if len(val) != 8 {
		return errors.New("sessionids: corrupt allocation counter")
	}
	s.next = binary.BigEndian.Uint64(val)
	return nil
}

// OnLogon resolves an identity tuple to its surrogate id, allocating and
// persisting a fresh monotonically increasing id for a new tuple. The
// mapping is durable before the id is returned.
func (s *Store) OnLogon(key session.Key) (uint64, error) {
	ident := identKey(key)
	val, closer, err := s.db.Get(ident)
	if err == nil {
		defer closer.Close()
		if len(val) != 8 {
			return 0, errors.New("sessionids: corrupt id record")
		}
		return binary.BigEndian.Uint64(val), nil
	}
	if !errors.Is(err, pebble.ErrNotFound) {
		return 0, err
	}

	id := s.next + 1
	var idBuf, nextBuf [8]byte
	binary.BigEndian.PutUint64(idBuf[:], id)
	binary.BigEndian.PutUint64(nextBuf[:], id)

	batch := s.db.NewBatch()
	if err := batch.Set(ident, idBuf[:], nil); err != nil {
		return 0, err
	}
	if err := batch.Set(nextKey, nextBuf[:], nil); err != nil {
		return 0, err
	}
	if err := s.db.Apply(batch, pebble.Sync); err != nil {
		return 0, err
	}
	s.next = id
	return id, nil
}

// Lookup returns the surrogate id for a tuple without allocating.
func (s *Store) Lookup(key session.Key) (uint64, bool, error) {
	val, closer, err := s.db.Get(identKey(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, false, errors.New("sessionids: corrupt id record")
	}
	return binary.BigEndian.Uint64(val), true, nil
}

// Count returns the number of known identity tuples.
func (s *Store) Count() (int, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: identPrefix, UpperBound: identEnd})
	if err != nil {
		return 0, err
	}
	defer iter.Close()
	n := 0
	for iter.First(); iter.Valid(); iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Reset backs up the current mapping (when backupPath is non-empty) and
// clears it, all-or-nothing. The caller must have verified that no
// session under the mapping is connected.
func (s *Store) Reset(backupPath string) error {
	if backupPath != "" {
		f, err := os.Create(backupPath)
		if err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
		if err := s.Export(f); err != nil {
			f.Close()
			_ = os.Remove(backupPath)
			return fmt.Errorf("write backup: %w", err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(backupPath)
			return fmt.Errorf("close backup: %w", err)
		}
	}

	var zero [8]byte
	batch := s.db.NewBatch()
	if err := batch.DeleteRange(identPrefix, identEnd, nil); err != nil {
		return err
	}
	if err := batch.Set(nextKey, zero[:], nil); err != nil {
		return err
	}
	if err := s.db.Apply(batch, pebble.Sync); err != nil {
		return err
	}
	s.next = 0
	return nil
}

// Export writes a deterministic serialization of the mapping: the
// allocation counter followed by each (tuple, id) pair in key order,
// length-prefixed. Equal store contents always export equal bytes.
func (s *Store) Export(w io.Writer) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], s.next)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}

	iter, err := s.db.NewIter(&pebble.IterOptions{LowerBound: identPrefix, UpperBound: identEnd})
	if err != nil {
		return err
	}
	defer iter.Close()

	var lenBuf [4]byte
	for iter.First(); iter.Valid(); iter.Next() {
		key := bytes.TrimPrefix(iter.Key(), identPrefix)
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(key)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return err
		}
		if _, err := w.Write(key); err != nil {
			return err
		}
		if _, err := w.Write(iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

func identKey(key session.Key) []byte {
	enc := key.Encode()
	out := make([]byte, 0, len(identPrefix)+len(enc))
	out = append(out, identPrefix...)
	return append(out, enc...)
}
