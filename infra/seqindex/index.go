// Package seqindex maintains the durable mapping from (session, epoch) to
// the highest contiguous sequence number observed on the log and its
// position. It consumes the stream log asynchronously; the framer never
// waits for it. The index is a cache over the log: corruption is never
// fatal, it only forces a rebuild from position zero.
package seqindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

// Direction distinguishes the received and sent sequence families.
type Direction byte

const (
	Received Direction = 'r'
	Sent     Direction = 's'
)

// Entry is the indexed high-water mark for one (session, epoch).
type Entry struct {
	SeqNum   uint64
	Epoch    uint32
	Position int64
}

type Index struct {
	db     *pebble.DB
	logger *zap.Logger
}

// Open opens the index store. A store that cannot be opened is discarded
// and recreated empty; the consumer will then rebuild it by replaying the
// log from position zero.
func Open(dir string, logger *zap.Logger) (*Index, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		logger.Warn("sequence index unreadable, rebuilding from scratch", zap.Error(err))
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			return nil, fmt.Errorf("discard corrupt index: %w", rmErr)
		}
		db, err = pebble.Open(dir, &pebble.Options{})
		if err != nil {
			return nil, fmt.Errorf("recreate index: %w", err)
		}
	}
	return &Index{db: db, logger: logger}, nil
}

func (x *Index) Close() error {
	return x.db.Close()
}

// Apply folds one observed message into the index. Messages beyond the
// contiguous frontier are parked as pending and folded in when the gap
// fills; they are never silently skipped.
func (x *Index) Apply(dir Direction, sessionID uint64, epoch uint32, seq uint64, pos int64) error {
	entry, ok, err := x.get(dir, sessionID, epoch)
	if err != nil {
		return err
	}
	var frontier uint64
	if ok {
		frontier = entry.SeqNum
	}

	switch {
	case seq == frontier+1:
		frontier = seq
		// Fold any pending successors that arrived out of order.
		for {
			nextPos, ok, err := x.takePending(dir, sessionID, epoch, frontier+1)
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			frontier++
			pos = nextPos
		}
		return x.put(dir, sessionID, epoch, Entry{SeqNum: frontier, Epoch: epoch, Position: pos})
	case seq > frontier+1:
		return x.putPending(dir, sessionID, epoch, seq, pos)
	default:
		// Duplicate or possdup replay behind the frontier.
		return nil
	}
}

// BeginEpoch records the existence of a fresh epoch at sequence zero.
func (x *Index) BeginEpoch(dir Direction, sessionID uint64, epoch uint32, pos int64) error {
	_, ok, err := x.get(dir, sessionID, epoch)
	if err != nil || ok {
		return err
	}
	return x.put(dir, sessionID, epoch, Entry{SeqNum: 0, Epoch: epoch, Position: pos})
}

// LastKnown returns the high-water mark of the newest epoch for a session.
func (x *Index) LastKnown(dir Direction, sessionID uint64) (Entry, bool, error) {
	lower := seqKey(dir, sessionID, 0)
	upper := seqKey(dir, sessionID+1, 0)
	iter, err := x.db.NewIter(&pebble.IterOptions{LowerBound: lower, UpperBound: upper})
	if err != nil {
		return Entry{}, false, err
	}
	defer iter.Close()

	if !iter.Last() {
		return Entry{}, false, iter.Error()
	}
	entry, err := decodeEntry(iter.Key(), iter.Value())
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Checkpoint returns the last consumed position for a stream, zero when
// the index is fresh.
func (x *Index) Checkpoint(stream byte) (int64, error) {
	val, closer, err := x.db.Get(checkpointKey(stream))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	defer closer.Close()
	if len(val) != 8 {
		return 0, errors.New("seqindex: corrupt checkpoint")
	}
	return int64(binary.BigEndian.Uint64(val)), nil
}

func (x *Index) SetCheckpoint(stream byte, pos int64) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(pos))
	return x.db.Set(checkpointKey(stream), buf[:], pebble.NoSync)
}

func (x *Index) get(dir Direction, sessionID uint64, epoch uint32) (Entry, bool, error) {
	val, closer, err := x.db.Get(seqKey(dir, sessionID, epoch))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	defer closer.Close()
	entry, err := decodeEntry(seqKey(dir, sessionID, epoch), val)
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (x *Index) put(dir Direction, sessionID uint64, epoch uint32, e Entry) error {
	var val [16]byte
	binary.BigEndian.PutUint64(val[:8], e.SeqNum)
	binary.BigEndian.PutUint64(val[8:], uint64(e.Position))
	// The index is rebuildable from the log; NoSync keeps the consumer off
	// the fsync path.
	return x.db.Set(seqKey(dir, sessionID, epoch), val[:], pebble.NoSync)
}

func (x *Index) putPending(dir Direction, sessionID uint64, epoch uint32, seq uint64, pos int64) error {
	var val [8]byte
	binary.BigEndian.PutUint64(val[:], uint64(pos))
	return x.db.Set(pendingKey(dir, sessionID, epoch, seq), val[:], pebble.NoSync)
}

func (x *Index) takePending(dir Direction, sessionID uint64, epoch uint32, seq uint64) (int64, bool, error) {
	key := pendingKey(dir, sessionID, epoch, seq)
	val, closer, err := x.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	pos := int64(binary.BigEndian.Uint64(val))
	closer.Close()
	if err := x.db.Delete(key, pebble.NoSync); err != nil {
		return 0, false, err
	}
	return pos, true, nil
}

func seqKey(dir Direction, sessionID uint64, epoch uint32) []byte {
	key := make([]byte, 0, 4+1+8+4)
	key = append(key, 's', 'q', '/', byte(dir))
	key = binary.BigEndian.AppendUint64(key, sessionID)
	key = binary.BigEndian.AppendUint32(key, epoch)
	return key
}

func pendingKey(dir Direction, sessionID uint64, epoch uint32, seq uint64) []byte {
	key := make([]byte, 0, 4+1+8+4+8)
	key = append(key, 'p', 'd', '/', byte(dir))
	key = binary.BigEndian.AppendUint64(key, sessionID)
	key = binary.BigEndian.AppendUint32(key, epoch)
	key = binary.BigEndian.AppendUint64(key, seq)
	return key
}

func checkpointKey(stream byte) []byte {
	return []byte{'c', 'k', '/', stream}
}

func decodeEntry(key, val []byte) (Entry, error) {
	if len(val) != 16 || len(key) < 16 {
		return Entry{}, errors.New("seqindex: corrupt index record")
	}
	return Entry{
		Epoch:    binary.BigEndian.Uint32(key[len(key)-4:]),
		SeqNum:   binary.BigEndian.Uint64(val[:8]),
		Position: int64(binary.BigEndian.Uint64(val[8:])),
	}, nil
}
