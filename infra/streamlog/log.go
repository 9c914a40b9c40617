// Package streamlog implements the durable substrate under a stream: a
// segmented, CRC-framed, append-only log addressed by logical byte
// positions that stay contiguous across segment rotation.
//
// The log is the source of truth for everything layered above it. Readers
// are cheap cursors that can tail a live segment and survive rotation.
package streamlog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"
)

const frameHeaderSize = 8

var (
	ErrCorruptFrame = errors.New("streamlog: corrupted frame")
	ErrClosed       = errors.New("streamlog: closed")
)

type Options struct {
	SegmentSize     uint64
	SegmentDuration time.Duration
}

func (o *Options) withDefaults() {
	if o.SegmentSize == 0 {
		o.SegmentSize = 64 * 1024 * 1024
	}
	if o.SegmentDuration == 0 {
		o.SegmentDuration = time.Hour
	}
}

// Log is a single-writer append log. Append is not safe for concurrent
// use; the owning publication serializes callers.
type Log struct {
	dir            string
	opts           Options
	file           *os.File
	segmentID      int
	base           int64 // logical position of the current segment's first byte
	written        int64 // bytes appended to the current segment
	lastRotationAt time.Time
	scratch        []byte
	closed         bool
}

// Open opens or creates the log in dir, recovering the live segment by
// scanning frames and truncating any torn tail.
func Open(dir string, opts Options) (*Log, error) {
	opts.withDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	entries, err := loadIndex(dir)
	if err != nil {
		return nil, err
	}
	var segID int
	var base int64
	if n := len(entries); n > 0 {
		segID = n
		base = entries[n-1].End
	}

	path := filepath.Join(dir, liveSegment)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}

	l := &Log{
		dir:            dir,
		opts:           opts,
		file:           f,
		segmentID:      segID,
		base:           base,
		lastRotationAt: time.Now(),
		scratch:        make([]byte, 0, 4096),
	}
	if err := l.recover(); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := l.file.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// Append writes one frame and returns its logical position.
func (l *Log) Append(payload []byte) (int64, error) {
	if l.closed {
		return 0, ErrClosed
	}
	frameSize := frameHeaderSize + len(payload)
	if l.shouldRotate(frameSize) {
		if err := l.rotate(); err != nil {
			return 0, err
		}
	}

	pos := l.base + l.written
	l.scratch = l.scratch[:0]
	var header [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(header[:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(header[4:], crc32.ChecksumIEEE(payload))
	l.scratch = append(l.scratch, header[:]...)
	l.scratch = append(l.scratch, payload...)
	if _, err := l.file.Write(l.scratch); err != nil {
		return 0, err
	}
	l.written += int64(frameSize)
	return pos, nil
}

// LastPosition returns the position the next Append will occupy.
func (l *Log) LastPosition() int64 {
	return l.base + l.written
}

func (l *Log) Sync() error {
	if l.closed {
		return ErrClosed
	}
	return l.file.Sync()
}

func (l *Log) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	_ = l.file.Sync()
	return l.file.Close()
}

func (l *Log) shouldRotate(nextSize int) bool {
	if l.written == 0 {
		return false
	}
	return uint64(l.written+int64(nextSize)) >= l.opts.SegmentSize ||
		time.Since(l.lastRotationAt) >= l.opts.SegmentDuration
}

func (l *Log) rotate() error {
	_ = l.file.Sync()
	_ = l.file.Close()

	newID := l.segmentID + 1
	sealed := fmt.Sprintf(segmentFormat, newID)
	oldPath := filepath.Join(l.dir, liveSegment)
	newPath := filepath.Join(l.dir, sealed)
	if err := os.Rename(oldPath, newPath); err != nil {
		return err
	}

	end := l.base + l.written
	if err := appendIndexEntry(l.dir, indexEntry{
		File:      sealed,
		Start:     l.base,
		End:       end,
		Timestamp: time.Now().Format(time.RFC3339),
	}); err != nil {
		return err
	}

	f, err := os.OpenFile(oldPath, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	l.file = f
	l.segmentID = newID
	l.base = end
	l.written = 0
	l.lastRotationAt = time.Now()
	return nil
}

// recover scans the live segment and truncates anything after the last
// intact frame. A torn tail is expected after a crash and is not an error.
func (l *Log) recover() error {
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() == 0 {
		l.written = 0
		return nil
	}
	if _, err := l.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	var (
		valid  int64
		header [frameHeaderSize]byte
	)
	for {
		if _, err := io.ReadFull(l.file, header[:]); err != nil {
			if err == io.EOF {
				break
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return l.truncate(valid)
			}
			return err
		}
		payloadLen := binary.LittleEndian.Uint32(header[:4])
		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(l.file, payload); err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				return l.truncate(valid)
			}
			return err
		}
		if crc32.ChecksumIEEE(payload) != binary.LittleEndian.Uint32(header[4:]) {
			return l.truncate(valid)
		}
		valid += int64(frameHeaderSize) + int64(payloadLen)
	}
	l.written = valid
	return nil
}

func (l *Log) truncate(valid int64) error {
	if err := l.file.Truncate(valid); err != nil {
		return err
	}
	if _, err := l.file.Seek(valid, io.SeekStart); err != nil {
		return err
	}
	l.written = valid
	return nil
}
