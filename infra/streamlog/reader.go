package streamlog

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
)

// Reader is a resumable cursor over the log. Next returning false with a
// nil Err means no complete frame is available yet; the caller may poll
// again later. The cursor follows segment rotation transparently.
type Reader struct {
	dir      string
	pos      int64
	lastPos  int64
	file     *os.File
	fileBase int64
	sealed   bool
	sealEnd  int64
	payload  []byte
	err      error
}

// OpenReader positions a cursor at the given logical position. Position
// zero reads the stream from its beginning. The position must be a frame
// boundary previously returned by Append or Reader.Position.
func OpenReader(dir string, from int64) (*Reader, error) {
	if from < 0 {
		return nil, errors.New("streamlog: negative position")
	}
	return &Reader{dir: dir, pos: from, fileBase: -1}, nil
}

// Next advances to the next frame. The returned payload is valid until
// the following call to Next.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for {
		if r.file == nil {
			ok, err := r.resolve()
			if err != nil {
				r.err = err
				return false
			}
			if !ok {
				return false
			}
		}

		if _, err := r.file.Seek(r.pos-r.fileBase, io.SeekStart); err != nil {
			r.err = err
			return false
		}

		var header [frameHeaderSize]byte
		if _, err := io.ReadFull(r.file, header[:]); err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				if r.advanceSegment() {
					continue
				}
				return false
			}
			r.err = err
			return false
		}
		payloadLen := binary.LittleEndian.Uint32(header[:4])
		if cap(r.payload) < int(payloadLen) {
			r.payload = make([]byte, payloadLen)
		}
		r.payload = r.payload[:payloadLen]
		if _, err := io.ReadFull(r.file, r.payload); err != nil {
			if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
				// Torn tail of the live segment; the writer will finish it.
				if r.advanceSegment() {
					continue
				}
				return false
			}
			r.err = err
			return false
		}
		if crc32.ChecksumIEEE(r.payload) != binary.LittleEndian.Uint32(header[4:]) {
			r.err = ErrCorruptFrame
			return false
		}

		r.lastPos = r.pos
		r.pos += int64(frameHeaderSize) + int64(payloadLen)
		return true
	}
}

// Payload returns the current frame's payload.
func (r *Reader) Payload() []byte { return r.payload }

// Position returns the logical position of the current frame.
func (r *Reader) Position() int64 { return r.lastPos }

// NextPosition returns the position the cursor will read next.
func (r *Reader) NextPosition() int64 { return r.pos }

func (r *Reader) Err() error { return r.err }

func (r *Reader) Close() error {
	if r.file != nil {
		err := r.file.Close()
		r.file = nil
		return err
	}
	return nil
}

// resolve opens the segment holding r.pos. Returns false with nil error
// when the position is exactly at the head of an empty live segment that
// does not exist yet.
func (r *Reader) resolve() (bool, error) {
	entries, err := loadIndex(r.dir)
	if err != nil {
		return false, err
	}
	var liveBase int64
	if n := len(entries); n > 0 {
		liveBase = entries[n-1].End
	}

	if r.pos < liveBase {
		for _, e := range entries {
			if r.pos >= e.Start && r.pos < e.End {
				f, err := os.Open(filepath.Join(r.dir, e.File))
				if err != nil {
					return false, err
				}
				r.file = f
				r.fileBase = e.Start
				r.sealed = true
				r.sealEnd = e.End
				return true, nil
			}
		}
		return false, errors.New("streamlog: position not covered by any segment")
	}

	f, err := os.Open(filepath.Join(r.dir, liveSegment))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	r.file = f
	r.fileBase = liveBase
	r.sealed = false
	r.sealEnd = -1
	return true, nil
}

// advanceSegment handles hitting the end of the open file. For a sealed
// segment that always means "move to the next one". For the live segment
// it means either "no more data yet" or "the live segment was sealed
// behind us"; the index distinguishes the two.
func (r *Reader) advanceSegment() bool {
	if r.sealed {
		if r.pos >= r.sealEnd {
			r.closeFile()
			return true
		}
		// A sealed segment is immutable; a short read inside it is corruption.
		r.err = ErrCorruptFrame
		return false
	}

	entries, err := loadIndex(r.dir)
	if err != nil {
		r.err = err
		return false
	}
	for _, e := range entries {
		if e.Start == r.fileBase {
			// Our live segment was rotated. Anything left in it is reachable
			// through the sealed entry.
			r.closeFile()
			return true
		}
	}
	return false
}

func (r *Reader) closeFile() {
	if r.file != nil {
		_ = r.file.Close()
		r.file = nil
	}
	r.fileBase = -1
}
