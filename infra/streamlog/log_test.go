package streamlog

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLog_AppendAndRead(t *testing.T) {
	dir := t.TempDir()

	l, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("open log: %v", err)
	}

	const n = 100
	positions := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		pos, err := l.Append([]byte(fmt.Sprintf("frame-%d", i)))
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		positions = append(positions, pos)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := OpenReader(dir, 0)
	if err != nil {
		t.Fatalf("open reader: %v", err)
	}
	count := 0
	for r.Next() {
		want := fmt.Sprintf("frame-%d", count)
		if string(r.Payload()) != want {
			t.Fatalf("frame %d: got %q want %q", count, r.Payload(), want)
		}
		if r.Position() != positions[count] {
			t.Fatalf("frame %d: position %d, appended at %d", count, r.Position(), positions[count])
		}
		count++
	}
	if r.Err() != nil {
		t.Errorf("reader error: %v", r.Err())
	}
	if count != n {
		t.Fatalf("expected %d frames, got %d", n, count)
	}
	_ = r.Close()
}

func TestLog_PositionsMonotonic(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	var last int64 = -1
	for i := 0; i < 50; i++ {
		pos, err := l.Append([]byte("x"))
		if err != nil {
			t.Fatal(err)
		}
		if pos <= last {
			t.Fatalf("position went backwards: %d after %d", pos, last)
		}
		last = pos
	}
}

func TestLog_RotationKeepsPositionsContiguous(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, Options{SegmentSize: 64, SegmentDuration: time.Hour})
	if err != nil {
		t.Fatal(err)
	}

	const n = 20
	for i := 0; i < n; i++ {
		if _, err := l.Append([]byte(fmt.Sprintf("record-%02d", i))); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := loadIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected rotation to seal segments, got %d entries", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Start != entries[i-1].End {
			t.Fatalf("gap between segments: %d ends %d, %d starts %d",
				i-1, entries[i-1].End, i, entries[i].Start)
		}
	}

	r, err := OpenReader(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for r.Next() {
		count++
	}
	if r.Err() != nil {
		t.Fatalf("reader error: %v", r.Err())
	}
	if count != n {
		t.Fatalf("expected %d frames across segments, got %d", n, count)
	}
}

func TestLog_RecoverTruncatesTornTail(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Append([]byte("intact")); err != nil {
		t.Fatal(err)
	}
	intactEnd := l.LastPosition()
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}

	// Simulate a crash mid-write: append half a frame header.
	path := filepath.Join(dir, liveSegment)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte{0x10, 0x00, 0x00}); err != nil {
		t.Fatal(err)
	}
	f.Close()

	l2, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("reopen after torn tail: %v", err)
	}
	if l2.LastPosition() != intactEnd {
		t.Fatalf("expected recovery to position %d, got %d", intactEnd, l2.LastPosition())
	}
	pos, err := l2.Append([]byte("after-recovery"))
	if err != nil {
		t.Fatal(err)
	}
	if pos != intactEnd {
		t.Fatalf("append after recovery at %d, want %d", pos, intactEnd)
	}
	_ = l2.Close()
}

func TestReader_DetectsCorruption(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Append([]byte("valid-frame")); err != nil {
		t.Fatal(err)
	}
	_ = l.Close()

	// Flip payload bytes so the CRC no longer matches.
	path := filepath.Join(dir, liveSegment)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteAt([]byte{0xFF, 0xFF}, frameHeaderSize); err != nil {
		t.Fatal(err)
	}
	f.Close()

	r, err := OpenReader(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Next() {
		t.Fatal("expected corruption detection, got a frame")
	}
	if r.Err() != ErrCorruptFrame {
		t.Fatalf("expected ErrCorruptFrame, got %v", r.Err())
	}
}

func TestReader_TailsLiveSegment(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	r, err := OpenReader(dir, 0)
	if err != nil {
		t.Fatal(err)
	}
	if r.Next() {
		t.Fatal("expected no frame on an empty log")
	}
	if r.Err() != nil {
		t.Fatalf("empty poll should not error: %v", r.Err())
	}

	if _, err := l.Append([]byte("late-arrival")); err != nil {
		t.Fatal(err)
	}
	if !r.Next() {
		t.Fatalf("expected frame after append, err=%v", r.Err())
	}
	if string(r.Payload()) != "late-arrival" {
		t.Fatalf("unexpected payload %q", r.Payload())
	}
}

func TestReader_FollowsRotation(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir, Options{SegmentSize: 48, SegmentDuration: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()

	r, err := OpenReader(dir, 0)
	if err != nil {
		t.Fatal(err)
	}

	seen := 0
	for i := 0; i < 12; i++ {
		if _, err := l.Append([]byte(fmt.Sprintf("burst-%02d", i))); err != nil {
			t.Fatal(err)
		}
		for r.Next() {
			seen++
		}
		if r.Err() != nil {
			t.Fatalf("reader error mid-burst: %v", r.Err())
		}
	}
	if seen != 12 {
		t.Fatalf("expected 12 frames across rotations, got %d", seen)
	}
}
