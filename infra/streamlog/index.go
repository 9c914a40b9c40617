package streamlog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
)

const (
	liveSegment   = "current.log"
	segmentFormat = "%06d.log"
	indexFile     = "segments.json"
)

// indexEntry records the logical byte range [Start, End) held by a sealed
// segment. One JSON object per line, append-only.
type indexEntry struct {
	File      string `json:"file"`
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
	Timestamp string `json:"timestamp"`
}

func appendIndexEntry(dir string, entry indexEntry) error {
	path := filepath.Join(dir, indexFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

func loadIndex(dir string) ([]indexEntry, error) {
	path := filepath.Join(dir, indexFile)
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []indexEntry
	for _, line := range bytes.Split(b, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var e indexEntry
		if err := json.Unmarshal(line, &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
