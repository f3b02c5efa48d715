package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/LISSConsulting/mainloop/internal/session"
)

// JSONL is a Store backed by an append-only JSONL file. Each line is a
// JSON-serialized session.LogEntry. The file is synced after every Append so
// a killed run still leaves a readable log.
//
// Session identity: "<ulid>.jsonl". ULIDs sort lexically in creation order,
// so a plain name sort lists sessions oldest first.
type JSONL struct {
	file      *os.File
	mu        sync.Mutex
	idx       *fileIndex
	sessionID string
	startedAt time.Time
	pos       int64 // current write position in the file
}

// NewJSONL creates (or reopens) the session JSONL log in dir. dir is created
// with os.MkdirAll if it does not exist.
func NewJSONL(dir string) (*JSONL, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("store: mkdir %q: %w", dir, err)
	}
	now := time.Now()
	sessionID := ulid.Make().String()
	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	pos, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("store: seek: %w", err)
	}
	return &JSONL{
		file:      f,
		idx:       newFileIndex(),
		sessionID: sessionID,
		startedAt: now,
		pos:       pos,
	}, nil
}

// Path returns the location of the session file.
func (j *JSONL) Path() string {
	return j.file.Name()
}

// Append serializes entry as a JSON line, writes it to the file, and syncs.
// It is safe to call from multiple goroutines.
func (j *JSONL) Append(entry session.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()

	lineOffset := j.pos
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("store: write: %w", err)
	}
	if err := j.file.Sync(); err != nil {
		return fmt.Errorf("store: sync: %w", err)
	}
	lineLen := int64(len(data))
	j.pos += lineLen
	j.idx.onAppend(entry, lineOffset, lineLen)
	return nil
}

// Close closes the underlying file.
func (j *JSONL) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.file.Close()
}

// Steps returns summaries for all completed steps in this session.
// The returned slice is a copy and safe to mutate.
func (j *JSONL) Steps() ([]StepSummary, error) {
	j.mu.Lock()
	result := make([]StepSummary, len(j.idx.summaries))
	copy(result, j.idx.summaries)
	j.mu.Unlock()
	return result, nil
}

// StepLog returns the entries recorded for a completed step, reading from the
// JSONL file using the in-memory byte-offset index.
func (j *JSONL) StepLog(n int) ([]session.LogEntry, error) {
	j.mu.Lock()
	r, ok := j.idx.ranges[n]
	j.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("store: step %d not found", n)
	}
	size := r.end - r.start
	if size <= 0 {
		return nil, nil
	}
	buf := make([]byte, size)
	if _, err := j.file.ReadAt(buf, r.start); err != nil {
		return nil, fmt.Errorf("store: read step %d: %w", n, err)
	}
	var entries []session.LogEntry
	for _, line := range bytes.Split(buf, []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var e session.LogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			log.Printf("store: skipping malformed line in step %d: %v", n, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SessionSummary returns metadata about the session derived from the
// in-memory step index.
func (j *JSONL) SessionSummary() (SessionSummary, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return summarize(j.sessionID, j.startedAt, j.idx), nil
}

func summarize(id string, startedAt time.Time, idx *fileIndex) SessionSummary {
	steps, last := idx.summary()
	return SessionSummary{
		SessionID: id,
		Project:   idx.project,
		StartedAt: startedAt,
		Steps:     steps,
		LastEvent: last,
		Outcome:   idx.outcome,
	}
}

// ReadSession loads a finished session file and returns its summary and
// step summaries. Malformed lines are skipped.
func ReadSession(path string) (SessionSummary, []StepSummary, error) {
	f, err := os.Open(path)
	if err != nil {
		return SessionSummary{}, nil, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()

	idx := newFileIndex()
	var startedAt time.Time
	var offset int64
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		lineLen := int64(len(line)) + 1
		var e session.LogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			log.Printf("store: skipping malformed line in %s: %v", filepath.Base(path), err)
			offset += lineLen
			continue
		}
		if startedAt.IsZero() {
			startedAt = e.Timestamp
		}
		idx.onAppend(e, offset, lineLen)
		offset += lineLen
	}
	if err := sc.Err(); err != nil {
		return SessionSummary{}, nil, fmt.Errorf("store: scan %q: %w", path, err)
	}

	id := strings.TrimSuffix(filepath.Base(path), ".jsonl")
	steps := make([]StepSummary, len(idx.summaries))
	copy(steps, idx.summaries)
	return summarize(id, startedAt, idx), steps, nil
}

// LatestSession returns the path of the newest session file in dir.
func LatestSession(dir string) (string, error) {
	files, err := sessionFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("store: no sessions in %s", dir)
	}
	return filepath.Join(dir, files[len(files)-1]), nil
}

// EnforceRetention removes the oldest session log files in dir, keeping at most
// maxKeep files. If maxKeep is 0, no files are removed. Returns nil if dir does
// not exist or is empty.
func EnforceRetention(dir string, maxKeep int) error {
	if maxKeep <= 0 {
		return nil
	}
	files, err := sessionFiles(dir)
	if err != nil {
		return err
	}

	toDelete := len(files) - maxKeep
	for i := 0; i < toDelete; i++ {
		path := filepath.Join(dir, files[i])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("store: remove %q: %w", path, err)
		}
	}
	return nil
}

// sessionFiles lists *.jsonl names in dir, oldest first.
func sessionFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read dir %q: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".jsonl") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files) // ULID names sort chronologically
	return files, nil
}
