// Package jsonl persists analyses as an append-only log: one JSON object
// per line, UTF-8, final newline. Deletion rewrites the whole file, a
// deliberate simplicity trade-off for small logs.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
)

type Store struct {
	mu   sync.Mutex // serializes append and delete
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Append serializes rec as one line. The parent directory is created on
// first use.
func (s *Store) Append(ctx context.Context, rec *domain.Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &domain.StoreIOError{Op: "append", Cause: err}
		}
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	if err := f.Close(); err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	return nil
}

// List reads the whole log, filters, sorts newest first and slices
// [offset, offset+limit). A missing file is a normal first-run state and
// yields an empty page.
func (s *Store) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}

	filtered := recs
	if q.ProductName != "" {
		needle := strings.ToLower(q.ProductName)
		filtered = filtered[:0:0]
		for _, rec := range recs {
			if strings.Contains(strings.ToLower(rec.ProductName), needle) {
				filtered = append(filtered, rec)
			}
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	total := len(filtered)
	start := q.Offset
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return domain.NewPage(filtered[start:end], total, q.Offset, q.Limit), nil
}

// Delete removes the record matching id and rewrites the log from the
// remaining set. Returns false when nothing matched, including when the
// log does not exist yet.
func (s *Store) Delete(ctx context.Context, id domain.ScanID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return false, err
	}

	kept := recs[:0:0]
	for _, rec := range recs {
		if rec.ScanID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(recs) {
		return false, nil
	}

	var buf bytes.Buffer
	for _, rec := range kept {
		line, err := json.Marshal(rec)
		if err != nil {
			return false, &domain.StoreIOError{Op: "delete", Cause: err}
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return false, &domain.StoreIOError{Op: "delete", Cause: err}
	}
	return true, nil
}

// readAll parses every line independently; a line that fails to parse
// (including a partially written trailing line) is dropped, not fatal.
func (s *Store) readAll() ([]*domain.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &domain.StoreIOError{Op: "read", Cause: err}
	}
	defer f.Close()

	var out []*domain.Record
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec domain.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		out = append(out, &rec)
	}
	if err := sc.Err(); err != nil {
		return nil, &domain.StoreIOError{Op: "read", Cause: err}
	}
	return out, nil
}
