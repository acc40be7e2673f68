// Package quotes holds the persisted quote collection and avatar asset resolution.
//
// The collection is loaded once at startup from a single JSON file and grows
// only through Add; every mutation is made durable by an explicit Persist,
// which rewrites the whole file through a temp-file-then-rename so readers
// never observe a half-written document. The store is shared between the
// slash-command handlers and the autoquote scheduler, so reads and appends
// are guarded by a RWMutex and persists are serialized by their own lock.
package quotes

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/onnwee/quotecaster/telemetry"
)

// Quote is one stored quotation. Avatar, when non-nil, names an avatar asset
// that existed at the time the quote was added; delivery falls back to the
// default avatar if the asset has since been removed.
type Quote struct {
	Avatar *string `json:"avatar"`
	Text   string  `json:"text"`
}

// quotesFile is the on-disk document shape.
type quotesFile struct {
	Quotes []Quote `json:"quotes"`
}

// Store is the in-memory quote collection backed by a JSON file.
type Store struct {
	path string

	mu     sync.RWMutex // guards quotes
	quotes []Quote

	persistMu sync.Mutex // at most one persist in flight
}

// NewStore returns a store backed by the given file path. Call Load to
// populate it from disk.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the durable file, if present, and replaces the in-memory
// collection. Read or parse failures are logged and leave the collection
// empty; the service starts with zero quotes rather than failing to boot.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("quotes load failed; starting empty", slog.String("path", s.path), slog.Any("err", err))
		}
		return
	}
	var doc quotesFile
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("quotes parse failed; starting empty", slog.String("path", s.path), slog.Any("err", err))
		return
	}
	s.mu.Lock()
	s.quotes = doc.Quotes
	s.mu.Unlock()
	telemetry.SetQuoteCount(len(doc.Quotes))
	slog.Info("quotes loaded", slog.String("path", s.path), slog.Int("count", len(doc.Quotes)))
}

// Add appends a quote after trimming its text. Empty or all-whitespace text
// is rejected with a ValidationError and the collection is left untouched.
// Add does not persist; callers persist explicitly so batch adders can defer
// the durable write.
func (s *Store) Add(text string, avatar *string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return &ValidationError{Reason: "quote text is empty"}
	}
	s.mu.Lock()
	s.quotes = append(s.quotes, Quote{Avatar: avatar, Text: text})
	n := len(s.quotes)
	s.mu.Unlock()
	telemetry.SetQuoteCount(n)
	return nil
}

// Random returns one uniformly selected quote, or ErrNoQuotes when the
// collection is empty. Selection carries no state between calls.
func (s *Store) Random() (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.quotes) == 0 {
		return Quote{}, ErrNoQuotes
	}
	return s.quotes[rand.Intn(len(s.quotes))], nil
}

// Len returns the current number of quotes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}

// All returns a copy of the current collection in insertion order.
func (s *Store) All() []Quote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Quote, len(s.quotes))
	copy(out, s.quotes)
	return out
}

// Persist writes the full current collection to a temp file next to the
// durable file and atomically renames it into place. Concurrent callers
// block until the prior persist completes; a crash between write and rename
// leaves the previous file intact.
func (s *Store) Persist() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	// Snapshot under the read lock, marshal outside it.
	s.mu.RLock()
	snapshot := make([]Quote, len(s.quotes))
	copy(snapshot, s.quotes)
	s.mu.RUnlock()

	data, err := json.MarshalIndent(quotesFile{Quotes: snapshot}, "", "  ")
	if err != nil {
		return &StorageError{Op: "marshal", Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &StorageError{Op: "mkdir", Err: err}
	}
	tmp, err := os.CreateTemp(dir, ".quotes-*.json")
	if err != nil {
		return &StorageError{Op: "create temp", Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &StorageError{Op: "write", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return &StorageError{Op: "sync", Err: err}
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "close", Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return &StorageError{Op: "rename", Err: err}
	}
	telemetry.IncPersist()
	return nil
}
