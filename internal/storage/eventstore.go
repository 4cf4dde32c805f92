package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Event categories. Each category is an independent append-only JSONL file.
const (
	CategoryLogs    = "logs"
	CategoryTests   = "tests"
	CategoryMetrics = "metrics"
)

// DefaultReadLimit bounds reads when the caller passes a non-positive limit.
const DefaultReadLimit = 100

// Filter matches events whose top-level string fields equal every entry.
// Non-string fields and absent keys never match.
type Filter map[string]string

// EventStore persists timestamped events per category and reads them back
// newest-first. Implementations must be safe for concurrent use.
type EventStore interface {
	// Append encodes v as a single JSON line and appends it to the
	// category's file. Partial lines are never visible to readers.
	Append(category string, v any) error

	// Read re-scans the category file and returns up to limit matching
	// events, newest-first. Malformed lines are skipped, not errors.
	// A missing file yields an empty result.
	Read(category string, filter Filter, limit int) ([]json.RawMessage, error)

	Close() error
}

// StoreError wraps a storage failure with the operation and category that
// produced it.
type StoreError struct {
	Op       string
	Category string
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("event store: %s %s: %v", e.Op, e.Category, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// categoryFile tracks the open append handle for one category.
type categoryFile struct {
	mu   sync.Mutex
	path string
	file *os.File
}

type jsonlStore struct {
	mu         sync.Mutex
	baseDir    string
	dirs       map[string]string // category -> directory override
	categories map[string]*categoryFile
}

// Option customizes a JSONL store.
type Option func(*jsonlStore)

// WithCategoryDir redirects one category's file into its own directory.
func WithCategoryDir(category, dir string) Option {
	return func(s *jsonlStore) {
		if dir != "" {
			s.dirs[category] = dir
		}
	}
}

// NewJSONLStore creates a store that keeps one <category>.jsonl file per
// category under baseDir. Directories and files are created lazily on the
// first append, so constructing a store never touches the filesystem.
func NewJSONLStore(baseDir string, opts ...Option) EventStore {
	s := &jsonlStore{
		baseDir:    baseDir,
		dirs:       make(map[string]string),
		categories: make(map[string]*categoryFile),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *jsonlStore) categoryPath(category string) string {
	dir := s.baseDir
	if override, ok := s.dirs[category]; ok {
		dir = override
	}
	return filepath.Join(dir, category+".jsonl")
}

func (s *jsonlStore) category(category string) *categoryFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	cf, ok := s.categories[category]
	if !ok {
		cf = &categoryFile{path: s.categoryPath(category)}
		s.categories[category] = cf
	}
	return cf
}

func (s *jsonlStore) Append(category string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StoreError{Op: "encode", Category: category, Err: err}
	}
	data = append(data, '\n')

	cf := s.category(category)
	cf.mu.Lock()
	defer cf.mu.Unlock()

	if cf.file == nil {
		if err := os.MkdirAll(filepath.Dir(cf.path), 0o755); err != nil {
			return &StoreError{Op: "mkdir", Category: category, Err: err}
		}
		f, err := os.OpenFile(cf.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return &StoreError{Op: "open", Category: category, Err: err}
		}
		cf.file = f
	}

	if _, err := cf.file.Write(data); err != nil {
		return &StoreError{Op: "append", Category: category, Err: err}
	}
	return nil
}

func (s *jsonlStore) Read(category string, filter Filter, limit int) ([]json.RawMessage, error) {
	if limit <= 0 {
		limit = DefaultReadLimit
	}

	cf := s.category(category)
	f, err := os.Open(cf.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StoreError{Op: "read", Category: category, Err: err}
	}
	defer func() { _ = f.Close() }()

	// Keep only the newest limit matches while scanning oldest-first.
	var matched []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !matchesFilter(line, filter) {
			continue
		}
		raw := make(json.RawMessage, len(line))
		copy(raw, line)
		matched = append(matched, raw)
		if len(matched) > limit {
			matched = matched[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &StoreError{Op: "read", Category: category, Err: err}
	}

	// Reverse in place so the result is newest-first.
	for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
		matched[i], matched[j] = matched[j], matched[i]
	}
	return matched, nil
}

// matchesFilter decodes the line's top level and requires every filter entry
// to match a string field exactly. Malformed lines never match.
func matchesFilter(line []byte, filter Filter) bool {
	var decoded map[string]any
	if err := json.Unmarshal(line, &decoded); err != nil {
		return false
	}
	for key, want := range filter {
		got, ok := decoded[key].(string)
		if !ok || got != want {
			return false
		}
	}
	return true
}

func (s *jsonlStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for category, cf := range s.categories {
		cf.mu.Lock()
		if cf.file != nil {
			if err := cf.file.Close(); err != nil && firstErr == nil {
				firstErr = &StoreError{Op: "close", Category: category, Err: err}
			}
			cf.file = nil
		}
		cf.mu.Unlock()
	}
	return firstErr
}
