package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type testEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Component string    `json:"component"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Seq       int       `json:"seq"`
}

func TestJSONLStore_AppendAndRead(t *testing.T) {
	store := NewJSONLStore(t.TempDir())
	defer store.Close()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		event := testEvent{
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Component: "api",
			Level:     "INFO",
			Message:   fmt.Sprintf("event %d", i),
			Seq:       i,
		}
		if err := store.Append(CategoryLogs, event); err != nil {
			t.Fatalf("appending event %d: %v", i, err)
		}
	}

	raws, err := store.Read(CategoryLogs, nil, 10)
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(raws) != 3 {
		t.Fatalf("expected 3 events, got %d", len(raws))
	}

	// Newest first.
	var first testEvent
	if err := json.Unmarshal(raws[0], &first); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if first.Seq != 2 {
		t.Errorf("expected newest event first (seq 2), got seq %d", first.Seq)
	}
}

func TestJSONLStore_ReadMissingFile(t *testing.T) {
	store := NewJSONLStore(t.TempDir())
	defer store.Close()

	raws, err := store.Read(CategoryMetrics, nil, 10)
	if err != nil {
		t.Fatalf("reading empty category: %v", err)
	}
	if len(raws) != 0 {
		t.Errorf("expected no events, got %d", len(raws))
	}
}

func TestJSONLStore_FilterMatchesStringFields(t *testing.T) {
	store := NewJSONLStore(t.TempDir())
	defer store.Close()

	events := []testEvent{
		{Component: "api", Level: "INFO", Message: "ok"},
		{Component: "db", Level: "ERROR", Message: "connection lost"},
		{Component: "api", Level: "ERROR", Message: "bad request"},
	}
	for _, e := range events {
		if err := store.Append(CategoryLogs, e); err != nil {
			t.Fatalf("appending event: %v", err)
		}
	}

	raws, err := store.Read(CategoryLogs, Filter{"component": "api", "level": "ERROR"}, 10)
	if err != nil {
		t.Fatalf("reading filtered events: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected 1 matching event, got %d", len(raws))
	}

	var got testEvent
	if err := json.Unmarshal(raws[0], &got); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if got.Message != "bad request" {
		t.Errorf("expected 'bad request', got %q", got.Message)
	}
}

func TestJSONLStore_LimitKeepsNewest(t *testing.T) {
	store := NewJSONLStore(t.TempDir())
	defer store.Close()

	for i := 0; i < 10; i++ {
		if err := store.Append(CategoryLogs, testEvent{Seq: i}); err != nil {
			t.Fatalf("appending event %d: %v", i, err)
		}
	}

	raws, err := store.Read(CategoryLogs, nil, 3)
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(raws) != 3 {
		t.Fatalf("expected 3 events, got %d", len(raws))
	}

	// The newest 3 are seqs 9, 8, 7 in that order.
	for i, want := range []int{9, 8, 7} {
		var got testEvent
		if err := json.Unmarshal(raws[i], &got); err != nil {
			t.Fatalf("decoding event %d: %v", i, err)
		}
		if got.Seq != want {
			t.Errorf("position %d: expected seq %d, got %d", i, want, got.Seq)
		}
	}
}

func TestJSONLStore_DefaultLimit(t *testing.T) {
	store := NewJSONLStore(t.TempDir())
	defer store.Close()

	for i := 0; i < DefaultReadLimit+20; i++ {
		if err := store.Append(CategoryLogs, testEvent{Seq: i}); err != nil {
			t.Fatalf("appending event %d: %v", i, err)
		}
	}

	raws, err := store.Read(CategoryLogs, nil, 0)
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(raws) != DefaultReadLimit {
		t.Errorf("expected %d events with default limit, got %d", DefaultReadLimit, len(raws))
	}
}

func TestJSONLStore_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONLStore(dir)
	defer store.Close()

	if err := store.Append(CategoryLogs, testEvent{Seq: 1, Message: "good"}); err != nil {
		t.Fatalf("appending event: %v", err)
	}

	// Corrupt the file with a partial line and a blank line.
	path := filepath.Join(dir, "logs.jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("opening store file: %v", err)
	}
	if _, err := f.WriteString("{\"seq\": 2, \"mes\n\n"); err != nil {
		t.Fatalf("writing corrupt line: %v", err)
	}
	f.Close()

	if err := store.Append(CategoryLogs, testEvent{Seq: 3, Message: "also good"}); err != nil {
		t.Fatalf("appending after corruption: %v", err)
	}

	raws, err := store.Read(CategoryLogs, nil, 10)
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 valid events, got %d", len(raws))
	}
}

func TestJSONLStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	store := NewJSONLStore(dir)
	if err := store.Append(CategoryTests, testEvent{Seq: 1}); err != nil {
		t.Fatalf("appending event: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("closing store: %v", err)
	}

	reopened := NewJSONLStore(dir)
	defer reopened.Close()

	if err := reopened.Append(CategoryTests, testEvent{Seq: 2}); err != nil {
		t.Fatalf("appending after reopen: %v", err)
	}

	raws, err := reopened.Read(CategoryTests, nil, 10)
	if err != nil {
		t.Fatalf("reading after reopen: %v", err)
	}
	if len(raws) != 2 {
		t.Errorf("expected 2 events across restarts, got %d", len(raws))
	}
}

func TestJSONLStore_CategoryDirOverride(t *testing.T) {
	baseDir := t.TempDir()
	testsDir := t.TempDir()

	store := NewJSONLStore(baseDir, WithCategoryDir(CategoryTests, testsDir))
	defer store.Close()

	if err := store.Append(CategoryLogs, testEvent{Seq: 1}); err != nil {
		t.Fatalf("appending log event: %v", err)
	}
	if err := store.Append(CategoryTests, testEvent{Seq: 2}); err != nil {
		t.Fatalf("appending test event: %v", err)
	}

	if _, err := os.Stat(filepath.Join(baseDir, "logs.jsonl")); err != nil {
		t.Errorf("expected logs.jsonl under base dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(testsDir, "tests.jsonl")); err != nil {
		t.Errorf("expected tests.jsonl under override dir: %v", err)
	}
}

func TestJSONLStore_ConcurrentAppends(t *testing.T) {
	store := NewJSONLStore(t.TempDir())
	defer store.Close()

	const writers = 8
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				event := testEvent{Component: fmt.Sprintf("writer-%d", w), Seq: i}
				if err := store.Append(CategoryLogs, event); err != nil {
					t.Errorf("concurrent append: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	raws, err := store.Read(CategoryLogs, nil, writers*perWriter)
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(raws) != writers*perWriter {
		t.Errorf("expected %d events, got %d", writers*perWriter, len(raws))
	}

	// Every line must decode cleanly: no interleaved partial writes.
	for i, raw := range raws {
		var got testEvent
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("event %d is not valid JSON: %v", i, err)
		}
	}
}

func TestJSONLStore_StoreErrorWrapsCause(t *testing.T) {
	// Appending something JSON cannot encode surfaces a typed StoreError.
	store := NewJSONLStore(t.TempDir())
	defer store.Close()

	err := store.Append(CategoryLogs, map[string]any{"bad": make(chan int)})
	if err == nil {
		t.Fatal("expected error for unencodable value")
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *StoreError, got %T", err)
	}
	if storeErr.Category != CategoryLogs {
		t.Errorf("expected category %q, got %q", CategoryLogs, storeErr.Category)
	}
}
