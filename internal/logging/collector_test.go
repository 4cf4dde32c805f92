package logging

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/valter-silva-au/logiclens/internal/storage"
	"github.com/valter-silva-au/logiclens/pkg/models"
)

func newTestCollector(t *testing.T) Collector {
	t.Helper()

	store := storage.NewJSONLStore(t.TempDir())
	t.Cleanup(func() { _ = store.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)

	return NewCollector("testapp", store, log)
}

func TestCollector_LogEventStampsFields(t *testing.T) {
	logs := newTestCollector(t)

	event, err := logs.LogEvent("auth", "login failed", models.LevelError, map[string]any{"user": "alice"})
	if err != nil {
		t.Fatalf("logging event: %v", err)
	}

	if event.App != "testapp" {
		t.Errorf("expected app testapp, got %q", event.App)
	}
	if event.Component != "auth" {
		t.Errorf("expected component auth, got %q", event.Component)
	}
	if event.Level != models.LevelError {
		t.Errorf("expected level ERROR, got %s", event.Level)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestCollector_InvalidLevelFallsBackToInfo(t *testing.T) {
	logs := newTestCollector(t)

	event, err := logs.LogEvent("api", "something", models.LogLevel("VERBOSE"), nil)
	if err != nil {
		t.Fatalf("logging event: %v", err)
	}
	if event.Level != models.LevelInfo {
		t.Errorf("expected unknown level to become INFO, got %s", event.Level)
	}
}

func TestCollector_GetLogsNewestFirst(t *testing.T) {
	logs := newTestCollector(t)

	for _, msg := range []string{"first", "second", "third"} {
		if _, err := logs.LogEvent("api", msg, models.LevelInfo, nil); err != nil {
			t.Fatalf("logging event: %v", err)
		}
	}

	events, err := logs.GetLogs("", "", 10)
	if err != nil {
		t.Fatalf("getting logs: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Message != "third" {
		t.Errorf("expected newest event first, got %q", events[0].Message)
	}
	if events[2].Message != "first" {
		t.Errorf("expected oldest event last, got %q", events[2].Message)
	}
}

func TestCollector_GetLogsFilters(t *testing.T) {
	logs := newTestCollector(t)

	seed := []struct {
		component string
		level     models.LogLevel
		message   string
	}{
		{"auth", models.LevelError, "login failed"},
		{"api", models.LevelInfo, "request served"},
		{"auth", models.LevelInfo, "login ok"},
	}
	for _, s := range seed {
		if _, err := logs.LogEvent(s.component, s.message, s.level, nil); err != nil {
			t.Fatalf("logging event: %v", err)
		}
	}

	byComponent, err := logs.GetLogs("auth", "", 10)
	if err != nil {
		t.Fatalf("filtering by component: %v", err)
	}
	if len(byComponent) != 2 {
		t.Errorf("expected 2 auth events, got %d", len(byComponent))
	}

	// Level filters are case-insensitive.
	byLevel, err := logs.GetLogs("auth", "error", 10)
	if err != nil {
		t.Fatalf("filtering by level: %v", err)
	}
	if len(byLevel) != 1 {
		t.Fatalf("expected 1 auth ERROR event, got %d", len(byLevel))
	}
	if byLevel[0].Message != "login failed" {
		t.Errorf("expected 'login failed', got %q", byLevel[0].Message)
	}
}

func TestCollector_GetLogsIdempotent(t *testing.T) {
	logs := newTestCollector(t)

	if _, err := logs.LogEvent("api", "hello", models.LevelInfo, nil); err != nil {
		t.Fatalf("logging event: %v", err)
	}

	for i := 0; i < 3; i++ {
		events, err := logs.GetLogs("", "", 10)
		if err != nil {
			t.Fatalf("read %d: %v", i, err)
		}
		if len(events) != 1 {
			t.Fatalf("read %d: expected 1 event, got %d", i, len(events))
		}
	}
}
